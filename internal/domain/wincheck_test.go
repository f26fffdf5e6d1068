package domain

import (
	"reflect"
	"testing"
)

func TestCheckWinEmptyBoard(t *testing.T) {
	winner, line := CheckWin(NewBoard(6, 7), 4)
	if winner != Empty {
		t.Errorf("expected no winner, got %v", winner)
	}
	if line != nil {
		t.Errorf("expected no line, got %v", line)
	}
}

func TestCheckWinHorizontal(t *testing.T) {
	board := parseBoard(t,
		".......",
		".......",
		".......",
		".......",
		"......2",
		"1111.2.",
	)
	// B tokens placed away from the line to keep it the only win

	winner, line := CheckWin(board, 4)
	if winner != Player1 {
		t.Fatalf("expected Player1, got %v", winner)
	}
	want := []Cell{{5, 3}, {5, 2}, {5, 1}, {5, 0}}
	if !reflect.DeepEqual(line, want) {
		t.Errorf("line = %v, want %v", line, want)
	}
}

func TestCheckWinVertical(t *testing.T) {
	board := parseBoard(t,
		".......",
		".......",
		"..1....",
		"..12...",
		"..12...",
		"..12...",
	)

	winner, line := CheckWin(board, 4)
	if winner != Player1 {
		t.Fatalf("expected Player1, got %v", winner)
	}
	want := []Cell{{5, 2}, {4, 2}, {3, 2}, {2, 2}}
	if !reflect.DeepEqual(line, want) {
		t.Errorf("line = %v, want %v", line, want)
	}
}

func TestCheckWinRightDiagonal(t *testing.T) {
	board := parseBoard(t,
		".......",
		".......",
		"...1...",
		"..12...",
		".122...",
		"1222...",
	)

	winner, line := CheckWin(board, 4)
	if winner != Player1 {
		t.Fatalf("expected Player1, got %v", winner)
	}
	want := []Cell{{5, 0}, {4, 1}, {3, 2}, {2, 3}}
	if !reflect.DeepEqual(line, want) {
		t.Errorf("line = %v, want %v", line, want)
	}
}

func TestCheckWinLeftDiagonal(t *testing.T) {
	board := parseBoard(t,
		".......",
		".......",
		"1......",
		"21.....",
		"221....",
		"2221...",
	)

	winner, line := CheckWin(board, 4)
	if winner != Player1 {
		t.Fatalf("expected Player1, got %v", winner)
	}
	want := []Cell{{5, 3}, {4, 2}, {3, 1}, {2, 0}}
	if !reflect.DeepEqual(line, want) {
		t.Errorf("line = %v, want %v", line, want)
	}
}

func TestCheckWinThreeInARowIsNotAWin(t *testing.T) {
	board := parseBoard(t,
		".......",
		".......",
		".......",
		"..2....",
		"..2....",
		"111.2..",
	)

	winner, line := CheckWin(board, 4)
	if winner != Empty || line != nil {
		t.Errorf("expected no win, got winner %v line %v", winner, line)
	}
}

func TestCheckWinDoesNotWrapAtBoardEdge(t *testing.T) {
	// three tokens at the right edge plus one at the left edge must not
	// be read as a contiguous line
	board := parseBoard(t,
		".......",
		".......",
		".......",
		".......",
		".......",
		"1...111",
	)

	winner, line := CheckWin(board, 4)
	if winner != Empty || line != nil {
		t.Errorf("expected no win, got winner %v line %v", winner, line)
	}
}

func TestCheckWinCanonicalOrderWithMultipleLines(t *testing.T) {
	// two vertical Player1 lines at once; the leftmost column wins the
	// scan order
	board := parseBoard(t,
		".......",
		".......",
		"1...1..",
		"1...1..",
		"1...1..",
		"1...1..",
	)

	winner, line := CheckWin(board, 4)
	if winner != Player1 {
		t.Fatalf("expected Player1, got %v", winner)
	}
	want := []Cell{{5, 0}, {4, 0}, {3, 0}, {2, 0}}
	if !reflect.DeepEqual(line, want) {
		t.Errorf("line = %v, want %v", line, want)
	}
}

func TestCheckWinIsIdempotent(t *testing.T) {
	board := parseBoard(t,
		".......",
		".......",
		"...1...",
		"..12...",
		".122...",
		"1222...",
	)

	winner1, line1 := CheckWin(board, 4)
	winner2, line2 := CheckWin(board, 4)

	if winner1 != winner2 {
		t.Errorf("winner changed between calls: %v then %v", winner1, winner2)
	}
	if !reflect.DeepEqual(line1, line2) {
		t.Errorf("line changed between calls: %v then %v", line1, line2)
	}
}

func TestCheckWinCustomWinLength(t *testing.T) {
	board := parseBoard(t,
		".....",
		".....",
		".....",
		"111..",
	)

	winner, line := CheckWin(board, 3)
	if winner != Player1 {
		t.Fatalf("expected Player1 with win length 3, got %v", winner)
	}
	want := []Cell{{3, 2}, {3, 1}, {3, 0}}
	if !reflect.DeepEqual(line, want) {
		t.Errorf("line = %v, want %v", line, want)
	}
}
