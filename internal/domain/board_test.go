package domain

import "testing"

// parseBoard builds a board from one string per row, top row first.
// '.' is an empty cell, '1' and '2' are player tokens.
func parseBoard(t *testing.T, rows ...string) Board {
	t.Helper()
	board := make(Board, len(rows))
	for i, row := range rows {
		board[i] = make([]PlayerID, len(row))
		for j, ch := range row {
			switch ch {
			case '.':
				board[i][j] = Empty
			case '1':
				board[i][j] = Player1
			case '2':
				board[i][j] = Player2
			default:
				t.Fatalf("bad board char %q at row %d col %d", ch, i, j)
			}
		}
	}
	return board
}

func TestNewBoardDimensions(t *testing.T) {
	board := NewBoard(6, 7)
	if board.NumRows() != 6 {
		t.Errorf("expected 6 rows, got %d", board.NumRows())
	}
	if board.NumColumns() != 7 {
		t.Errorf("expected 7 columns, got %d", board.NumColumns())
	}
	for r := 0; r < 6; r++ {
		for c := 0; c < 7; c++ {
			if board[r][c] != Empty {
				t.Errorf("expected empty cell at (%d,%d), got %v", r, c, board[r][c])
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	board := NewBoard(6, 7)
	board[5][3] = Player1

	clone := board.Clone()
	clone[5][3] = Player2
	clone[0][0] = Player1

	if board[5][3] != Player1 {
		t.Errorf("mutating clone changed original: got %v", board[5][3])
	}
	if board[0][0] != Empty {
		t.Errorf("mutating clone changed original: got %v", board[0][0])
	}
}

func TestValidColumn(t *testing.T) {
	board := NewBoard(6, 7)

	tests := []struct {
		column int
		want   bool
	}{
		{-1, false},
		{0, true},
		{3, true},
		{6, true},
		{7, false},
		{100, false},
	}
	for _, tt := range tests {
		if got := board.ValidColumn(tt.column); got != tt.want {
			t.Errorf("ValidColumn(%d) = %v, want %v", tt.column, got, tt.want)
		}
	}
}

func TestDropLandsOnLowestEmptyCell(t *testing.T) {
	board := NewBoard(6, 7)

	for i := 0; i < 6; i++ {
		wantRow := 5 - i
		row := board.Drop(2, Player1)
		if row != wantRow {
			t.Fatalf("drop %d: landed on row %d, want %d", i+1, row, wantRow)
		}
		if board[wantRow][2] != Player1 {
			t.Fatalf("drop %d: cell (%d,2) = %v, want Player1", i+1, wantRow, board[wantRow][2])
		}
	}

	if row := board.Drop(2, Player2); row != -1 {
		t.Errorf("drop into full column returned row %d, want -1", row)
	}
}

func TestFull(t *testing.T) {
	board := NewBoard(2, 2)
	if board.Full() {
		t.Error("empty board reported full")
	}

	board[0][0] = Player1
	board[0][1] = Player2
	board[1][0] = Player2
	if board.Full() {
		t.Error("board with an empty cell reported full")
	}

	board[1][1] = Player1
	if !board.Full() {
		t.Error("full board not reported full")
	}
}
