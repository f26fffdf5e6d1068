package domain

// scan directions tried at every candidate start cell, in order:
// vertical, horizontal, left diagonal, right diagonal
var winDirections = [4]struct{ deltaRow, deltaCol int }{
	{-1, 0},
	{0, -1},
	{-1, -1},
	{-1, 1},
}

// CheckWin scans the whole board for a run of winLength equal tokens.
// Candidate start cells are visited column by column from the left, and
// bottom to top inside each column, so the reported line is deterministic
// even when several winning lines exist at once. The returned line lists
// the start cell first, following the scan direction. Scanning a board
// twice yields the same winner and line.
func CheckWin(board Board, winLength int) (PlayerID, []Cell) {
	for col := 0; col < board.NumColumns(); col++ {
		for row := board.NumRows() - 1; row >= 0; row-- {
			if board[row][col] == Empty {
				continue
			}
			for _, dir := range winDirections {
				if line, ok := lineFrom(board, row, col, dir.deltaRow, dir.deltaCol, winLength); ok {
					return board[row][col], line
				}
			}
		}
	}
	return Empty, nil
}

// lineFrom walks winLength cells from (row, col) in the given direction and
// reports whether every visited cell is in bounds and holds the start
// cell's token.
func lineFrom(board Board, row, col, deltaRow, deltaCol, winLength int) ([]Cell, bool) {
	rows, columns := board.NumRows(), board.NumColumns()
	want := board[row][col]

	line := make([]Cell, 0, winLength)
	for i := 0; i < winLength; i++ {
		r := row + i*deltaRow
		c := col + i*deltaCol
		if r < 0 || r >= rows || c < 0 || c >= columns {
			return nil, false
		}
		if board[r][c] != want {
			return nil, false
		}
		line = append(line, Cell{Row: r, Col: c})
	}
	return line, true
}
