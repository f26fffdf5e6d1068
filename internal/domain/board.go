package domain

// Board is a grid of tokens. Row 0 is the top row and gravity pulls
// dropped tokens toward the highest row index.
type Board [][]PlayerID

// NewBoard creates an empty rows x columns board.
func NewBoard(rows, columns int) Board {
	board := make(Board, rows)
	for i := range board {
		board[i] = make([]PlayerID, columns)
	}
	return board
}

func (b Board) NumRows() int {
	return len(b)
}

func (b Board) NumColumns() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Clone creates a deep copy of the board.
func (b Board) Clone() Board {
	clone := make(Board, len(b))
	for i := range b {
		clone[i] = make([]PlayerID, len(b[i]))
		copy(clone[i], b[i])
	}
	return clone
}

// ValidColumn reports whether column is a real column index.
func (b Board) ValidColumn(column int) bool {
	return column >= 0 && column < b.NumColumns()
}

// Drop places player's token in the lowest empty cell of column, scanning
// from the bottom row upward. It returns the landing row, or -1 when the
// column is already full.
func (b Board) Drop(column int, player PlayerID) int {
	for row := b.NumRows() - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = player
			return row
		}
	}
	return -1
}

// Full reports whether every cell across every row holds a token.
func (b Board) Full() bool {
	for _, row := range b {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

// shaped reports whether the board matches the given dimensions, with no
// ragged rows.
func (b Board) shaped(rows, columns int) bool {
	if len(b) != rows {
		return false
	}
	for _, row := range b {
		if len(row) != columns {
			return false
		}
	}
	return true
}
