package game

import "errors"

const (
	Columns = 7
	Rows    = 6
	// Connect is the run length that wins.
	Connect = 4
)

// Piece is the content of a cell, and doubles as the player identity.
type Piece int

const (
	Empty Piece = iota
	PlayerOne
	PlayerTwo
)

func (p Piece) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

// Other returns the opponent of p. Empty has no opponent.
func (p Piece) Other() Piece {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

func (p Piece) String() string {
	switch p {
	case PlayerOne:
		return "Player One"
	case PlayerTwo:
		return "Player Two"
	}
	return "Empty"
}

var (
	ErrColumnFull    = errors.New("column is full")
	ErrInvalidColumn = errors.New("invalid column")
	ErrInvalidRow    = errors.New("row is not the next open row")
	ErrInvalidPiece  = errors.New("invalid piece")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game already finished")
)

// Board is indexed [row][col] with row 0 at the bottom.
type Board [Rows][Columns]Piece

// Cell is a (row, col) coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Line is a winning run of cells.
type Line [Connect]Cell

func validColumn(col int) bool {
	return col >= 0 && col < Columns
}

func (b *Board) IsValidLocation(col int) bool {
	if !validColumn(col) {
		return false
	}
	return b[Rows-1][col] == Empty
}

// NextOpenRow returns the lowest empty row of col.
func (b *Board) NextOpenRow(col int) (int, error) {
	if !validColumn(col) {
		return -1, ErrInvalidColumn
	}
	for row := 0; row < Rows; row++ {
		if b[row][col] == Empty {
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// Height is the number of pieces stacked in col.
func (b *Board) Height(col int) int {
	if !validColumn(col) {
		return 0
	}
	h := 0
	for h < Rows && b[h][col] != Empty {
		h++
	}
	return h
}

func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b[Rows-1][c] == Empty {
			return false
		}
	}
	return true
}

// Pieces counts the cells holding p.
func (b *Board) Pieces(p Piece) int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b[r][c] == p {
				n++
			}
		}
	}
	return n
}

func (b *Board) place(row, col int, p Piece) {
	b[row][col] = p
}

func (b *Board) WinningMove(p Piece) bool {
	_, ok := b.FindFour(p)
	return ok
}

// FindFour scans for four-in-a-row of p: horizontal, vertical, then the
// rising and falling diagonals. Columns are the outer loop.
func (b *Board) FindFour(p Piece) (Line, bool) {
	if !p.Valid() {
		return Line{}, false
	}
	// horizontal
	for c := 0; c <= Columns-Connect; c++ {
		for r := 0; r < Rows; r++ {
			if line, ok := b.run(p, r, c, 0, 1); ok {
				return line, true
			}
		}
	}
	// vertical
	for c := 0; c < Columns; c++ {
		for r := 0; r <= Rows-Connect; r++ {
			if line, ok := b.run(p, r, c, 1, 0); ok {
				return line, true
			}
		}
	}
	// rising diagonal
	for c := 0; c <= Columns-Connect; c++ {
		for r := 0; r <= Rows-Connect; r++ {
			if line, ok := b.run(p, r, c, 1, 1); ok {
				return line, true
			}
		}
	}
	// falling diagonal
	for c := 0; c <= Columns-Connect; c++ {
		for r := Connect - 1; r < Rows; r++ {
			if line, ok := b.run(p, r, c, -1, 1); ok {
				return line, true
			}
		}
	}
	return Line{}, false
}

func (b *Board) run(p Piece, row, col, dr, dc int) (Line, bool) {
	var line Line
	for i := 0; i < Connect; i++ {
		r, c := row+i*dr, col+i*dc
		if b[r][c] != p {
			return Line{}, false
		}
		line[i] = Cell{Row: r, Col: c}
	}
	return line, true
}
