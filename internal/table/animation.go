package table

import "emittr/connectfour/internal/game"

// Drop is a falling disk. It moves Step pixels per Advance from the slot
// above the board until it reaches TargetY, then it is landed.
type Drop struct {
	Row     int
	Col     int
	Piece   game.Piece
	Y       int
	TargetY int
	Step    int
	landed  bool
}

// Frame is what a host needs to draw the disk in flight.
type Frame struct {
	Row   int        `json:"row"`
	Col   int        `json:"column"`
	Piece game.Piece `json:"piece"`
	Y     int        `json:"y"`
}

func newDrop(row, col int, piece game.Piece, cellSize, step int) *Drop {
	if step <= 0 {
		step = cellSize
	}
	return &Drop{
		Row:     row,
		Col:     col,
		Piece:   piece,
		TargetY: cellSize * (game.Rows - row),
		Step:    step,
	}
}

// Advance moves the disk one step. It reports true exactly once, on the
// step that lands it.
func (d *Drop) Advance() bool {
	if d.landed {
		return false
	}
	if d.Y < d.TargetY {
		d.Y += d.Step
		if d.Y > d.TargetY {
			d.Y = d.TargetY
		}
		return false
	}
	d.landed = true
	return true
}

func (d *Drop) Landed() bool { return d.landed }

func (d *Drop) Frame() Frame {
	return Frame{Row: d.Row, Col: d.Col, Piece: d.Piece, Y: d.Y}
}
