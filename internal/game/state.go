package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

// GameState owns one board and decides which moves are legal. It is not safe
// for concurrent use; a single event loop drives it.
type GameState struct {
	id        string
	board     Board
	turn      Piece
	status    Status
	winner    Piece
	line      Line
	moves     int
	startedAt time.Time
	endedAt   time.Time
}

type MoveResult struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Piece  Piece  `json:"piece"`
	Status Status `json:"status"`
	Winner Piece  `json:"winner"`
	Line   *Line  `json:"line,omitempty"`
}

func NewGameState() *GameState {
	return &GameState{
		id:        uuid.NewString(),
		turn:      PlayerOne,
		status:    StatusInProgress,
		startedAt: time.Now(),
	}
}

func (g *GameState) ID() string           { return g.id }
func (g *GameState) Board() Board         { return g.board }
func (g *GameState) Turn() Piece          { return g.turn }
func (g *GameState) Status() Status       { return g.status }
func (g *GameState) Winner() Piece        { return g.winner }
func (g *GameState) Moves() int           { return g.moves }
func (g *GameState) StartedAt() time.Time { return g.startedAt }
func (g *GameState) EndedAt() time.Time   { return g.endedAt }

func (g *GameState) GameOver() bool {
	return g.status != StatusInProgress
}

// Cell returns the piece at (row, col), Empty when out of range.
func (g *GameState) Cell(row, col int) Piece {
	if row < 0 || row >= Rows || !validColumn(col) {
		return Empty
	}
	return g.board[row][col]
}

func (g *GameState) Height(col int) int {
	return g.board.Height(col)
}

// WinningLine is set once the game is won.
func (g *GameState) WinningLine() (Line, bool) {
	return g.line, g.status == StatusWon
}

func (g *GameState) IsValidLocation(col int) bool {
	return g.board.IsValidLocation(col)
}

func (g *GameState) NextOpenRow(col int) (int, error) {
	return g.board.NextOpenRow(col)
}

func (g *GameState) WinningMove(p Piece) bool {
	return g.board.WinningMove(p)
}

// DropPiece places piece at (row, col). The cell must be the lowest open
// one in its column and piece must hold the turn; nothing is written when
// any check fails.
func (g *GameState) DropPiece(row, col int, piece Piece) (MoveResult, error) {
	if g.GameOver() {
		return MoveResult{}, ErrGameOver
	}
	if !piece.Valid() {
		return MoveResult{}, fmt.Errorf("piece %d: %w", piece, ErrInvalidPiece)
	}
	open, err := g.board.NextOpenRow(col)
	if err != nil {
		return MoveResult{}, fmt.Errorf("column %d: %w", col, err)
	}
	if row != open {
		return MoveResult{}, fmt.Errorf("row %d in column %d, next open is %d: %w", row, col, open, ErrInvalidRow)
	}
	if piece != g.turn {
		return MoveResult{}, fmt.Errorf("%s: %w", piece, ErrNotYourTurn)
	}

	g.board.place(row, col, piece)
	g.moves++
	res := MoveResult{Row: row, Col: col, Piece: piece}

	if line, ok := g.board.FindFour(piece); ok {
		g.status = StatusWon
		g.winner = piece
		g.line = line
		g.endedAt = time.Now()
		res.Line = &line
	} else if g.board.IsFull() {
		g.status = StatusDraw
		g.endedAt = time.Now()
	} else {
		g.turn = g.turn.Other()
	}
	res.Status = g.status
	res.Winner = g.winner
	return res, nil
}

// Play drops the current player's piece into col.
func (g *GameState) Play(col int) (MoveResult, error) {
	if g.GameOver() {
		return MoveResult{}, ErrGameOver
	}
	row, err := g.board.NextOpenRow(col)
	if err != nil {
		return MoveResult{}, fmt.Errorf("column %d: %w", col, err)
	}
	return g.DropPiece(row, col, g.turn)
}
