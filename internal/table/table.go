package table

import (
	"errors"
	"fmt"
	"time"

	"emittr/connectfour/internal/game"
)

var ErrDropInProgress = errors.New("a piece is still falling")

type Config struct {
	// CellSize is the pixel size of one board cell.
	CellSize int
	// DropStep is how far a falling disk moves per tick.
	DropStep int
}

var DefaultConfig = Config{CellSize: 100, DropStep: 20}

// Result is a finished game as reported to OnFinish.
type Result struct {
	TableID   string
	GameID    string
	Status    game.Status
	Winner    game.Piece
	Moves     int
	StartedAt time.Time
	EndedAt   time.Time
}

// Outcome is produced when a falling disk lands and is committed.
type Outcome struct {
	Move    game.MoveResult
	Score   Score
	Message string
}

type Snapshot struct {
	TableID string      `json:"tableId"`
	GameID  string      `json:"gameId"`
	Board   game.Board  `json:"board"`
	Turn    game.Piece  `json:"turn"`
	Status  game.Status `json:"status"`
	Winner  game.Piece  `json:"winner"`
	Line    *game.Line  `json:"line,omitempty"`
	Moves   int         `json:"moves"`
	Score   Score       `json:"score"`
	Drop    *Frame      `json:"drop,omitempty"`
}

// Table is the presentation-side controller around one GameState: it runs
// the drop animation, keeps the score across games and reports finished
// games. Like GameState it is driven by a single event loop.
type Table struct {
	ID       string
	cfg      Config
	game     *game.GameState
	score    Score
	drop     *Drop
	onFinish func(Result)
	lastSeen time.Time
}

func New(id string, cfg Config, onFinish func(Result)) *Table {
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultConfig.CellSize
	}
	if cfg.DropStep <= 0 {
		cfg.DropStep = DefaultConfig.DropStep
	}
	t := &Table{ID: id, cfg: cfg, onFinish: onFinish}
	t.NewGame()
	return t
}

func (t *Table) Config() Config { return t.cfg }

func (t *Table) Game() *game.GameState { return t.game }

// NewGame replaces the game and drops any disk still in flight. The score
// carries over.
func (t *Table) NewGame() {
	t.game = game.NewGameState()
	t.drop = nil
	t.touch()
}

// Restart starts a new game and zeroes the score.
func (t *Table) Restart() {
	t.NewGame()
	t.score.Reset()
}

func (t *Table) Points() Score {
	t.touch()
	return t.score
}

func (t *Table) Animating() bool {
	return t.drop != nil
}

func (t *Table) ActiveDrop() (Frame, bool) {
	if t.drop == nil {
		return Frame{}, false
	}
	return t.drop.Frame(), true
}

// HandleColumnClick starts dropping the current player's disk into col. It
// returns an error and changes nothing when the game is over, a disk is
// already falling, or the column cannot take a piece.
func (t *Table) HandleColumnClick(col int) (Frame, error) {
	t.touch()
	if t.game.GameOver() {
		return Frame{}, game.ErrGameOver
	}
	if t.drop != nil {
		return Frame{}, ErrDropInProgress
	}
	if !t.game.IsValidLocation(col) {
		if col < 0 || col >= game.Columns {
			return Frame{}, game.ErrInvalidColumn
		}
		return Frame{}, game.ErrColumnFull
	}
	row, err := t.game.NextOpenRow(col)
	if err != nil {
		return Frame{}, err
	}
	t.drop = newDrop(row, col, t.game.Turn(), t.cfg.CellSize, t.cfg.DropStep)
	return t.drop.Frame(), nil
}

// Tick advances the falling disk. On the step it lands the move is
// committed to the game and the Outcome is returned; otherwise the Outcome
// is nil.
func (t *Table) Tick() (*Outcome, error) {
	if t.drop == nil || !t.drop.Advance() {
		return nil, nil
	}
	d := t.drop
	t.drop = nil

	res, err := t.game.DropPiece(d.Row, d.Col, d.Piece)
	if err != nil {
		return nil, fmt.Errorf("commit drop at (%d,%d): %w", d.Row, d.Col, err)
	}
	out := &Outcome{Move: res}
	switch res.Status {
	case game.StatusWon:
		t.score.Record(res.Winner)
		out.Message = WinMessage(res.Winner)
	case game.StatusDraw:
		out.Message = DrawMessage
	}
	out.Score = t.score

	if t.game.GameOver() && t.onFinish != nil {
		t.onFinish(t.result())
	}
	return out, nil
}

func (t *Table) result() Result {
	return Result{
		TableID:   t.ID,
		GameID:    t.game.ID(),
		Status:    t.game.Status(),
		Winner:    t.game.Winner(),
		Moves:     t.game.Moves(),
		StartedAt: t.game.StartedAt(),
		EndedAt:   t.game.EndedAt(),
	}
}

func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		TableID: t.ID,
		GameID:  t.game.ID(),
		Board:   t.game.Board(),
		Turn:    t.game.Turn(),
		Status:  t.game.Status(),
		Winner:  t.game.Winner(),
		Moves:   t.game.Moves(),
		Score:   t.score,
	}
	if line, ok := t.game.WinningLine(); ok {
		s.Line = &line
	}
	if f, ok := t.ActiveDrop(); ok {
		s.Drop = &f
	}
	return s
}

func (t *Table) touch() {
	t.lastSeen = time.Now()
}

func (t *Table) LastSeen() time.Time { return t.lastSeen }
