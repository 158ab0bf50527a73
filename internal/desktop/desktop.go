package desktop

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"emittr/connectfour/internal/config"
	"emittr/connectfour/internal/game"
	"emittr/connectfour/internal/table"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"
)

const helpLine = "N: new game  R: restart  P: points  Esc: exit"

// Game implements ebiten.Game around one table. The ebiten update loop is
// the only caller, so nothing here is locked.
type Game struct {
	table    *table.Table
	colors   palette
	cell     int
	interval time.Duration
	acc      time.Duration
	modal    string
}

func New(theme config.Theme) (*Game, error) {
	colors, err := newPalette(theme)
	if err != nil {
		return nil, err
	}
	cfg := table.Config{CellSize: theme.CellSize, DropStep: theme.DropStep}
	g := &Game{
		colors:   colors,
		interval: theme.DropInterval,
	}
	g.table = table.New("desktop", cfg, func(r table.Result) {
		log.Info().
			Str("game", r.GameID).
			Str("status", string(r.Status)).
			Int("winner", int(r.Winner)).
			Int("moves", r.Moves).
			Msg("game finished")
	})
	g.cell = g.table.Config().CellSize
	if g.interval <= 0 {
		g.interval = 10 * time.Millisecond
	}
	return g, nil
}

// Run opens the window and blocks until it is closed.
func Run(theme config.Theme) error {
	g, err := New(theme)
	if err != nil {
		return err
	}
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Connect Four")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.NewGame()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.Restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.ShowPoints()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.modal = ""
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, _ := ebiten.CursorPosition()
		g.Click(x)
	}
	g.Advance(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) NewGame() {
	g.table.NewGame()
	g.modal = ""
	g.acc = 0
}

func (g *Game) Restart() {
	g.table.Restart()
	g.modal = ""
	g.acc = 0
}

func (g *Game) ShowPoints() {
	g.modal = "Points\n\n" + g.table.Points().String()
}

// Modal is the message currently shown over the board, if any.
func (g *Game) Modal() string { return g.modal }

// Click handles a left click at horizontal position x. While a message is
// open the click only dismisses it.
func (g *Game) Click(x int) {
	if g.modal != "" {
		g.modal = ""
		return
	}
	if x < 0 {
		return
	}
	col := x / g.cell
	if _, err := g.table.HandleColumnClick(col); err != nil {
		log.Debug().Err(err).Int("column", col).Msg("click ignored")
		return
	}
	g.acc = 0
}

// Advance feeds dt of wall time to the drop animation, one table tick per
// interval.
func (g *Game) Advance(dt time.Duration) {
	if !g.table.Animating() {
		return
	}
	g.acc += dt
	for g.acc >= g.interval && g.table.Animating() {
		g.acc -= g.interval
		out, err := g.table.Tick()
		if err != nil {
			log.Error().Err(err).Msg("drop commit failed")
			return
		}
		if out != nil && out.Message != "" {
			g.modal = out.Message
			if out.Move.Status == game.StatusWon {
				g.modal += "\n\n" + out.Score.String()
			}
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return game.Columns * g.cell, (game.Rows + 1) * g.cell
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := g.Layout(0, 0)
	cell := float32(g.cell)
	radius := cell * 0.45

	screen.Fill(color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff})
	vector.DrawFilledRect(screen, 0, cell, float32(w), float32(game.Rows)*cell, g.colors.board, false)

	gs := g.table.Game()
	for r := 0; r < game.Rows; r++ {
		for c := 0; c < game.Columns; c++ {
			cx, cy := g.center(r, c)
			vector.DrawFilledCircle(screen, cx, cy, radius, g.colors.piece(gs.Cell(r, c)), true)
		}
	}
	if line, ok := gs.WinningLine(); ok {
		for _, pos := range line {
			cx, cy := g.center(pos.Row, pos.Col)
			vector.StrokeCircle(screen, cx, cy, radius, 4, color.White, true)
		}
	}
	if f, ok := g.table.ActiveDrop(); ok {
		cx := float32(f.Col)*cell + cell/2
		cy := float32(f.Y) + cell/2
		vector.DrawFilledCircle(screen, cx, cy, radius, g.colors.piece(f.Piece), true)
	}

	ebitenutil.DebugPrintAt(screen, g.statusLine(), 8, 8)
	ebitenutil.DebugPrintAt(screen, helpLine, 8, 24)

	if g.modal != "" {
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.RGBA{A: 0xa0}, false)
		boxW, boxH := float32(w)*0.6, float32(120)
		bx, by := (float32(w)-boxW)/2, (float32(h)-boxH)/2
		vector.DrawFilledRect(screen, bx, by, boxW, boxH, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}, false)
		ebitenutil.DebugPrintAt(screen, g.modal+"\n\n(click or Enter)", int(bx)+16, int(by)+16)
	}
}

func (g *Game) center(row, col int) (float32, float32) {
	cell := float32(g.cell)
	return float32(col)*cell + cell/2, float32(game.Rows-row)*cell + cell/2
}

func (g *Game) statusLine() string {
	gs := g.table.Game()
	switch gs.Status() {
	case game.StatusWon:
		return table.WinMessage(gs.Winner())
	case game.StatusDraw:
		return table.DrawMessage
	}
	return fmt.Sprintf("Player %d to move", int(gs.Turn()))
}
