package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"emittr/connectfour/internal/analytics"
	"emittr/connectfour/internal/game"
	"emittr/connectfour/internal/table"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type command struct {
	Type   string `json:"type"`
	Column *int   `json:"column"`
}

// wsClient is one browser attached to one table. readPump feeds commands
// to loop, which is the only goroutine touching the table.
type wsClient struct {
	conn    *websocket.Conn
	send    chan []byte
	inbound chan command
	done    chan struct{}
	server  *Server
	table   *table.Table
	resumed bool
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	t, resumed := s.registry.Open(c.Query("table"))
	client := &wsClient{
		conn:    conn,
		send:    make(chan []byte, 64),
		inbound: make(chan command),
		done:    make(chan struct{}),
		server:  s,
		table:   t,
		resumed: resumed,
	}
	log.Info().Str("table", t.ID).Bool("resumed", resumed).Msg("table attached")
	if !resumed {
		client.publishStart()
	}

	go client.writePump()
	go client.readPump()
	go client.loop(s.ctx)
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *wsClient) readPump() {
	defer close(c.inbound)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}
		select {
		case c.inbound <- cmd:
		case <-c.done:
			return
		}
	}
}

// loop is the table's event loop. The drop ticker is only read while a
// piece is falling.
func (c *wsClient) loop(ctx context.Context) {
	defer func() {
		close(c.done)
		close(c.send)
		c.server.registry.Release(c.table.ID)
		log.Info().Str("table", c.table.ID).Msg("table released")
	}()

	ticker := time.NewTicker(c.server.dropInterval)
	defer ticker.Stop()

	c.pushInit()
	for {
		var tick <-chan time.Time
		if c.table.Animating() {
			tick = ticker.C
		}
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.inbound:
			if !ok {
				return
			}
			c.handle(cmd)
		case <-tick:
			c.advance()
		}
	}
}

func (c *wsClient) handle(cmd command) {
	t := c.table
	switch cmd.Type {
	case "click":
		if cmd.Column == nil {
			c.sendError("column required")
			return
		}
		frame, err := t.HandleColumnClick(*cmd.Column)
		if err != nil {
			// Invalid clicks change nothing; the page just ignores them.
			log.Debug().Err(err).Str("table", t.ID).Int("column", *cmd.Column).Msg("click rejected")
			c.sendError(err.Error())
			return
		}
		c.pushFrame(frame)
	case "new_game":
		t.NewGame()
		c.publishStart()
		c.pushState()
	case "restart":
		t.Restart()
		c.publishStart()
		c.pushState()
	case "points":
		c.pushPoints()
	default:
		c.sendError("unknown command " + cmd.Type)
	}
}

func (c *wsClient) advance() {
	t := c.table
	out, err := t.Tick()
	if err != nil {
		log.Error().Err(err).Str("table", t.ID).Msg("drop commit failed")
		c.pushState()
		return
	}
	if out == nil {
		if f, ok := t.ActiveDrop(); ok {
			c.pushFrame(f)
		}
		return
	}
	c.server.analytics.Publish(context.Background(), t.ID, analytics.EventMovePlayed, map[string]any{
		"tableId": t.ID,
		"gameId":  t.Game().ID(),
		"row":     out.Move.Row,
		"column":  out.Move.Col,
		"piece":   int(out.Move.Piece),
		"status":  string(out.Move.Status),
	})
	c.pushState()
	if out.Message != "" {
		c.sendJSON(map[string]any{
			"type":    "result",
			"message": out.Message,
			"status":  out.Move.Status,
			"winner":  out.Move.Winner,
			"score":   out.Score,
		})
	}
	if out.Move.Status == game.StatusWon {
		c.pushPoints()
	}
}

func (c *wsClient) publishStart() {
	c.server.analytics.Publish(context.Background(), c.table.ID, analytics.EventGameStarted, map[string]any{
		"tableId": c.table.ID,
		"gameId":  c.table.Game().ID(),
	})
}

func (c *wsClient) pushInit() {
	cfg := c.table.Config()
	c.sendJSON(map[string]any{
		"type":         "init",
		"tableId":      c.table.ID,
		"resumed":      c.resumed,
		"rows":         game.Rows,
		"columns":      game.Columns,
		"cellSize":     cfg.CellSize,
		"dropInterval": c.server.dropInterval.Milliseconds(),
		"state":        c.table.Snapshot(),
		"timestamp":    time.Now().UTC(),
	})
}

func (c *wsClient) pushState() {
	c.sendJSON(map[string]any{"type": "state", "state": c.table.Snapshot()})
}

func (c *wsClient) pushFrame(f table.Frame) {
	c.sendJSON(map[string]any{
		"type":   "frame",
		"row":    f.Row,
		"column": f.Col,
		"piece":  f.Piece,
		"y":      f.Y,
	})
}

func (c *wsClient) pushPoints() {
	score := c.table.Points()
	c.sendJSON(map[string]any{"type": "points", "score": score, "message": score.String()})
}

func (c *wsClient) sendError(msg string) {
	c.sendJSON(map[string]any{"type": "error", "message": msg})
}

func (c *wsClient) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encode websocket message")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("table", c.table.ID).Msg("send buffer full, message dropped")
	}
}
