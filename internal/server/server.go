package server

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"strconv"
	"time"

	"emittr/connectfour/internal/analytics"
	"emittr/connectfour/internal/storage"
	"emittr/connectfour/internal/table"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed web
var webFS embed.FS

type Server struct {
	router       *gin.Engine
	registry     *table.Registry
	store        storage.Store
	analytics    Publisher
	dropInterval time.Duration
	sweepEvery   time.Duration
	ctx          context.Context
}

type Config struct {
	Table        table.Config
	DropInterval time.Duration
	IdleTimeout  time.Duration
	SweepEvery   time.Duration
	Store        storage.Store
	Analytics    Publisher
}

// Publisher receives game events. *analytics.Producer is the Kafka one and
// is safe to pass when nil.
type Publisher interface {
	Publish(ctx context.Context, key, event string, payload map[string]any)
}

type discard struct{}

func (discard) Publish(context.Context, string, string, map[string]any) {}

func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore(0)
	}
	if cfg.Analytics == nil {
		cfg.Analytics = discard{}
	}
	if cfg.DropInterval <= 0 {
		cfg.DropInterval = 10 * time.Millisecond
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = time.Minute
	}
	s := &Server{
		router:       router,
		store:        cfg.Store,
		analytics:    cfg.Analytics,
		dropInterval: cfg.DropInterval,
		sweepEvery:   cfg.SweepEvery,
		ctx:          context.Background(),
	}
	s.registry = table.NewRegistry(cfg.Table, cfg.IdleTimeout, s.onFinish)

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/history", s.handleHistory)
	router.GET("/ws", s.handleWS)

	index, err := webFS.ReadFile("web/index.html")
	if err != nil {
		log.Fatal().Err(err).Msg("embedded page missing")
	}
	router.GET("/", func(c *gin.Context) { c.Data(http.StatusOK, "text/html; charset=utf-8", index) })

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled. Live table loops stop with
// ctx as well.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.ctx = ctx
	go s.sweeper(ctx)

	srv := &http.Server{Addr: addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) sweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.registry.SweepIdle(now); n > 0 {
				log.Info().Int("tables", n).Msg("expired idle tables")
			}
		}
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	ctx := c.Request.Context()
	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	games, err := s.store.RecentResults(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("history query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	tally, err := s.store.Tally(ctx)
	if err != nil {
		log.Error().Err(err).Msg("tally query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	if games == nil {
		games = []storage.CompletedGame{}
	}
	c.JSON(http.StatusOK, gin.H{"games": games, "tally": tally})
}

// onFinish runs on the table's event loop; storage is written off-loop.
func (s *Server) onFinish(r table.Result) {
	rec := storage.CompletedGame{
		ID:        r.GameID,
		TableID:   r.TableID,
		Status:    string(r.Status),
		Winner:    int(r.Winner),
		Moves:     r.Moves,
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
	}
	go func() {
		if err := s.store.SaveResult(context.Background(), rec); err != nil {
			log.Warn().Err(err).Str("game", rec.ID).Msg("result not archived")
		}
	}()
	s.analytics.Publish(context.Background(), r.TableID, analytics.EventGameFinished, map[string]any{
		"tableId":   r.TableID,
		"gameId":    r.GameID,
		"status":    string(r.Status),
		"winner":    int(r.Winner),
		"moves":     r.Moves,
		"duration":  r.EndedAt.Sub(r.StartedAt).Seconds(),
		"startedAt": r.StartedAt,
		"endedAt":   r.EndedAt,
	})
	log.Info().
		Str("table", r.TableID).
		Str("game", r.GameID).
		Str("status", string(r.Status)).
		Int("winner", int(r.Winner)).
		Int("moves", r.Moves).
		Msg("game finished")
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
