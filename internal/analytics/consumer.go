package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Metrics aggregates game_finished events.
type Metrics struct {
	mu            sync.Mutex
	totalGames    int
	playerOneWins int
	playerTwoWins int
	draws         int
	durations     []float64
	moves         []int
	gamesPerDay   map[string]int
}

type Summary struct {
	TotalGames      int
	PlayerOneWins   int
	PlayerTwoWins   int
	Draws           int
	AverageDuration float64
	AverageMoves    float64
	GamesPerDay     map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{gamesPerDay: make(map[string]int)}
}

// Record folds one event in. Events other than game_finished are ignored.
func (m *Metrics) Record(e Event) {
	if e.Event != EventGameFinished {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalGames++
	status, _ := e.Payload["status"].(string)
	// JSON numbers decode as float64.
	winner, _ := e.Payload["winner"].(float64)
	switch {
	case status == "draw":
		m.draws++
	case winner == 1:
		m.playerOneWins++
	case winner == 2:
		m.playerTwoWins++
	}
	if d, ok := e.Payload["duration"].(float64); ok {
		m.durations = append(m.durations, d)
	}
	if n, ok := e.Payload["moves"].(float64); ok {
		m.moves = append(m.moves, int(n))
	}
	m.gamesPerDay[e.Timestamp.Format("2006-01-02")]++
}

func (m *Metrics) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		TotalGames:    m.totalGames,
		PlayerOneWins: m.playerOneWins,
		PlayerTwoWins: m.playerTwoWins,
		Draws:         m.draws,
		GamesPerDay:   make(map[string]int, len(m.gamesPerDay)),
	}
	if len(m.durations) > 0 {
		sum := 0.0
		for _, d := range m.durations {
			sum += d
		}
		s.AverageDuration = sum / float64(len(m.durations))
	}
	if len(m.moves) > 0 {
		sum := 0
		for _, n := range m.moves {
			sum += n
		}
		s.AverageMoves = float64(sum) / float64(len(m.moves))
	}
	for k, v := range m.gamesPerDay {
		s.GamesPerDay[k] = v
	}
	return s
}

func (m *Metrics) LogSummary() {
	s := m.Summary()
	log.Info().
		Int("total_games", s.TotalGames).
		Int("player_one_wins", s.PlayerOneWins).
		Int("player_two_wins", s.PlayerTwoWins).
		Int("draws", s.Draws).
		Float64("avg_duration_s", s.AverageDuration).
		Float64("avg_moves", s.AverageMoves).
		Interface("games_per_day", s.GamesPerDay).
		Msg("analytics summary")
}

type Consumer struct {
	reader  *kafka.Reader
	metrics *Metrics
	every   time.Duration
}

func NewConsumer(brokers []string, topic, group string, every time.Duration) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	if every <= 0 {
		every = 30 * time.Second
	}
	return &Consumer{reader: reader, metrics: NewMetrics(), every: every}
}

func (c *Consumer) Metrics() *Metrics { return c.metrics }

// Run reads until ctx is cancelled, logging a summary every interval.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	go func() {
		ticker := time.NewTicker(c.every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.metrics.LogSummary()
			}
		}
	}()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.metrics.LogSummary()
				return nil
			}
			return err
		}
		var e Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			log.Warn().Err(err).Msg("failed to unmarshal event")
			continue
		}
		c.metrics.Record(e)
		log.Debug().
			Str("event", e.Event).
			Interface("game", e.Payload["gameId"]).
			Interface("winner", e.Payload["winner"]).
			Msg("event received")
	}
}
