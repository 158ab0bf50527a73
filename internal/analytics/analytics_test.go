package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// roundTrip pushes an event through JSON the way the consumer sees it.
func roundTrip(t *testing.T, e Event) Event {
	t.Helper()
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var out Event
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestMetricsRecord(t *testing.T) {
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMetrics()
	events := []Event{
		{Event: EventGameFinished, Timestamp: day, Payload: map[string]any{"status": "won", "winner": 1, "duration": 30.0, "moves": 7}},
		{Event: EventGameFinished, Timestamp: day, Payload: map[string]any{"status": "won", "winner": 2, "duration": 50.0, "moves": 12}},
		{Event: EventGameFinished, Timestamp: day.AddDate(0, 0, 1), Payload: map[string]any{"status": "draw", "winner": 0, "duration": 100.0, "moves": 42}},
		{Event: EventMovePlayed, Timestamp: day, Payload: map[string]any{"column": 3}},
	}
	for _, e := range events {
		m.Record(roundTrip(t, e))
	}

	s := m.Summary()
	if s.TotalGames != 3 || s.PlayerOneWins != 1 || s.PlayerTwoWins != 1 || s.Draws != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.AverageDuration != 60 {
		t.Errorf("AverageDuration = %v, want 60", s.AverageDuration)
	}
	if s.AverageMoves != 61.0/3 {
		t.Errorf("AverageMoves = %v", s.AverageMoves)
	}
	if s.GamesPerDay["2026-03-01"] != 2 || s.GamesPerDay["2026-03-02"] != 1 {
		t.Errorf("GamesPerDay = %v", s.GamesPerDay)
	}
}

func TestEmptySummary(t *testing.T) {
	s := NewMetrics().Summary()
	if s.TotalGames != 0 || s.AverageDuration != 0 || s.AverageMoves != 0 {
		t.Errorf("summary = %+v", s)
	}
}

func TestNilProducerIsNoop(t *testing.T) {
	if p := NewProducer(nil, "game-events"); p != nil {
		t.Fatal("producer built without brokers")
	}
	var p *Producer
	p.Publish(context.Background(), "t", EventMovePlayed, map[string]any{"column": 1})
	p.Close()
}
