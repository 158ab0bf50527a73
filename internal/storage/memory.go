package storage

import (
	"context"
	"sync"
)

// MemoryStore is the fallback when no database is configured. It keeps at
// most max results, oldest dropped first.
type MemoryStore struct {
	mu    sync.RWMutex
	games []CompletedGame
	seen  map[string]bool
	max   int
}

func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 1000
	}
	return &MemoryStore{seen: make(map[string]bool), max: max}
}

func (m *MemoryStore) SaveResult(_ context.Context, game CompletedGame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[game.ID] {
		return nil
	}
	m.seen[game.ID] = true
	m.games = append(m.games, game)
	if len(m.games) > m.max {
		delete(m.seen, m.games[0].ID)
		m.games = m.games[1:]
	}
	return nil
}

// RecentResults returns newest first.
func (m *MemoryStore) RecentResults(_ context.Context, limit int) ([]CompletedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.games) {
		limit = len(m.games)
	}
	res := make([]CompletedGame, 0, limit)
	for i := len(m.games) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, m.games[i])
	}
	return res, nil
}

func (m *MemoryStore) Tally(_ context.Context) (Tally, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var t Tally
	for _, g := range m.games {
		switch {
		case g.Status == "draw":
			t.Draws++
		case g.Status == "won" && g.Winner == 1:
			t.PlayerOneWins++
		case g.Status == "won" && g.Winner == 2:
			t.PlayerTwoWins++
		}
	}
	return t, nil
}
