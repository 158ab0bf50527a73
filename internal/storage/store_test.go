package storage

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// saveConcurrently archives n games from n goroutines while readers hit
// RecentResults and Tally, then checks every save landed.
func saveConcurrently(t *testing.T, s Store, n int) {
	t.Helper()
	ctx := context.Background()
	before, err := s.Tally(ctx)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 3*n)
	now := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- s.SaveResult(ctx, CompletedGame{
				ID:        uuid.NewString(),
				TableID:   fmt.Sprintf("table-%d", i),
				Status:    "won",
				Winner:    1,
				Moves:     7,
				StartedAt: now,
				EndedAt:   now.Add(time.Duration(i) * time.Millisecond),
			})
		}(i)
		go func() {
			defer wg.Done()
			if _, err := s.RecentResults(ctx, 5); err != nil {
				errs <- err
			}
			if _, err := s.Tally(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent call: %v", err)
		}
	}

	after, err := s.Tally(ctx)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if got := after.PlayerOneWins - before.PlayerOneWins; got != n {
		t.Errorf("archived %d wins, want %d", got, n)
	}
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	saveConcurrently(t, NewMemoryStore(100), 32)
}

func TestPostgresStoreConcurrentSaves(t *testing.T) {
	url := os.Getenv("CONNECT4_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("CONNECT4_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	pg, err := NewPostgresStore(ctx, url)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer pg.Close()
	if err := pg.EnsureTables(ctx); err != nil {
		t.Fatalf("EnsureTables: %v", err)
	}
	saveConcurrently(t, pg, 32)
}
