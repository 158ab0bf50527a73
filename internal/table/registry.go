package table

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type entry struct {
	table    *Table
	attached bool
}

// Registry keeps tables alive between connections so a reload can pick
// up the same game and score. A table is attached to at most one event
// loop at a time.
type Registry struct {
	mu        sync.RWMutex
	tables    map[string]*entry
	cfg       Config
	idleAfter time.Duration
	onFinish  func(Result)
}

func NewRegistry(cfg Config, idleAfter time.Duration, onFinish func(Result)) *Registry {
	return &Registry{
		tables:    make(map[string]*entry),
		cfg:       cfg,
		idleAfter: idleAfter,
		onFinish:  onFinish,
	}
}

// Open attaches the detached table with the given id, or creates a fresh
// one when id is empty, unknown or already attached. resumed reports
// whether an existing table was reattached.
func (r *Registry) Open(id string) (t *Table, resumed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if e, ok := r.tables[id]; ok && !e.attached {
			e.attached = true
			e.table.touch()
			return e.table, true
		}
	}
	t = New(uuid.NewString(), r.cfg, r.onFinish)
	r.tables[t.ID] = &entry{table: t, attached: true}
	return t, false
}

// Release detaches the table so the sweeper can expire it.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.tables[id]; ok {
		e.attached = false
		e.table.touch()
	}
}

func (r *Registry) Get(id string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tables[id]
	if !ok {
		return nil, false
	}
	return e.table, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// SweepIdle removes detached tables last used more than idleAfter before
// now and returns how many were removed.
func (r *Registry) SweepIdle(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.tables {
		if e.attached || now.Sub(e.table.LastSeen()) <= r.idleAfter {
			continue
		}
		delete(r.tables, id)
		removed++
		log.Debug().Str("table", id).Msg("idle table expired")
	}
	return removed
}
