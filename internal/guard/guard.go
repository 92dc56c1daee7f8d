// Package guard keeps at most one write in flight per record.
package guard

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Acquire when another write holds the key.
var ErrBusy = errors.New("a write for this record is already in progress")

// Guard hands out per-key write slots. Acquire never blocks waiting for a slot;
// a caller that cannot get one is expected to report the conflict.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Key builds the guard key of one record.
func Key(kind, id string) string {
	return kind + ":" + id
}

// MemoryGuard is an in-process Guard for a single API instance.
type MemoryGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{inFlight: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return nil, ErrBusy
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}
