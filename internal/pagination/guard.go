package pagination

import (
	"context"
	"sync"
)

// Guard discards stale list responses. Each Begin for a key supersedes the previous
// one: the older request's context is canceled and its ticket stops being current.
type Guard struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflight
}

type inflight struct {
	id     uint64
	cancel context.CancelFunc
}

// Ticket identifies one guarded request.
type Ticket struct {
	key string
	id  uint64
}

// ID returns the monotonic request id.
func (t Ticket) ID() uint64 { return t.id }

// NewGuard constructs an empty Guard.
func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]inflight)}
}

// Begin registers a request for key and returns a context that is canceled when a
// newer request for the same key begins. Callers must call Finish.
func (g *Guard) Begin(ctx context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	if prev, ok := g.inflight[key]; ok {
		prev.cancel()
	}
	g.inflight[key] = inflight{id: g.seq, cancel: cancel}
	return ctx, Ticket{key: key, id: g.seq}
}

// Current reports whether t is still the latest request for its key.
func (g *Guard) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur, ok := g.inflight[t.key]
	return ok && cur.id == t.id
}

// Finish releases t and reports whether its response may be applied.
func (g *Guard) Finish(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur, ok := g.inflight[t.key]
	if !ok || cur.id != t.id {
		return false
	}
	cur.cancel()
	delete(g.inflight, t.key)
	return true
}

// Len returns the number of keys with a request in flight.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
