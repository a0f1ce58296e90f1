package resilience

import "sync/atomic"

// Gate admits one holder at a time. Callers that find it held are turned
// away instead of queued.
type Gate struct {
	held    atomic.Bool
	dropped atomic.Int64
}

// TryEnter reports whether the caller now holds the gate.
func (g *Gate) TryEnter() bool {
	if g.held.CompareAndSwap(false, true) {
		return true
	}
	g.dropped.Add(1)
	return false
}

func (g *Gate) Leave() {
	g.held.Store(false)
}

func (g *Gate) Held() bool {
	return g.held.Load()
}

// Dropped counts rejected TryEnter calls.
func (g *Gate) Dropped() int64 {
	return g.dropped.Load()
}
