package checkout

import "sync/atomic"

// SubmitGuard is the single lock around order submission. TryAcquire is
// a compare-and-swap, so a second submit racing the first loses
// immediately, before any async work starts. Both acquire and release
// are single atomic operations; there is no window where the guard is
// half-set.
type SubmitGuard struct {
	busy atomic.Bool
}

func (g *SubmitGuard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *SubmitGuard) Release() {
	g.busy.Store(false)
}

// InFlight reports whether a submission holds the guard. Drives the
// disabled state of the submit control.
func (g *SubmitGuard) InFlight() bool {
	return g.busy.Load()
}
