package superres

import "sync/atomic"

// CancelToken is a shared one-way cancellation flag. Cancel is idempotent
// and never resets; the token may be polled and cancelled from any
// goroutine. This is cooperative cancellation: the pipeline checks the
// token before the run and before each tile, never mid-inference.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a token in the not-cancelled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel moves the token to the cancelled state.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called. A nil token never
// cancels.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.cancelled.Load()
}
