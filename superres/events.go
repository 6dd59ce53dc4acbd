package superres

import "image"

// Event is one message from a running upscale. A run emits any number of
// ProgressEvents followed by exactly one terminal CompletedEvent or
// FailedEvent, then closes the channel. The goroutine that owns UI state
// drains the channel and mutates its own state exclusively.
type Event interface {
	isEvent()
}

// ProgressEvent reports fractional progress, completedTiles/totalTiles.
type ProgressEvent struct {
	Fraction float64
}

// CompletedEvent carries the finished output image. SkippedTiles is the
// number of tiles dropped by recoverable per-tile failures; the image is
// complete but may contain gaps when it is non-zero.
type CompletedEvent struct {
	Image        *image.RGBA
	Scale        int
	TotalTiles   int
	SkippedTiles int
}

// FailedEvent carries the fatal error that ended the run. A cancelled run
// fails with ErrCancelled, which callers treat as "no output, no error
// message".
type FailedEvent struct {
	Err error
}

func (ProgressEvent) isEvent()  {}
func (CompletedEvent) isEvent() {}
func (FailedEvent) isEvent()    {}

// Start runs the pipeline on its own goroutine and returns the event
// channel. The caller must drain the channel until it closes; emission
// blocks on an unread channel so events arrive in order.
func (u *Upscaler) Start(img *image.RGBA, token *CancelToken) <-chan Event {
	ch := make(chan Event)
	go func() {
		defer close(ch)
		res, err := u.Upscale(img, token, func(fraction float64) {
			ch <- ProgressEvent{Fraction: fraction}
		})
		if err != nil {
			ch <- FailedEvent{Err: err}
			return
		}
		ch <- CompletedEvent{
			Image:        res.Image,
			Scale:        res.Scale,
			TotalTiles:   res.TotalTiles,
			SkippedTiles: res.SkippedTiles,
		}
	}()
	return ch
}
