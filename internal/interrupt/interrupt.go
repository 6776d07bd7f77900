// Package interrupt provides the process-wide shutdown signal shared by the
// state and UI loops.
//
// A Broadcaster is signaled at most once. Every Reader, including one created
// after the signal, observes the same Reason.
package interrupt

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Reason says why the process is shutting down.
type Reason int

const (
	// UserRequested covers the Exit action and the terminal input ending.
	UserRequested Reason = iota + 1
	// Signaled means the process received SIGINT or SIGTERM.
	Signaled
	// Failed means one of the loops stopped with an error.
	Failed
)

func (r Reason) String() string {
	switch r {
	case UserRequested:
		return "user requested"
	case Signaled:
		return "signaled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ErrAlreadySignaled is returned by Signal after the first call.
var ErrAlreadySignaled = errors.New("interrupt: already signaled")

// Broadcaster holds the termination reason. The zero value is not usable; use New.
type Broadcaster struct {
	mu     sync.Mutex
	reason Reason
	done   chan struct{}
}

func New() *Broadcaster {
	return &Broadcaster{done: make(chan struct{})}
}

// Signal records r and wakes every reader. Only the first call wins; later
// calls leave the stored reason untouched and report ErrAlreadySignaled.
func (b *Broadcaster) Signal(r Reason) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reason != 0 {
		return fmt.Errorf("%w (%s)", ErrAlreadySignaled, b.reason)
	}
	b.reason = r
	close(b.done)
	return nil
}

// Subscribe returns an independent reader.
func (b *Broadcaster) Subscribe() *Reader {
	return &Reader{b: b}
}

// Reader observes a Broadcaster.
type Reader struct {
	b *Broadcaster
}

// Done is closed once the broadcaster has been signaled.
func (r *Reader) Done() <-chan struct{} {
	return r.b.done
}

// Reason reports the stored reason, if any.
func (r *Reader) Reason() (Reason, bool) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	return r.b.reason, r.b.reason != 0
}

// Wait blocks until a reason is available or ctx ends.
func (r *Reader) Wait(ctx context.Context) (Reason, error) {
	select {
	case <-r.b.done:
		reason, _ := r.Reason()
		return reason, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
