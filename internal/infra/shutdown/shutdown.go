package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler runs registered stop hooks once a termination signal
// arrives. Hooks run last-registered first, mirroring the
// construction order of the resources they close.
type Handler struct {
	grace time.Duration

	mu    sync.Mutex
	hooks []func(context.Context) error

	done chan struct{}
}

// NewHandler creates a Handler. grace bounds the total time the hooks
// get to finish.
func NewHandler(grace time.Duration) *Handler {
	return &Handler{
		grace: grace,
		done:  make(chan struct{}),
	}
}

// OnShutdown registers a stop hook. Safe for concurrent use.
func (h *Handler) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	h.hooks = append(h.hooks, hook)
	h.mu.Unlock()
}

// Wait blocks until SIGINT or SIGTERM, then runs the hooks in reverse
// registration order under a single grace-period context. Every hook
// runs even when an earlier one fails; the errors are joined.
func (h *Handler) Wait() error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	signal.Stop(sig)

	ctx, cancel := context.WithTimeout(context.Background(), h.grace)
	defer cancel()

	h.mu.Lock()
	hooks := append([]func(context.Context) error(nil), h.hooks...)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	close(h.done)
	return errors.Join(errs...)
}

// Done returns a channel that closes once all hooks have run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
