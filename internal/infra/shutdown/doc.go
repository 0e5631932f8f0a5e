// Package shutdown coordinates orderly process termination for
// grcbridge.
//
// A Handler waits for SIGINT or SIGTERM and then runs registered stop
// hooks in reverse registration order under a bounded grace period:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	err := h.Wait()
package shutdown
