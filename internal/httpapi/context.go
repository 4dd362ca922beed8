package httpapi

import "context"

// joinContexts returns a context canceled when either a or b is done. The
// returned cancel func must be called once the handler finishes, to stop
// the background goroutine it spawns.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}
