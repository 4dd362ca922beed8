package batch

// Stop marks the executor as stopping, wakes the loop so it drains every
// remaining queued request into one final batch, and blocks until that
// drain completes.
func (e *Executor) Stop() {
	e.mu.Lock()
	e.stopping = true
	e.cond.Broadcast()
	e.mu.Unlock()
	<-e.doneCh
}
