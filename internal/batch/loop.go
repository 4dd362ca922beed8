package batch

import "time"

// loop is the executor's single background goroutine. sync.Cond has no
// native timed wait, so a flush deadline is enforced by arming a timer that
// broadcasts the condition variable when it fires, then checking the
// predicate again.
func (e *Executor) loop() {
	defer close(e.doneCh)
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.stopping {
			e.cond.Wait()
		}
		if len(e.queue) == 0 && e.stopping {
			e.mu.Unlock()
			return
		}

		for !e.shouldFlushLocked() {
			wait := e.cfg.MaxWait - time.Since(e.queue[0].enqueuedAt)
			if wait < 0 {
				wait = 0
			}
			timer := time.AfterFunc(wait, func() {
				e.mu.Lock()
				e.cond.Broadcast()
				e.mu.Unlock()
			})
			e.cond.Wait()
			timer.Stop()
			if e.stopping {
				break
			}
		}

		// On shutdown everything still queued goes out as one final batch.
		n := len(e.queue)
		if n > e.cfg.MaxBatchSize && !e.stopping {
			n = e.cfg.MaxBatchSize
		}
		batch := e.queue[:n]
		e.queue = e.queue[n:]
		e.mu.Unlock()

		e.processBatch(batch)
	}
}

// shouldFlushLocked reports whether the current queue is ready to be
// drained into a batch. Caller must hold e.mu.
func (e *Executor) shouldFlushLocked() bool {
	if e.stopping {
		return true
	}
	if len(e.queue) == 0 {
		return false
	}
	if len(e.queue) >= e.cfg.MinBatchSize {
		return true
	}
	oldest := e.queue[0].enqueuedAt
	return time.Since(oldest) >= e.cfg.MaxWait
}
