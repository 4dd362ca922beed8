package batch

import (
	"context"
	"sync"
	"time"

	"onnxd/internal/metrics"
	"onnxd/internal/obslog"
	"onnxd/internal/tensor"
	"onnxd/pkg/types"
)

// RunFunc executes one model's inference call. The registry's RunInference
// method satisfies this signature.
type RunFunc func(ctx context.Context, model string, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error)

// Config mirrors the original server's BatchingConfig.
type Config struct {
	MaxBatchSize int
	MinBatchSize int
	MaxWait      time.Duration
}

type pending struct {
	ctx        context.Context
	model      string
	inputs     map[string]tensor.Tensor
	enqueuedAt time.Time
	resultCh   chan result
}

type result struct {
	outputs map[string]tensor.Tensor
	timing  types.InferTiming
	err     error
}

// Executor collects inference requests into batches, flushing either when
// enough requests have queued up (MinBatchSize) or when the oldest queued
// request has waited MaxWait, matching the original executor's
// should_flush_batch predicate. Requests for different models that land in
// the same batch window are dispatched as separate per-model groups.
type Executor struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*pending
	stopping bool

	cfg     Config
	run     RunFunc
	log     obslog.Logger
	metrics *metrics.Sink

	doneCh chan struct{}
}

// New constructs an Executor. Call Start to begin processing.
func New(cfg Config, run RunFunc, log obslog.Logger, sink *metrics.Sink) *Executor {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 16
	}
	if cfg.MinBatchSize <= 0 {
		cfg.MinBatchSize = 1
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 50 * time.Millisecond
	}
	e := &Executor{
		cfg:     cfg,
		run:     run,
		log:     log.WithComponent("batch"),
		metrics: sink,
		doneCh:  make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Start launches the executor loop goroutine.
func (e *Executor) Start() {
	go e.loop()
}

// QueueSize returns the number of requests currently queued.
func (e *Executor) QueueSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Submit enqueues one inference request and blocks until it has been
// executed, the context is canceled, or the executor is stopping and
// rejects new work.
func (e *Executor) Submit(ctx context.Context, model string, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, types.InferTiming, error) {
	p := &pending{
		ctx:        ctx,
		model:      model,
		inputs:     inputs,
		enqueuedAt: time.Now(),
		resultCh:   make(chan result, 1),
	}

	e.mu.Lock()
	if e.stopping {
		e.mu.Unlock()
		return nil, types.InferTiming{}, ErrStopped()
	}
	e.queue = append(e.queue, p)
	e.cond.Signal()
	e.mu.Unlock()

	select {
	case r := <-p.resultCh:
		return r.outputs, r.timing, r.err
	case <-ctx.Done():
		return nil, types.InferTiming{}, ctx.Err()
	}
}
