package batch

import (
	"fmt"
	"time"

	"onnxd/internal/tensor"
	"onnxd/pkg/types"
)

// processBatch groups a drained batch by model name and runs each group's
// requests sequentially against that model, matching the original
// executor's by-model grouping. Requests are not merged into a single
// vectorized call; each still gets its own RunFunc invocation and its own
// resolved timing, but grouping keeps same-model work together and lets a
// future adaptive strategy reorder across groups without touching callers.
func (e *Executor) processBatch(batch []*pending) {
	start := time.Now()
	byModel := make(map[string][]*pending)
	order := make([]string, 0, 4)
	for _, p := range batch {
		if _, ok := byModel[p.model]; !ok {
			order = append(order, p.model)
		}
		byModel[p.model] = append(byModel[p.model], p)
	}

	for _, model := range order {
		for _, p := range byModel[model] {
			e.dispatchOne(p)
		}
	}

	if e.metrics != nil {
		e.metrics.RecordBatch(len(batch), time.Since(start))
	}
}

// dispatchOne runs a single pending request and always delivers exactly one
// result, even if the backend panics. A panic here must not take down the
// executor's run loop and strand every other in-flight Submit.
func (e *Executor) dispatchOne(p *pending) {
	queueMS := float64(time.Since(p.enqueuedAt).Milliseconds())
	runStart := time.Now()
	var outputs map[string]tensor.Tensor
	var err error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("inference panicked: %v", rec)
			}
		}()
		outputs, err = e.run(p.ctx, p.model, p.inputs)
	}()
	inferenceMS := float64(time.Since(runStart).Milliseconds())
	p.resultCh <- result{
		outputs: outputs,
		timing:  types.InferTiming{QueueMS: queueMS, InferenceMS: inferenceMS},
		err:     err,
	}
}
