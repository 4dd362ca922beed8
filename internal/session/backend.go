package session

import (
	"context"

	"onnxd/internal/tensor"
)

// IOInfo describes one input or output the backend discovered when it
// loaded a model. A Shape entry of -1 marks a dynamic axis.
type IOInfo struct {
	Name  string
	DType tensor.DType
	Shape []int64
}

// Handle is a loaded, runnable model session. Implementations must be safe
// for concurrent Run calls; ONNX Runtime sessions are documented as
// thread-safe for Run once created.
type Handle interface {
	Inputs() []IOInfo
	Outputs() []IOInfo
	Run(ctx context.Context, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error)
	Close() error
}

// Backend constructs Handles from files on disk. There are two
// implementations selected at build time by the onnxruntime build tag: the
// real ONNX Runtime backend, and a stub that echoes inputs back as outputs
// (zero-filling declared outputs it cannot match to an input) so the rest of the server can be developed and tested without the native
// ONNX Runtime shared library installed.
type Backend interface {
	Load(ctx context.Context, path string, opts Options) (Handle, error)
}

// NewDefaultBackend returns the backend selected for this build: the real
// ONNX Runtime backend when built with `-tags onnxruntime`, otherwise the
// stub backend.
func NewDefaultBackend() Backend {
	return newDefaultBackend()
}
