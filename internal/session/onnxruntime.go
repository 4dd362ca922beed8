//go:build onnxruntime

package session

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"onnxd/internal/tensor"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureEnvironment() error {
	initOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		initErr = ort.InitializeEnvironment()
	})
	return initErr
}

// newDefaultBackend is the real ONNX Runtime build, compiled in with
// `-tags onnxruntime` once the native shared library is available on the
// host. It mirrors the provider fallback and session construction done by
// the original session manager: try each configured execution provider in
// order and fall back to the next on failure, ending at CPU.
func newDefaultBackend() Backend { return &ortBackend{} }

type ortBackend struct{}

func (b *ortBackend) Load(ctx context.Context, path string, opts Options) (Handle, error) {
	if err := ensureEnvironment(); err != nil {
		return nil, ErrLoad(path, fmt.Errorf("initialize onnxruntime environment: %w", err))
	}

	inputInfo, outputInfo, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, ErrLoad(path, fmt.Errorf("inspect model io: %w", err))
	}

	sessionOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, ErrLoad(path, fmt.Errorf("new session options: %w", err))
	}
	defer sessionOpts.Destroy()

	if opts.IntraOpThreads > 0 {
		if err := sessionOpts.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			return nil, ErrLoad(path, fmt.Errorf("set intra-op threads: %w", err))
		}
	}
	if opts.InterOpThreads > 0 {
		if err := sessionOpts.SetInterOpNumThreads(opts.InterOpThreads); err != nil {
			return nil, ErrLoad(path, fmt.Errorf("set inter-op threads: %w", err))
		}
	}
	if err := sessionOpts.SetGraphOptimizationLevel(graphOptLevel(opts.GraphOptimization)); err != nil {
		return nil, ErrLoad(path, fmt.Errorf("set graph optimization level: %w", err))
	}

	providers := opts.Providers
	if len(providers) == 0 {
		providers = []string{"cpu"}
	}
	for _, p := range providers {
		if p == "cpu" {
			continue // CPU execution is the session's implicit fallback.
		}
		if err := appendProvider(sessionOpts, p, opts); err != nil {
			// Fall through to the next configured provider, same as the
			// original per-provider try/catch loop; CPU always remains
			// available as the final fallback.
			continue
		}
	}

	inputNames := make([]string, len(inputInfo))
	for i, in := range inputInfo {
		inputNames[i] = in.Name
	}
	outputNames := make([]string, len(outputInfo))
	for i, out := range outputInfo {
		outputNames[i] = out.Name
	}

	raw, err := ort.NewDynamicAdvancedSession(path, inputNames, outputNames, sessionOpts)
	if err != nil {
		return nil, ErrLoad(path, fmt.Errorf("create session: %w", err))
	}

	return &ortHandle{
		session: raw,
		inputs:  toIOInfoList(inputInfo),
		outputs: toIOInfoList(outputInfo),
	}, nil
}

func appendProvider(opts *ort.SessionOptions, name string, cfg Options) error {
	switch name {
	case "cuda":
		cudaOpts, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return err
		}
		defer cudaOpts.Destroy()
		if err := cudaOpts.SetDeviceID(cfg.GPUDeviceID); err != nil {
			return err
		}
		return opts.AppendExecutionProviderCUDA(cudaOpts)
	case "tensorrt":
		trtOpts, err := ort.NewTensorRTProviderOptions()
		if err != nil {
			return err
		}
		defer trtOpts.Destroy()
		_ = trtOpts.SetDeviceID(cfg.GPUDeviceID)
		return opts.AppendExecutionProviderTensorRT(trtOpts)
	default:
		return fmt.Errorf("unknown execution provider %q", name)
	}
}

func graphOptLevel(s string) ort.GraphOptimizationLevel {
	switch s {
	case "off", "disable_all":
		return ort.GraphOptimizationLevelDisableAll
	case "basic":
		return ort.GraphOptimizationLevelEnableBasic
	case "extended":
		return ort.GraphOptimizationLevelEnableExtended
	default:
		return ort.GraphOptimizationLevelEnableAll
	}
}

func toIOInfoList(infos []ort.InputOutputInfo) []IOInfo {
	out := make([]IOInfo, len(infos))
	for i, in := range infos {
		out[i] = IOInfo{
			Name:  in.Name,
			DType: fromORTElementType(in.DataType),
			Shape: append([]int64(nil), in.Dimensions...),
		}
	}
	return out
}

func fromORTElementType(dt ort.TensorElementDataType) tensor.DType {
	switch dt {
	case ort.TensorElementDataTypeFloat:
		return tensor.Float32
	case ort.TensorElementDataTypeDouble:
		return tensor.Float64
	case ort.TensorElementDataTypeInt64:
		return tensor.Int64
	case ort.TensorElementDataTypeInt32:
		return tensor.Int32
	case ort.TensorElementDataTypeInt16:
		return tensor.Int16
	case ort.TensorElementDataTypeInt8:
		return tensor.Int8
	case ort.TensorElementDataTypeUint16:
		return tensor.Uint16
	case ort.TensorElementDataTypeUint8:
		return tensor.Uint8
	case ort.TensorElementDataTypeBool:
		return tensor.Bool
	case ort.TensorElementDataTypeString:
		return tensor.String
	default:
		return tensor.Float32
	}
}

type ortHandle struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	inputs  []IOInfo
	outputs []IOInfo
}

func (h *ortHandle) Inputs() []IOInfo  { return h.inputs }
func (h *ortHandle) Outputs() []IOInfo { return h.outputs }

func (h *ortHandle) Run(ctx context.Context, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error) {
	inputValues := make([]ort.Value, len(h.inputs))
	for i, decl := range h.inputs {
		t, ok := inputs[decl.Name]
		if !ok {
			return nil, ErrIOMismatch("missing required input %q", decl.Name)
		}
		if err := tensor.ShapeCompatible(decl.Shape, t.Shape); err != nil {
			return nil, ErrIOMismatch("input %q: %v", decl.Name, err)
		}
		v, err := toORTValue(t)
		if err != nil {
			return nil, ErrIOMismatch("input %q: %v", decl.Name, err)
		}
		inputValues[i] = v
	}
	defer func() {
		for _, v := range inputValues {
			if v != nil {
				v.Destroy()
			}
		}
	}()

	outputValues := make([]ort.Value, len(h.outputs))

	// outputValues is allocated per call; the mutex serializes calls into
	// the underlying session on this handle.
	h.mu.Lock()
	err := h.session.Run(inputValues, outputValues)
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("session: run: %w", err)
	}
	defer func() {
		for _, v := range outputValues {
			if v != nil {
				v.Destroy()
			}
		}
	}()

	result := make(map[string]tensor.Tensor, len(h.outputs))
	for i, decl := range h.outputs {
		t, err := fromORTValue(decl, outputValues[i])
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", decl.Name, err)
		}
		result[decl.Name] = t
	}
	return result, nil
}

func toORTValue(t tensor.Tensor) (ort.Value, error) {
	shape := ort.NewShape(t.Shape...)
	switch t.DType {
	case tensor.Float32:
		return ort.NewTensor(shape, t.Float32())
	case tensor.Float64:
		return ort.NewTensor(shape, t.Float64())
	case tensor.Int64:
		return ort.NewTensor(shape, t.Int64())
	case tensor.Int32:
		return ort.NewTensor(shape, t.Int32())
	case tensor.Int16:
		return ort.NewTensor(shape, t.Int16())
	case tensor.Int8:
		return ort.NewTensor(shape, t.Int8())
	case tensor.Uint16:
		return ort.NewTensor(shape, t.Uint16())
	case tensor.Uint8:
		return ort.NewTensor(shape, t.Uint8())
	default:
		return nil, fmt.Errorf("unsupported input dtype %s", t.DType)
	}
}

func fromORTValue(decl IOInfo, v ort.Value) (tensor.Tensor, error) {
	switch decl.DType {
	case tensor.Float32:
		ten, ok := v.(*ort.Tensor[float32])
		if !ok {
			return tensor.Tensor{}, fmt.Errorf("expected float32 tensor")
		}
		return tensor.NewFloat32(shapeOf(ten.GetShape()), ten.GetData()), nil
	case tensor.Float64:
		ten, ok := v.(*ort.Tensor[float64])
		if !ok {
			return tensor.Tensor{}, fmt.Errorf("expected float64 tensor")
		}
		return tensor.NewFloat64(shapeOf(ten.GetShape()), ten.GetData()), nil
	case tensor.Int64:
		ten, ok := v.(*ort.Tensor[int64])
		if !ok {
			return tensor.Tensor{}, fmt.Errorf("expected int64 tensor")
		}
		return tensor.NewInt64(shapeOf(ten.GetShape()), ten.GetData()), nil
	case tensor.Int32:
		ten, ok := v.(*ort.Tensor[int32])
		if !ok {
			return tensor.Tensor{}, fmt.Errorf("expected int32 tensor")
		}
		return tensor.NewInt32(shapeOf(ten.GetShape()), ten.GetData()), nil
	default:
		return tensor.Tensor{}, fmt.Errorf("unsupported output dtype %s", decl.DType)
	}
}

func shapeOf(s ort.Shape) []int64 { return append([]int64(nil), s...) }

func (h *ortHandle) Close() error {
	return h.session.Destroy()
}
