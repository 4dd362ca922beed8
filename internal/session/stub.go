//go:build !onnxruntime

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"onnxd/internal/tensor"
)

// newDefaultBackend is the non-ONNX-Runtime build: it never touches a real
// .onnx file. It lets the rest of the server run, and its tests pass,
// without the native ONNX Runtime shared library installed.
//
// Each model file may be accompanied by a "<path>.iospec.json" sidecar
// describing declared inputs/outputs, matching the shape:
//
//	{"inputs":[{"name":"input","dtype":"float32","shape":[-1,3,224,224]}],
//	 "outputs":[{"name":"output","dtype":"float32","shape":[-1,1000]}]}
//
// Without a sidecar, the stub declares no fixed IO and Run echoes whatever
// inputs it receives back as outputs under the same names.
func newDefaultBackend() Backend { return stubBackend{} }

type stubBackend struct{}

func (stubBackend) Load(ctx context.Context, path string, opts Options) (Handle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ErrLoad(path, err)
	}
	spec, err := readIOSpec(path + ".iospec.json")
	if err != nil {
		return nil, ErrLoad(path, err)
	}
	return &stubHandle{path: path, inputs: spec.Inputs, outputs: spec.Outputs}, nil
}

type ioSpec struct {
	Inputs  []ioSpecEntry `json:"inputs"`
	Outputs []ioSpecEntry `json:"outputs"`
}

type ioSpecEntry struct {
	Name  string  `json:"name"`
	DType string  `json:"dtype"`
	Shape []int64 `json:"shape"`
}

func readIOSpec(sidecar string) (ioSpec, error) {
	b, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return ioSpec{}, nil
		}
		return ioSpec{}, err
	}
	var spec ioSpec
	if err := json.Unmarshal(b, &spec); err != nil {
		return ioSpec{}, fmt.Errorf("iospec: %w", err)
	}
	return spec, nil
}

func (s ioSpec) toIOInfo(entries []ioSpecEntry) ([]IOInfo, error) {
	out := make([]IOInfo, 0, len(entries))
	for _, e := range entries {
		dt, err := tensor.ParseDType(e.DType)
		if err != nil {
			return nil, err
		}
		out = append(out, IOInfo{Name: e.Name, DType: dt, Shape: e.Shape})
	}
	return out, nil
}

type stubHandle struct {
	path    string
	inputs  []ioSpecEntry
	outputs []ioSpecEntry
}

func (h *stubHandle) Inputs() []IOInfo {
	info, _ := ioSpec{}.toIOInfo(h.inputs)
	return info
}

func (h *stubHandle) Outputs() []IOInfo {
	info, _ := ioSpec{}.toIOInfo(h.outputs)
	return info
}

func (h *stubHandle) Run(ctx context.Context, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error) {
	if len(h.outputs) == 0 {
		// No declared outputs: echo inputs back under their own names.
		out := make(map[string]tensor.Tensor, len(inputs))
		for name, t := range inputs {
			out[name] = t
		}
		return out, nil
	}
	out := make(map[string]tensor.Tensor, len(h.outputs))
	for _, o := range h.outputs {
		// Reuse the input of the same name, else the first declared input of
		// matching rank; otherwise zero-fill.
		if in, ok := inputs[o.Name]; ok {
			out[o.Name] = in
			continue
		}
		matched := false
		for _, d := range h.inputs {
			if in, ok := inputs[d.Name]; ok && len(in.Shape) == len(o.Shape) {
				out[o.Name] = in
				matched = true
				break
			}
		}
		if !matched {
			out[o.Name] = zeroTensor(o)
		}
	}
	return out, nil
}

func zeroTensor(o ioSpecEntry) tensor.Tensor {
	n, err := tensor.ShapeElementCount(o.Shape)
	if err != nil {
		n = 0
	}
	dt, _ := tensor.ParseDType(o.DType)
	switch dt {
	case tensor.Float64:
		return tensor.NewFloat64(o.Shape, make([]float64, n))
	case tensor.Int64:
		return tensor.NewInt64(o.Shape, make([]int64, n))
	case tensor.Int32:
		return tensor.NewInt32(o.Shape, make([]int32, n))
	case tensor.Int16:
		return tensor.NewInt16(o.Shape, make([]int16, n))
	case tensor.Uint16:
		return tensor.NewUint16(o.Shape, make([]uint16, n))
	default:
		return tensor.NewFloat32(o.Shape, make([]float32, n))
	}
}

func (h *stubHandle) Close() error { return nil }
