package tensor

import (
	"fmt"

	"onnxd/pkg/types"
)

// FromWire converts a wire Tensor (as decoded from JSON) into the internal
// tagged-union representation, validating dtype/shape/payload agreement.
func FromWire(w types.Tensor) (Tensor, error) {
	dt, err := ParseDType(w.DType)
	if err != nil {
		return Tensor{}, err
	}
	var t Tensor
	switch dt {
	case Float32:
		t = NewFloat32(w.Shape, w.Float32Data)
	case Float64:
		t = NewFloat64(w.Shape, w.Float64Data)
	case Int64:
		t = NewInt64(w.Shape, w.Int64Data)
	case Int32:
		t = NewInt32(w.Shape, w.Int32Data)
	case Int16:
		t = NewInt16(w.Shape, w.Int16Data)
	case Int8:
		t = NewInt8(w.Shape, w.Int8Data)
	case Uint16:
		t = NewUint16(w.Shape, w.Uint16Data)
	case Uint8:
		t = NewUint8(w.Shape, w.Uint8Data)
	case Bool:
		t = NewBool(w.Shape, w.BoolData)
	case String:
		t = NewString(w.Shape, w.StringData)
	default:
		return Tensor{}, fmt.Errorf("tensor: unsupported dtype %q", w.DType)
	}
	if err := t.Validate(); err != nil {
		return Tensor{}, err
	}
	return t, nil
}

// ToWire converts the internal representation back to the JSON wire shape.
func ToWire(t Tensor) types.Tensor {
	w := types.Tensor{DType: t.DType.String(), Shape: t.Shape}
	switch t.DType {
	case Float32:
		w.Float32Data = t.f32
	case Float64:
		w.Float64Data = t.f64
	case Int64:
		w.Int64Data = t.i64
	case Int32:
		w.Int32Data = t.i32
	case Int16:
		w.Int16Data = t.i16
	case Int8:
		w.Int8Data = t.i8
	case Uint16:
		w.Uint16Data = t.u16
	case Uint8:
		w.Uint8Data = t.u8
	case Bool:
		w.BoolData = t.b
	case String:
		w.StringData = t.s
	}
	return w
}

// FromWireMap converts a full inputs/outputs map from the wire format.
func FromWireMap(m map[string]types.Tensor) (map[string]Tensor, error) {
	out := make(map[string]Tensor, len(m))
	for name, w := range m {
		t, err := FromWire(w)
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// ToWireMap converts a full inputs/outputs map to the wire format.
func ToWireMap(m map[string]Tensor) map[string]types.Tensor {
	out := make(map[string]types.Tensor, len(m))
	for name, t := range m {
		out[name] = ToWire(t)
	}
	return out
}
