package tensor

import "fmt"

// Tensor pairs a dtype and shape with exactly one typed payload slice, so
// the active dtype and the buffer backing it can never drift apart the way
// a bare dtype-tagged []byte would allow.
type Tensor struct {
	DType DType
	Shape []int64

	f32 []float32
	f64 []float64
	i64 []int64
	i32 []int32
	i16 []int16
	i8  []int8
	u16 []uint16
	u8  []uint8
	b   []bool
	s   []string
}

func NewFloat32(shape []int64, data []float32) Tensor { return Tensor{DType: Float32, Shape: shape, f32: data} }
func NewFloat64(shape []int64, data []float64) Tensor { return Tensor{DType: Float64, Shape: shape, f64: data} }
func NewInt64(shape []int64, data []int64) Tensor     { return Tensor{DType: Int64, Shape: shape, i64: data} }
func NewInt32(shape []int64, data []int32) Tensor     { return Tensor{DType: Int32, Shape: shape, i32: data} }
func NewInt16(shape []int64, data []int16) Tensor     { return Tensor{DType: Int16, Shape: shape, i16: data} }
func NewInt8(shape []int64, data []int8) Tensor       { return Tensor{DType: Int8, Shape: shape, i8: data} }
func NewUint16(shape []int64, data []uint16) Tensor   { return Tensor{DType: Uint16, Shape: shape, u16: data} }
func NewUint8(shape []int64, data []uint8) Tensor     { return Tensor{DType: Uint8, Shape: shape, u8: data} }
func NewBool(shape []int64, data []bool) Tensor       { return Tensor{DType: Bool, Shape: shape, b: data} }
func NewString(shape []int64, data []string) Tensor   { return Tensor{DType: String, Shape: shape, s: data} }

func (t Tensor) Float32() []float32 { return t.f32 }
func (t Tensor) Float64() []float64 { return t.f64 }
func (t Tensor) Int64() []int64     { return t.i64 }
func (t Tensor) Int32() []int32     { return t.i32 }
func (t Tensor) Int16() []int16     { return t.i16 }
func (t Tensor) Int8() []int8       { return t.i8 }
func (t Tensor) Uint16() []uint16   { return t.u16 }
func (t Tensor) Uint8() []uint8     { return t.u8 }
func (t Tensor) Bool() []bool       { return t.b }
func (t Tensor) Str() []string      { return t.s }

// Len returns the element count of the active payload.
func (t Tensor) Len() int {
	switch t.DType {
	case Float32:
		return len(t.f32)
	case Float64:
		return len(t.f64)
	case Int64:
		return len(t.i64)
	case Int32:
		return len(t.i32)
	case Int16:
		return len(t.i16)
	case Int8:
		return len(t.i8)
	case Uint16:
		return len(t.u16)
	case Uint8:
		return len(t.u8)
	case Bool:
		return len(t.b)
	case String:
		return len(t.s)
	default:
		return 0
	}
}

// ShapeElementCount multiplies out the shape's dimensions. A negative
// dimension (dynamic axis) is only legal on declared IO info, never here,
// and causes an error.
func ShapeElementCount(shape []int64) (int64, error) {
	var n int64 = 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("tensor: shape %v has a dynamic axis, expected a concrete tensor shape", shape)
		}
		n *= d
	}
	return n, nil
}

// Validate checks that the payload length matches the shape and that the
// dtype is one this tensor actually carries data for.
func (t Tensor) Validate() error {
	if t.DType == Invalid {
		return fmt.Errorf("tensor: invalid dtype")
	}
	n, err := ShapeElementCount(t.Shape)
	if err != nil {
		return err
	}
	if int64(t.Len()) != n {
		return fmt.Errorf("tensor: dtype %s payload has %d elements, shape %v wants %d", t.DType, t.Len(), t.Shape, n)
	}
	return nil
}
