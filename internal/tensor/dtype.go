package tensor

import "fmt"

// DType is the element type of a Tensor, independent of any particular
// inference backend's own type enum.
type DType int

const (
	Invalid DType = iota
	Float32
	Float64
	Int64
	Int32
	Int16
	Int8
	Uint16
	Uint8
	Bool
	String
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	case Int8:
		return "int8"
	case Uint16:
		return "uint16"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "invalid"
	}
}

// ParseDType maps a wire-format dtype name to a DType.
func ParseDType(s string) (DType, error) {
	switch s {
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	case "int64":
		return Int64, nil
	case "int32":
		return Int32, nil
	case "int16":
		return Int16, nil
	case "int8":
		return Int8, nil
	case "uint16":
		return Uint16, nil
	case "uint8":
		return Uint8, nil
	case "bool":
		return Bool, nil
	case "string":
		return String, nil
	default:
		return Invalid, fmt.Errorf("tensor: unknown dtype %q", s)
	}
}
