package tensor

import "fmt"

// ShapeCompatible reports whether a concrete tensor shape satisfies a
// declared shape that may contain dynamic axes (any non-positive declared
// dimension, e.g. the -1 ONNX Runtime reports for symbolic dimensions).
func ShapeCompatible(declared, concrete []int64) error {
	if len(declared) != len(concrete) {
		return fmt.Errorf("tensor: rank mismatch: declared %v has %d dims, got %v with %d dims", declared, len(declared), concrete, len(concrete))
	}
	for i, d := range declared {
		if d <= 0 {
			continue // dynamic axis, anything goes
		}
		if d != concrete[i] {
			return fmt.Errorf("tensor: dim %d mismatch: declared %d, got %d", i, d, concrete[i])
		}
	}
	return nil
}
