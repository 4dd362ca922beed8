package types

// Tensor is the wire representation of a named tensor value: a flat data
// buffer plus the dtype and shape needed to reconstruct it. Exactly one of
// the typed slices is populated, matching DType.
type Tensor struct {
	// DType names the element type: float32, float64, int64, int32, int16, int8, uint16, uint8, bool, string.
	// example: float32
	DType string `json:"dtype" example:"float32"`
	// Shape lists the dimension sizes in order. A -1 entry is only valid on
	// the model's declared input/output info, never on a concrete tensor.
	// example: [1,3,224,224]
	Shape []int64 `json:"shape" example:"[1,3,224,224]"`

	Float32Data []float32 `json:"float32_data,omitempty"`
	Float64Data []float64 `json:"float64_data,omitempty"`
	Int64Data   []int64   `json:"int64_data,omitempty"`
	Int32Data   []int32   `json:"int32_data,omitempty"`
	Int16Data   []int16   `json:"int16_data,omitempty"`
	Int8Data    []int8    `json:"int8_data,omitempty"`
	Uint16Data  []uint16  `json:"uint16_data,omitempty"`
	Uint8Data   []uint8   `json:"uint8_data,omitempty"`
	BoolData    []bool    `json:"bool_data,omitempty"`
	StringData  []string  `json:"string_data,omitempty"`
}

// IOInfo describes one declared input or output of a loaded model.
type IOInfo struct {
	// example: input
	Name string `json:"name" example:"input"`
	// example: float32
	DType string `json:"dtype" example:"float32"`
	// A dimension of -1 marks a dynamic axis (e.g. batch size).
	// example: [-1,3,224,224]
	Shape []int64 `json:"shape" example:"[-1,3,224,224]"`
}

// ModelInfo is a discoverable or loaded ONNX model on disk.
type ModelInfo struct {
	// Stable identifier, derived from the filename without extension.
	// example: resnet50
	Name string `json:"name" example:"resnet50"`
	// Absolute path to the .onnx file.
	// example: /srv/onnx-models/resnet50.onnx
	Path string `json:"path" example:"/srv/onnx-models/resnet50.onnx"`
	// Lifecycle state: loading|ready|error.
	// example: ready
	State string `json:"state" example:"ready"`
	// Populated once the model has loaded successfully.
	Inputs  []IOInfo `json:"inputs,omitempty"`
	Outputs []IOInfo `json:"outputs,omitempty"`
	// Last error observed while (re)loading this model, if any.
	Error string `json:"error,omitempty"`
	// Unix seconds of the last successful load.
	LoadedAtUnix int64 `json:"loaded_at_unix,omitempty" example:"1700000000"`
}
