package types

// InferRequest is the POST /v1/models/{name}/infer request body. The model
// name travels in the URL, not the body.
type InferRequest struct {
	// Named input tensors, keyed by the model's declared input name.
	Inputs map[string]Tensor `json:"inputs"`
}

// InferResponse is the POST /v1/models/{name}/infer response body on success.
type InferResponse struct {
	// example: resnet50
	ModelName string `json:"model_name" example:"resnet50"`
	// Named output tensors, keyed by the model's declared output name.
	Outputs map[string]Tensor `json:"outputs"`
	// Timing breakdown for this request.
	Timing InferTiming `json:"timing"`
}

// InferTiming reports how long a request spent queued versus executing.
type InferTiming struct {
	// Time spent waiting in the batch queue before execution started.
	// example: 1.2
	QueueMS float64 `json:"queue_ms" example:"1.2"`
	// Time spent inside the ONNX Runtime session call.
	// example: 8.7
	InferenceMS float64 `json:"inference_ms" example:"8.7"`
}

// ModelsResponse wraps the list returned by GET /v1/models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ErrorBody is the nested payload inside ErrorResponse.
type ErrorBody struct {
	// example: 404
	Code int `json:"code" example:"404"`
	// example: model not found
	Message string `json:"message" example:"model not found"`
	// Optional extra context, e.g. the underlying load error.
	Detail string `json:"detail,omitempty"`
}

// ErrorResponse is the JSON error envelope returned by every failing
// request: {"error": {"code", "message", "detail"?}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ReloadResponse is returned by POST /v1/models/{name}/reload.
type ReloadResponse struct {
	Model ModelInfo `json:"model"`
}

// ServerInfo is returned by GET /.
type ServerInfo struct {
	Name    string `json:"name" example:"onnxd"`
	Version string `json:"version" example:"1.0"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall server state: loading|ready|error.
	// example: ready
	State string `json:"state" example:"ready"`
	// example: true
	BatchingEnabled bool `json:"batching_enabled" example:"true"`
	// Number of requests currently sitting in the batch queue.
	QueueDepth int `json:"queue_depth" example:"0"`
	// Moving average of executed batch sizes (last 1000 batches).
	AverageBatchSize float64 `json:"average_batch_size" example:"4.2"`
	// Count of models currently loaded and ready to serve.
	LoadedModels int `json:"loaded_models" example:"3"`
	// Uptime of the process in seconds.
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Unix seconds when this status was produced.
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
