package config

// Config aggregates every tunable for the server. Zero values mean
// "unspecified" and are filled in by Defaults/ApplyEnv; flag overrides are
// applied last by the caller in cmd/onnxd.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server" toml:"server"`
	Inference InferenceConfig `json:"inference" yaml:"inference" toml:"inference"`
	Batching  BatchingConfig  `json:"batching" yaml:"batching" toml:"batching"`
	Models    ModelsConfig    `json:"models" yaml:"models" toml:"models"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics" toml:"metrics"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging" toml:"logging"`
}

type ServerConfig struct {
	Host    string `json:"host" yaml:"host" toml:"host"`
	Port    int    `json:"port" yaml:"port" toml:"port"`
	Threads int    `json:"threads" yaml:"threads" toml:"threads"`
}

// InferenceConfig controls ONNX Runtime session construction.
type InferenceConfig struct {
	// Providers lists execution providers in preference order, e.g.
	// ["tensorrt","cuda","cpu"]. The session falls back to the next entry
	// if a provider fails to initialize.
	Providers         []string `json:"providers" yaml:"providers" toml:"providers"`
	GPUDeviceID       int      `json:"gpu_device_id" yaml:"gpu_device_id" toml:"gpu_device_id"`
	MemoryLimitMB     int      `json:"memory_limit_mb" yaml:"memory_limit_mb" toml:"memory_limit_mb"`
	IntraOpThreads    int      `json:"intra_op_threads" yaml:"intra_op_threads" toml:"intra_op_threads"`
	InterOpThreads    int      `json:"inter_op_threads" yaml:"inter_op_threads" toml:"inter_op_threads"`
	GraphOptimization string   `json:"graph_optimization" yaml:"graph_optimization" toml:"graph_optimization"` // off|basic|extended|all
}

type BatchingConfig struct {
	Enabled        bool `json:"enabled" yaml:"enabled" toml:"enabled"`
	MaxBatchSize   int  `json:"max_batch_size" yaml:"max_batch_size" toml:"max_batch_size"`
	MinBatchSize   int  `json:"min_batch_size" yaml:"min_batch_size" toml:"min_batch_size"`
	MaxWaitMS      int  `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	AdaptiveSizing bool `json:"adaptive_sizing" yaml:"adaptive_sizing" toml:"adaptive_sizing"`
}

type ModelsConfig struct {
	Directory       string   `json:"directory" yaml:"directory" toml:"directory"`
	HotReload       bool     `json:"hot_reload" yaml:"hot_reload" toml:"hot_reload"`
	WatchIntervalMS int      `json:"watch_interval_ms" yaml:"watch_interval_ms" toml:"watch_interval_ms"`
	Preload         []string `json:"preload" yaml:"preload" toml:"preload"`
}

type MetricsConfig struct {
	Enabled       bool      `json:"enabled" yaml:"enabled" toml:"enabled"`
	Path          string    `json:"path" yaml:"path" toml:"path"`
	LatencyBuckets []float64 `json:"latency_buckets" yaml:"latency_buckets" toml:"latency_buckets"`
}

type LoggingConfig struct {
	Level     string `json:"level" yaml:"level" toml:"level"`
	Format    string `json:"format" yaml:"format" toml:"format"`
	Timestamp bool   `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
}
