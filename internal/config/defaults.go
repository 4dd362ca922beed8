package config

// Defaults returns a Config pre-filled with the values the original
// onnx_server.hpp ships when no file, env var, or flag overrides them.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Threads: 4,
		},
		Inference: InferenceConfig{
			Providers:         []string{"cpu"},
			GPUDeviceID:       0,
			MemoryLimitMB:     0,
			IntraOpThreads:    0, // 0 lets ONNX Runtime pick
			InterOpThreads:    0,
			GraphOptimization: "all",
		},
		Batching: BatchingConfig{
			Enabled:        true,
			MaxBatchSize:   16,
			MinBatchSize:   1,
			MaxWaitMS:      50,
			AdaptiveSizing: false,
		},
		Models: ModelsConfig{
			Directory:       "~/models/onnx",
			HotReload:       true,
			WatchIntervalMS: 2000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			LatencyBuckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
	}
}

// merge overlays non-zero fields of src onto dst, field by field. Used to
// layer file config on top of Defaults() without clobbering values the
// file never mentioned.
func merge(dst *Config, src Config) {
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.Threads != 0 {
		dst.Server.Threads = src.Server.Threads
	}
	if len(src.Inference.Providers) > 0 {
		dst.Inference.Providers = src.Inference.Providers
	}
	if src.Inference.GPUDeviceID != 0 {
		dst.Inference.GPUDeviceID = src.Inference.GPUDeviceID
	}
	if src.Inference.MemoryLimitMB != 0 {
		dst.Inference.MemoryLimitMB = src.Inference.MemoryLimitMB
	}
	if src.Inference.IntraOpThreads != 0 {
		dst.Inference.IntraOpThreads = src.Inference.IntraOpThreads
	}
	if src.Inference.InterOpThreads != 0 {
		dst.Inference.InterOpThreads = src.Inference.InterOpThreads
	}
	if src.Inference.GraphOptimization != "" {
		dst.Inference.GraphOptimization = src.Inference.GraphOptimization
	}
	dst.Batching = mergeBatching(dst.Batching, src.Batching)
	if src.Models.Directory != "" {
		dst.Models.Directory = src.Models.Directory
	}
	if src.Models.WatchIntervalMS != 0 {
		dst.Models.WatchIntervalMS = src.Models.WatchIntervalMS
	}
	if len(src.Models.Preload) > 0 {
		dst.Models.Preload = src.Models.Preload
	}
	dst.Models.HotReload = src.Models.HotReload || dst.Models.HotReload
	if src.Metrics.Path != "" {
		dst.Metrics.Path = src.Metrics.Path
	}
	if len(src.Metrics.LatencyBuckets) > 0 {
		dst.Metrics.LatencyBuckets = src.Metrics.LatencyBuckets
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}

func mergeBatching(dst, src BatchingConfig) BatchingConfig {
	out := dst
	if src.MaxBatchSize != 0 {
		out.MaxBatchSize = src.MaxBatchSize
	}
	if src.MinBatchSize != 0 {
		out.MinBatchSize = src.MinBatchSize
	}
	if src.MaxWaitMS != 0 {
		out.MaxWaitMS = src.MaxWaitMS
	}
	if src.AdaptiveSizing {
		out.AdaptiveSizing = true
	}
	return out
}
