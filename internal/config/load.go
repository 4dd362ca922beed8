package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file based on its extension (.yaml/.yml,
// .json, .toml), overlaying it on Defaults(). An empty path returns
// Defaults() unchanged.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	var file Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &file); err != nil {
			return cfg, fmt.Errorf("config: parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &file); err != nil {
			return cfg, fmt.Errorf("config: parse json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &file); err != nil {
			return cfg, fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		return cfg, fmt.Errorf("config: unsupported extension %q", ext)
	}
	merge(&cfg, file)
	return cfg, nil
}

// ApplyEnv overlays ONNXD_* environment variables onto cfg, taking
// precedence over file values but not over explicit CLI flags (the caller
// applies those last).
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("ONNXD_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v, ok := envInt("ONNXD_PORT"); ok {
		cfg.Server.Port = v
	}
	if v, ok := envInt("ONNXD_THREADS"); ok {
		cfg.Server.Threads = v
	}
	if v, ok := envInt("ONNXD_GPU_DEVICE_ID"); ok {
		cfg.Inference.GPUDeviceID = v
	}
	if v, ok := envInt("ONNXD_MEMORY_LIMIT_MB"); ok {
		cfg.Inference.MemoryLimitMB = v
	}
	if v := os.Getenv("ONNXD_PROVIDERS"); v != "" {
		cfg.Inference.Providers = strings.Split(v, ",")
	}
	if v, ok := envBool("ONNXD_BATCHING_ENABLED"); ok {
		cfg.Batching.Enabled = v
	}
	if v, ok := envInt("ONNXD_MAX_BATCH_SIZE"); ok {
		cfg.Batching.MaxBatchSize = v
	}
	if v, ok := envInt("ONNXD_MIN_BATCH_SIZE"); ok {
		cfg.Batching.MinBatchSize = v
	}
	if v, ok := envInt("ONNXD_MAX_WAIT_MS"); ok {
		cfg.Batching.MaxWaitMS = v
	}
	if v := os.Getenv("ONNXD_MODELS_DIR"); v != "" {
		cfg.Models.Directory = v
	}
	if v, ok := envBool("ONNXD_HOT_RELOAD"); ok {
		cfg.Models.HotReload = v
	}
	if v, ok := envBool("ONNXD_METRICS_ENABLED"); ok {
		cfg.Metrics.Enabled = v
	}
	if v := os.Getenv("ONNXD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// expandHome expands a leading '~' to the user's home directory, the same
// convention the model directory scanner relies on.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// ModelsDirectory returns Models.Directory with leading '~' expanded.
func (c Config) ModelsDirectory() (string, error) {
	return expandHome(c.Models.Directory)
}

// Addr returns the host:port pair for http.Server.Addr.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
