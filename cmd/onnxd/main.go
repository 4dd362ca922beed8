package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onnxd/internal/batch"
	"onnxd/internal/config"
	"onnxd/internal/httpapi"
	"onnxd/internal/metrics"
	"onnxd/internal/obslog"
	"onnxd/internal/registry"
	"onnxd/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML/JSON/TOML config file")
	addr := flag.String("addr", "", "HTTP listen address, e.g. :8080 (overrides config)")
	modelsDir := flag.String("models-dir", "", "Directory to scan for *.onnx model files (overrides config)")
	batchingEnabled := flag.Bool("batching", true, "Enable request batching")
	logLevel := flag.String("log-level", "", "Log level: debug|info|warn|error (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		obslog.New(obslog.Options{}).Fatalf("load config: %v", err)
	}
	config.ApplyEnv(&cfg)

	if *addr != "" {
		host, port := splitAddr(*addr)
		cfg.Server.Host = host
		cfg.Server.Port = port
	}
	if *modelsDir != "" {
		cfg.Models.Directory = *modelsDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if !*batchingEnabled {
		cfg.Batching.Enabled = false
	}

	log := obslog.New(obslog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	modelsPath, err := cfg.ModelsDirectory()
	if err != nil {
		log.Fatalf("resolve models directory: %v", err)
	}

	sink := metrics.New(cfg.Metrics.LatencyBuckets)

	backend := session.NewDefaultBackend()
	reg := registry.New(registry.Config{
		Directory:     modelsPath,
		HotReload:     cfg.Models.HotReload,
		WatchInterval: time.Duration(cfg.Models.WatchIntervalMS) * time.Millisecond,
		SessionOpts: session.Options{
			Providers:         cfg.Inference.Providers,
			GPUDeviceID:       cfg.Inference.GPUDeviceID,
			MemoryLimitMB:     cfg.Inference.MemoryLimitMB,
			IntraOpThreads:    cfg.Inference.IntraOpThreads,
			InterOpThreads:    cfg.Inference.InterOpThreads,
			GraphOptimization: cfg.Inference.GraphOptimization,
		},
	}, backend, log, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reg.Initialize(ctx); err != nil {
		log.Fatalf("initialize registry: %v", err)
	}
	for _, name := range cfg.Models.Preload {
		if _, err := reg.Reload(ctx, name); err != nil {
			log.Warn().Str("model", name).Err(err).Msg("preload failed")
		}
	}

	var executor *batch.Executor
	if cfg.Batching.Enabled {
		executor = batch.New(batch.Config{
			MaxBatchSize: cfg.Batching.MaxBatchSize,
			MinBatchSize: cfg.Batching.MinBatchSize,
			MaxWait:      time.Duration(cfg.Batching.MaxWaitMS) * time.Millisecond,
		}, reg.RunInference, log, sink)
		executor.Start()
	}

	deps := httpapi.Deps{
		Registry:        reg,
		Executor:        executor,
		Log:             log,
		BatchingEnabled: cfg.Batching.Enabled,
		CORS:            httpapi.CORSOptions{},
		StartTime:       time.Now(),
		BaseContext:     ctx,
		MetricsPath:     cfg.Metrics.Path,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = sink
	}
	mux := httpapi.NewMux(deps)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("models_dir", modelsPath).Msg("onnxd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	if executor != nil {
		executor.Stop()
	}
	if err := reg.Close(); err != nil {
		log.Error().Err(err).Msg("registry close error")
	}
}

func splitAddr(addr string) (host string, port int) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			host = addr[:i]
			port = atoiOrZero(addr[i+1:])
			return
		}
	}
	return addr, 0
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
