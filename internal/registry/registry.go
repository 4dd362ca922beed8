package registry

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"onnxd/internal/metrics"
	"onnxd/internal/obslog"
	"onnxd/internal/session"
	"onnxd/internal/tensor"
	"onnxd/pkg/types"
)

// entry is the registry's private bookkeeping for one model. State access
// goes through Registry.mu; Handle itself is safe for concurrent Run calls
// once loaded.
type entry struct {
	name    string
	path    string
	state   string // loading|ready|error
	handle  session.Handle
	modTime time.Time
	lastErr string
	loadedAt time.Time
}

// Config configures a Registry. It is intentionally a plain struct rather
// than internal/config.Config so this package doesn't need to know about
// file/env/flag layering.
type Config struct {
	Directory     string
	HotReload     bool
	WatchInterval time.Duration
	SessionOpts   session.Options
}

// Registry owns every loaded model session for the process. It scans a
// directory for *.onnx files, loads each through a session.Backend, and
// optionally watches the directory for added/changed/removed files.
type Registry struct {
	mu       sync.RWMutex
	dir      string
	backend  session.Backend
	opts     session.Options
	entries  map[string]*entry
	reloadMu *keyedMutex
	watch    time.Duration
	hotReload bool
	log      obslog.Logger
	metrics  *metrics.Sink

	stopCh chan struct{}
	doneCh chan struct{}
}

// New constructs a Registry. Call Initialize to scan the directory and
// (optionally) start the hot-reload watcher.
func New(cfg Config, backend session.Backend, log obslog.Logger, sink *metrics.Sink) *Registry {
	return &Registry{
		dir:       cfg.Directory,
		backend:   backend,
		opts:      cfg.SessionOpts,
		entries:   make(map[string]*entry),
		reloadMu:  newKeyedMutex(),
		watch:     cfg.WatchInterval,
		hotReload: cfg.HotReload,
		log:       log.WithComponent("registry"),
		metrics:   sink,
	}
}

// Initialize creates the models directory if missing, performs the initial
// scan-and-load pass, and starts the hot-reload watcher if configured.
func (r *Registry) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("registry: create models dir: %w", err)
	}
	if err := r.scanAndLoad(ctx); err != nil {
		return err
	}
	if r.hotReload {
		r.startWatcher()
	}
	return nil
}

func (r *Registry) scanAndLoad(ctx context.Context) error {
	paths, err := scanDir(r.dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		name := nameFromPath(path)
		if err := r.load(ctx, name, path); err != nil {
			r.log.Warn().Str("model", name).Err(err).Msg("failed to load model")
		}
	}
	return nil
}

// load loads (or reloads) a single model file under the per-name lock.
func (r *Registry) load(ctx context.Context, name, path string) error {
	return r.reloadMu.Do(name, func() error {
		st, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("registry: stat %s: %w", path, err)
		}

		r.setLoading(name, path)
		handle, loadErr := r.backend.Load(ctx, path, r.opts)

		r.mu.Lock()
		defer r.mu.Unlock()
		prev := r.entries[name]
		if loadErr != nil {
			// A previously loaded session stays in service; only the error is recorded.
			if prev != nil && prev.handle != nil {
				prev.lastErr = loadErr.Error()
				return loadErr
			}
			r.entries[name] = &entry{name: name, path: path, state: "error", lastErr: loadErr.Error(), modTime: st.ModTime()}
			if r.metrics != nil {
				r.metrics.LoadedModels.Set(float64(r.countReadyLocked()))
			}
			return loadErr
		}
		if prev != nil && prev.handle != nil {
			_ = prev.handle.Close()
		}
		r.entries[name] = &entry{name: name, path: path, state: "ready", handle: handle, modTime: st.ModTime(), loadedAt: time.Now()}
		if r.metrics != nil {
			r.metrics.LoadedModels.Set(float64(r.countReadyLocked()))
			r.metrics.ActiveSessions.Set(float64(len(r.entries)))
		}
		r.log.Info().Str("model", name).Str("path", path).Msg("model loaded")
		return nil
	})
}

func (r *Registry) setLoading(name, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		r.entries[name] = &entry{name: name, path: path, state: "loading"}
	}
}

func (r *Registry) countReadyLocked() int {
	n := 0
	for _, e := range r.entries {
		if e.state == "ready" {
			n++
		}
	}
	return n
}

// Has reports whether name is known to the registry, regardless of state.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Count returns the number of models currently in the ready state.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countReadyLocked()
}

// Get returns the ModelInfo for name.
func (r *Registry) Get(name string) (types.ModelInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return types.ModelInfo{}, false
	}
	return entryToInfo(e), true
}

// List returns ModelInfo for every known model, sorted by name.
func (r *Registry) List() []types.ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.ModelInfo, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, entryToInfo(e))
	}
	sortModelInfo(out)
	return out
}

// Reload forces a (re)load of name from disk, serialized against any
// concurrent reload or watcher-triggered load of the same name.
func (r *Registry) Reload(ctx context.Context, name string) (types.ModelInfo, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	path := ""
	if ok {
		path = e.path
	} else {
		path = defaultPathFor(r.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return types.ModelInfo{}, ErrModelNotFound(name)
		}
	}
	if err := r.load(ctx, name, path); err != nil {
		return types.ModelInfo{}, err
	}
	info, _ := r.Get(name)
	return info, nil
}

func defaultPathFor(dir, name string) string {
	return dir + string(os.PathSeparator) + name + ".onnx"
}

// RunInference resolves name and runs it synchronously. The batch executor
// calls this once per queued request; direct (non-batched) requests call it
// straight from the HTTP handler.
func (r *Registry) RunInference(ctx context.Context, name string, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, ErrModelNotFound(name)
	}
	if e.state != "ready" || e.handle == nil {
		return nil, ErrModelNotReady(name, e.state)
	}
	start := time.Now()
	out, err := runSafely(ctx, e.handle, inputs)
	if r.metrics != nil {
		r.metrics.RecordInference(name, time.Since(start))
	}
	return out, err
}

// runSafely calls handle.Run and converts a panic inside the backend into an
// error instead of letting it escape to the caller. A single bad inference
// must not take down the goroutine that called RunInference, whether that's
// an HTTP handler goroutine or the batch executor's run loop.
func runSafely(ctx context.Context, h session.Handle, inputs map[string]tensor.Tensor) (out map[string]tensor.Tensor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("inference panicked: %v", rec)
		}
	}()
	return h.Run(ctx, inputs)
}

// IOInfo returns the declared inputs/outputs for a ready model.
func (r *Registry) IOInfo(name string) (inputs, outputs []session.IOInfo, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, nil, ErrModelNotFound(name)
	}
	if e.state != "ready" || e.handle == nil {
		return nil, nil, ErrModelNotReady(name, e.state)
	}
	return e.handle.Inputs(), e.handle.Outputs(), nil
}

// Close stops the watcher and releases every loaded session.
func (r *Registry) Close() error {
	r.stopWatcher()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.handle != nil {
			_ = e.handle.Close()
		}
	}
	return nil
}

func entryToInfo(e *entry) types.ModelInfo {
	info := types.ModelInfo{
		Name:  e.name,
		Path:  e.path,
		State: e.state,
		Error: e.lastErr,
	}
	if !e.loadedAt.IsZero() {
		info.LoadedAtUnix = e.loadedAt.Unix()
	}
	if e.handle != nil {
		info.Inputs = ioInfoToWire(e.handle.Inputs())
		info.Outputs = ioInfoToWire(e.handle.Outputs())
	}
	return info
}

func ioInfoToWire(infos []session.IOInfo) []types.IOInfo {
	out := make([]types.IOInfo, len(infos))
	for i, in := range infos {
		out[i] = types.IOInfo{Name: in.Name, DType: in.DType.String(), Shape: in.Shape}
	}
	return out
}

func sortModelInfo(list []types.ModelInfo) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].Name < list[j-1].Name; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}
