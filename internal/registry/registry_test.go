package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"onnxd/internal/obslog"
	"onnxd/internal/session"
	"onnxd/internal/tensor"
)

// panicBackend loads instantly and produces handles whose Run always panics,
// used to exercise RunInference's panic recovery.
type panicBackend struct{}

func (panicBackend) Load(ctx context.Context, path string, opts session.Options) (session.Handle, error) {
	return panicHandle{}, nil
}

type panicHandle struct{}

func (panicHandle) Inputs() []session.IOInfo  { return nil }
func (panicHandle) Outputs() []session.IOInfo { return nil }
func (panicHandle) Run(ctx context.Context, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error) {
	panic("boom")
}
func (panicHandle) Close() error { return nil }

func writeOnnxFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("fake"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func newTestRegistry(t *testing.T, dir string, hotReload bool) *Registry {
	t.Helper()
	cfg := Config{Directory: dir, HotReload: hotReload, WatchInterval: 20 * time.Millisecond}
	return New(cfg, session.NewDefaultBackend(), obslog.Nop(), nil)
}

func TestInitializeLoadsExistingModels(t *testing.T) {
	dir := t.TempDir()
	writeOnnxFile(t, dir, "a.onnx")
	writeOnnxFile(t, dir, "b.onnx")
	writeOnnxFile(t, dir, "ignore.txt")

	r := newTestRegistry(t, dir, false)
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer r.Close()

	if r.Count() != 2 {
		t.Fatalf("expected 2 loaded models, got %d", r.Count())
	}
	if !r.Has("a") || !r.Has("b") {
		t.Fatalf("expected a and b to be known: %+v", r.List())
	}
}

func TestGetUnknownModel(t *testing.T) {
	dir := t.TempDir()
	r := newTestRegistry(t, dir, false)
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer r.Close()
	if _, ok := r.Get("missing"); ok {
		t.Fatal("expected missing model to not be found")
	}
}

func TestRunInferenceModelNotFound(t *testing.T) {
	dir := t.TempDir()
	r := newTestRegistry(t, dir, false)
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer r.Close()
	_, err := r.RunInference(context.Background(), "missing", nil)
	if !IsModelNotFound(err) {
		t.Fatalf("expected model-not-found error, got %v", err)
	}
}

func TestReloadPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()
	r := newTestRegistry(t, dir, false)
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer r.Close()

	writeOnnxFile(t, dir, "late.onnx")
	info, err := r.Reload(context.Background(), "late")
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if info.State != "ready" {
		t.Fatalf("expected ready state, got %+v", info)
	}
}

func TestRunInferenceRecoversPanic(t *testing.T) {
	dir := t.TempDir()
	writeOnnxFile(t, dir, "p.onnx")
	r := New(Config{Directory: dir}, panicBackend{}, obslog.Nop(), nil)
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer r.Close()

	_, err := r.RunInference(context.Background(), "p", map[string]tensor.Tensor{})
	if err == nil {
		t.Fatal("expected an error from the panicking handle, got nil")
	}

	// The registry goroutine must still be usable after a panic; a second
	// call should return the same recovered error rather than hang or crash.
	if _, err2 := r.RunInference(context.Background(), "p", map[string]tensor.Tensor{}); err2 == nil {
		t.Fatal("expected registry to remain usable after a recovered panic")
	}
}

func TestWatcherDetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	p := writeOnnxFile(t, dir, "gone.onnx")
	r := newTestRegistry(t, dir, true)
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer r.Close()

	if !r.Has("gone") {
		t.Fatal("expected gone.onnx to be loaded initially")
	}
	if err := os.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !r.Has("gone") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected watcher to unload removed model")
}
