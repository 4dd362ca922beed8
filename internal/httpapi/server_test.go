package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"onnxd/internal/batch"
	"onnxd/internal/metrics"
	"onnxd/internal/obslog"
	"onnxd/internal/registry"
	"onnxd/internal/session"
)

func newTestDeps(t *testing.T, batching bool) (Deps, func()) {
	t.Helper()
	dir := t.TempDir()
	spec := `{"inputs":[{"name":"x","dtype":"float32","shape":[-1]}],"outputs":[{"name":"x","dtype":"float32","shape":[-1]}]}`
	if err := os.WriteFile(filepath.Join(dir, "m.onnx"), []byte("fake"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "m.onnx.iospec.json"), []byte(spec), 0o644); err != nil {
		t.Fatalf("write iospec: %v", err)
	}

	sink := metrics.New(nil)
	reg := registry.New(registry.Config{Directory: dir}, session.NewDefaultBackend(), obslog.Nop(), sink)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	var exec *batch.Executor
	if batching {
		exec = batch.New(batch.Config{MaxBatchSize: 4, MinBatchSize: 1, MaxWait: 5 * time.Millisecond}, reg.RunInference, obslog.Nop(), sink)
		exec.Start()
	}

	d := Deps{
		Registry:        reg,
		Executor:        exec,
		Metrics:         sink,
		Log:             obslog.Nop(),
		BatchingEnabled: batching,
		StartTime:       time.Now(),
		BaseContext:     context.Background(),
	}
	cleanup := func() {
		if exec != nil {
			exec.Stop()
		}
		_ = reg.Close()
	}
	return d, cleanup
}

func TestIndexHandler(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestModelsHandler(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGetModelNotFound(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestHealthAndReady(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ready status=%d", w.Code)
	}
}

func inferBody() []byte {
	req := struct {
		Inputs map[string]interface{} `json:"inputs"`
	}{
		Inputs: map[string]interface{}{
			"x": map[string]interface{}{"dtype": "float32", "shape": []int64{2}, "float32_data": []float32{1, 2}},
		},
	}
	b, _ := json.Marshal(req)
	return b
}

func TestInferDirect(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	req := httptest.NewRequest(http.MethodPost, "/v1/models/m/infer", bytes.NewReader(inferBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestInferThroughExecutor(t *testing.T) {
	d, cleanup := newTestDeps(t, true)
	defer cleanup()
	r := NewMux(d)
	req := httptest.NewRequest(http.MethodPost, "/v1/models/m/infer", bytes.NewReader(inferBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		ModelName string `json:"model_name"`
		Outputs   map[string]struct {
			Float32Data []float32 `json:"float32_data"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ModelName != "m" {
		t.Fatalf("model_name = %q", resp.ModelName)
	}
	if len(resp.Outputs["x"].Float32Data) != 2 {
		t.Fatalf("unexpected outputs: %+v", resp.Outputs)
	}
}

func TestInferModelNotFound(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	req := httptest.NewRequest(http.MethodPost, "/v1/models/nope/infer", bytes.NewReader(inferBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestInferBadJSON(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	req := httptest.NewRequest(http.MethodPost, "/v1/models/m/infer", bytes.NewBufferString("not-json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestInferUnsupportedMediaType(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	req := httptest.NewRequest(http.MethodPost, "/v1/models/m/infer", bytes.NewReader(inferBody()))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	d, cleanup := newTestDeps(t, true)
	defer cleanup()
	r := NewMux(d)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReloadModel(t *testing.T) {
	d, cleanup := newTestDeps(t, false)
	defer cleanup()
	r := NewMux(d)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/models/m/reload", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
