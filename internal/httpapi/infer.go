package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"onnxd/internal/batch"
	"onnxd/internal/registry"
	"onnxd/internal/session"
	"onnxd/internal/tensor"
	"onnxd/pkg/types"
)

func (h *handlers) handleInfer(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "name")

	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var wire types.InferRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(wire.Inputs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "inputs is required")
		return
	}

	inputs, err := tensor.FromWireMap(wire.Inputs)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := joinContexts(h.d.BaseContext, r.Context())
	defer cancel()

	lvl := requestLogLevel(r, h.d.DefaultLogLevel)
	start := time.Now()
	if lvl >= LevelInfo {
		h.d.Log.Info().Str("model", model).Msg("infer start")
	}

	var outputs map[string]tensor.Tensor
	var timing types.InferTiming
	if h.d.BatchingEnabled && h.d.Executor != nil {
		outputs, timing, err = h.d.Executor.Submit(ctx, model, inputs)
	} else {
		runStart := time.Now()
		outputs, err = h.d.Registry.RunInference(ctx, model, inputs)
		timing = types.InferTiming{InferenceMS: float64(time.Since(runStart).Milliseconds())}
	}

	if err != nil {
		status := statusFor(err)
		writeJSONError(w, status, err.Error())
		if lvl >= LevelInfo {
			h.d.Log.Info().Str("model", model).Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("infer end")
		}
		return
	}

	resp := types.InferResponse{ModelName: model, Outputs: tensor.ToWireMap(outputs), Timing: timing}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	if lvl >= LevelInfo {
		h.d.Log.Info().Str("model", model).Int("status", http.StatusOK).Dur("dur", time.Since(start)).Msg("infer end")
	}
}

func statusFor(err error) int {
	switch {
	case registry.IsModelNotFound(err):
		return http.StatusNotFound
	case registry.IsModelNotReady(err):
		return http.StatusServiceUnavailable
	case batch.IsStopped(err):
		return http.StatusInternalServerError
	case session.IsIOMismatch(err):
		return http.StatusBadRequest
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}
