package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"onnxd/pkg/types"
)

func (h *handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.ServerInfo{Name: "onnxd", Version: "1.0"})
}

func (h *handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handlers) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if h.d.Registry.Count() > 0 {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("loading"))
}

func (h *handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := "ready"
	if h.d.Registry.Count() == 0 {
		state = "loading"
	}
	queueDepth := 0
	avgBatch := 0.0
	if h.d.Executor != nil {
		queueDepth = h.d.Executor.QueueSize()
	}
	if h.d.Metrics != nil {
		avgBatch = h.d.Metrics.AverageBatchSizeValue()
	}
	resp := types.StatusResponse{
		State:            state,
		BatchingEnabled:  h.d.BatchingEnabled,
		QueueDepth:       queueDepth,
		AverageBatchSize: avgBatch,
		LoadedModels:     h.d.Registry.Count(),
		UptimeSeconds:    int64(time.Since(h.d.StartTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
