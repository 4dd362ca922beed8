package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onnxd/internal/registry"
	"onnxd/pkg/types"
)

func (h *handlers) handleListModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.ModelsResponse{Models: h.d.Registry.List()})
}

func (h *handlers) handleGetModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := h.d.Registry.Get(name)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "model not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}

func (h *handlers) handleReloadModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx, cancel := joinContexts(h.d.BaseContext, r.Context())
	defer cancel()
	info, err := h.d.Registry.Reload(ctx, name)
	if err != nil {
		if registry.IsModelNotFound(err) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.ReloadResponse{Model: info})
}
