package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"onnxd/pkg/types"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.ModelsResponse{Models: []types.ModelInfo{{Name: "m", State: "ready"}}})
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	var resp types.ModelsResponse
	if err := c.get("/v1/models", &resp); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(resp.Models) != 1 || resp.Models[0].Name != "m" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientGetErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: types.ErrorBody{Code: http.StatusNotFound, Message: "model not found"}})
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	var resp types.ModelInfo
	err := c.get("/v1/models/missing", &resp)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestClientPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.InferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(req.Inputs) != 1 {
			t.Fatalf("inputs = %v", req.Inputs)
		}
		_ = json.NewEncoder(w).Encode(types.InferResponse{ModelName: "m"})
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	var resp types.InferResponse
	body := types.InferRequest{Inputs: map[string]types.Tensor{"x": {DType: "float32", Shape: []int64{1}, Float32Data: []float32{1}}}}
	if err := c.post("/v1/models/m/infer", body, &resp); err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.ModelName != "m" {
		t.Fatalf("model_name = %q", resp.ModelName)
	}
}
