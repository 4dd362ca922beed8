package registry

import (
	"strings"
	"testing"
)

func TestModelNotFoundMessage(t *testing.T) {
	err := ErrModelNotFound("ghost")
	if !IsModelNotFound(err) {
		t.Fatalf("expected IsModelNotFound true")
	}
	if !strings.Contains(err.Error(), "Model not found: ghost") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestModelNotReadyMessage(t *testing.T) {
	err := ErrModelNotReady("ghost", "loading")
	if !IsModelNotReady(err) {
		t.Fatalf("expected IsModelNotReady true")
	}
}
