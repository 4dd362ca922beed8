package httpapi

import (
	"context"
	"testing"
	"time"
)

func TestJoinContextsCancelsOnEither(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	b, cancelB := context.WithCancel(context.Background())
	defer cancelB()

	joined, cancel := joinContexts(a, b)
	defer cancel()

	cancelA()
	select {
	case <-joined.Done():
	case <-time.After(time.Second):
		t.Fatal("joined context did not cancel when a canceled")
	}
}

func TestJoinContextsCancelFuncStopsGoroutine(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	b, cancelB := context.WithCancel(context.Background())
	defer cancelB()

	joined, cancel := joinContexts(a, b)
	cancel()
	select {
	case <-joined.Done():
	case <-time.After(time.Second):
		t.Fatal("joined context did not cancel when cancel() was called")
	}
}
