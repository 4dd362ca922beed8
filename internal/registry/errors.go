package registry

import "fmt"

// modelNotFoundError reports a lookup against a name the registry has
// never loaded. Unexported, paired with a predicate and constructor, the
// error idiom this codebase uses instead of exported sentinel error types.
type modelNotFoundError struct{ name string }

func (e *modelNotFoundError) Error() string { return fmt.Sprintf("Model not found: %s", e.name) }

// ErrModelNotFound constructs a model-not-found error for name.
func ErrModelNotFound(name string) error { return &modelNotFoundError{name: name} }

// IsModelNotFound reports whether err is a model-not-found error.
func IsModelNotFound(err error) bool {
	_, ok := err.(*modelNotFoundError)
	return ok
}

// modelNotReadyError reports that a model exists but failed to load, or is
// still loading, and therefore cannot serve inference yet.
type modelNotReadyError struct {
	name  string
	state string
}

func (e *modelNotReadyError) Error() string {
	return fmt.Sprintf("model %q is not ready (state=%s)", e.name, e.state)
}

// ErrModelNotReady constructs a model-not-ready error.
func ErrModelNotReady(name, state string) error { return &modelNotReadyError{name: name, state: state} }

// IsModelNotReady reports whether err is a model-not-ready error.
func IsModelNotReady(err error) bool {
	_, ok := err.(*modelNotReadyError)
	return ok
}
