package batch

// stoppedError reports that a request was submitted after Stop began.
type stoppedError struct{}

func (stoppedError) Error() string { return "batch: executor is shutting down" }

// ErrStopped constructs a stopped error.
func ErrStopped() error { return stoppedError{} }

// IsStopped reports whether err is a stopped error.
func IsStopped(err error) bool {
	_, ok := err.(stoppedError)
	return ok
}
