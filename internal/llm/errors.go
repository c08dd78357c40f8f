package llm

import (
	"errors"
	"fmt"
)

// The three failure kinds that cross the package boundary. Everything finer
// grained (a single model failing its probe, a malformed tags response) is
// absorbed into the health map and never surfaces as an error.
var (
	// ErrServiceUnavailable means the Ollama endpoint could not be reached
	// at all. Fatal to initialization.
	ErrServiceUnavailable = errors.New("ollama service unavailable")

	// ErrNoModelsInstalled means the endpoint is reachable but reports zero
	// installed models. Fatal to initialization.
	ErrNoModelsInstalled = errors.New("no models installed")

	// ErrNoWorkingModel means models are installed but none passed its
	// liveness probe, or health degraded after initialization. Fatal to the
	// call that needs a handle, not to the process.
	ErrNoWorkingModel = errors.New("no working model")
)

// ResolveError wraps one of the sentinel kinds with a remediation hint the
// CLI and web layers print to the user. Match the kind with errors.Is.
type ResolveError struct {
	Kind error
	Hint string
}

func (e *ResolveError) Error() string {
	return e.Kind.Error()
}

func (e *ResolveError) Unwrap() error {
	return e.Kind
}

func resolveErr(kind error, hintFormat string, args ...any) *ResolveError {
	return &ResolveError{Kind: kind, Hint: fmt.Sprintf(hintFormat, args...)}
}

// Hint returns the remediation hint attached to err, if any.
func Hint(err error) string {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Hint
	}
	return ""
}
