package compress

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineFailed matches any engine run that exited with a non-zero code.
	ErrEngineFailed = errors.New("engine failed")

	// ErrMalformedPayload is returned when the engine exited cleanly but its
	// standard output is not a JSON array.
	ErrMalformedPayload = errors.New("malformed engine output")

	// ErrOutputTooLarge is returned when the engine writes more than Options.MaxOutput bytes.
	ErrOutputTooLarge = errors.New("engine output exceeds limit")

	// ErrNotDirectory is returned when the target path is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrEngineNotFound is returned when no engine executable could be located.
	ErrEngineNotFound = errors.New("engine executable not found")
)

// EngineError carries the exit code of a failed engine run.
// The engine's own stderr is the only failure detail, so Error() stays terse.
type EngineError struct {
	Code int
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine exited with code %d", e.Code)
}

// Is reports ErrEngineFailed as a match.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngineFailed
}
