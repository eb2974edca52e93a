package compress

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// EngineName is the file name of the engine executable.
const EngineName = "engine"

// LocateEngine resolves the engine executable.
//
// An explicit path wins and is only checked for existence. Otherwise the
// engine is looked up in a "bin" directory next to the running executable,
// and finally on PATH.
func LocateEngine(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %w", ErrEngineNotFound, err)
		}

		return filepath.Abs(explicit)
	}

	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), "bin", EngineName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	path, err := exec.LookPath(EngineName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEngineNotFound, err)
	}

	return path, nil
}
