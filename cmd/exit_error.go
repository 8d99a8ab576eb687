package cmd

import "fmt"

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode clamps a finding count to a status the shell can see as failure
func exitCode(count int) int {
	switch {
	case count <= 0:
		return 0
	case count > 255:
		return 255
	}
	return count
}
