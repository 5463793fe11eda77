// Package system integrates with the host OS: platform gating, external
// command availability, and handing the terminal over to the system top
// viewer.
package system

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// goos is read instead of runtime.GOOS directly so tests can exercise the
// non-darwin path.
var goos = runtime.GOOS

// PlatformError reports that macmon was started on an unsupported OS. It is
// fatal, checked once at startup, before any collection begins.
type PlatformError struct {
	OS string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("macmon requires macOS, running on %s", e.OS)
}

// MissingCommandError reports a required external command absent from PATH.
type MissingCommandError struct {
	Name string
}

func (e *MissingCommandError) Error() string {
	return fmt.Sprintf("required command %q not found in PATH", e.Name)
}

// CheckPlatform returns a PlatformError unless running on macOS.
func CheckPlatform() error {
	if goos != "darwin" {
		return &PlatformError{OS: goos}
	}
	return nil
}

// CommandAvailable reports whether name resolves on PATH.
func CommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// InvokeTop execs the system top viewer with the given arguments forwarded
// verbatim, inheriting the terminal, and returns top's exit code. A missing
// binary yields a MissingCommandError.
func InvokeTop(args []string) (int, error) {
	if !CommandAvailable("top") {
		return 0, &MissingCommandError{Name: "top"}
	}
	cmd := exec.Command("top", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("run top: %w", err)
	}
	return 0, nil
}
