package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Stdio connects the launched process to the caller's streams.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Execute runs cmd and waits for it. The child's exit status is returned as
// the exit code; a non-zero status is not an error. A child killed by a
// signal reports 128+signal like a shell does.
func Execute(ctx context.Context, cmd Command, stdio Stdio) (int, error) {
	if cmd.Path == "" {
		return 0, errors.New("no Proton path in profile")
	}
	if err := unix.Access(cmd.Path, unix.X_OK); err != nil {
		return 0, fmt.Errorf("proton %s is not executable: %w", cmd.Path, err)
	}

	//nolint:gosec // Relaunching Proton is this tool's purpose
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Env = cmd.Env
	c.Stdin = stdio.Stdin
	c.Stdout = stdio.Stdout
	c.Stderr = stdio.Stderr

	if err := c.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", cmd.Path, err)
	}

	err := c.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, fmt.Errorf("waiting for %s: %w", cmd.Path, err)
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}
