// Package quarto shells out to the Quarto CLI for previewing decks.
package quarto

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrUnavailable reports that the quarto binary could not be found on PATH.
var ErrUnavailable = errors.New("quarto not available")

// Runner executes quarto commands. Tests substitute a fake so they do not
// need a quarto install.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) error
}

// ExecRunner invokes the real quarto binary with inherited stdio so render
// progress and the preview server log reach the terminal.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "quarto", args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return fmt.Errorf("quarto %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// Preview starts the Quarto preview server in dir. It blocks until the
// server exits or ctx is cancelled.
func Preview(ctx context.Context, r Runner, dir string) error {
	return r.Run(ctx, dir, "preview")
}
