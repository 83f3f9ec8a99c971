// Package gitver reads figure history out of git. All git access goes
// through a subprocess runner narrow enough to fake in tests.
package gitver

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ErrUnavailable reports that the git binary could not be invoked at all,
// as opposed to git running and failing.
var ErrUnavailable = errors.New("git is not available")

// Runner executes git with the given arguments and returns its stdout.
type Runner interface {
	Run(args ...string) ([]byte, error)
}

// ExecRunner runs git as a subprocess in a fixed working directory.
// Stdout is returned raw so binary blob contents survive.
type ExecRunner struct {
	Dir string
}

func (r *ExecRunner) Run(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// Client answers history questions about files in a deck directory.
type Client struct {
	runner Runner
}

// NewClient creates a client running git inside dir.
func NewClient(dir string) *Client {
	return &Client{runner: &ExecRunner{Dir: dir}}
}

// NewClientWithRunner creates a client with a custom runner.
func NewClientWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// Init creates a git repository in the client's directory. Running it on
// an existing repository is harmless; git init is idempotent.
func (c *Client) Init() error {
	_, err := c.runner.Run("init")
	return err
}
