// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It runs the real command tree against an isolated project directory and
// captures what the user would see.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/cognisync/internal/cli"
	"github.com/klauern/cognisync/internal/model"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness runs CLI commands against one isolated project.
type Harness struct {
	t       *testing.T
	homeDir string
	project string
}

// NewHarness creates a harness with a fresh HOME and project directory.
// Commands find the project through COGNISYNC_PROJECT.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{
		t:       t,
		homeDir: t.TempDir(),
		project: t.TempDir(),
	}
	t.Setenv("HOME", h.homeDir)
	t.Setenv("COGNISYNC_PROJECT", h.project)
	return h
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// Project returns the project root.
func (h *Harness) Project() string {
	return h.project
}

// Store returns the canonical store of the project.
func (h *Harness) Store() string {
	return filepath.Join(h.project, ".cognisync")
}

// ProviderPath joins elem onto the default root of a provider.
func (h *Harness) ProviderPath(p model.Provider, elem ...string) string {
	layout, _ := p.Layout()
	return filepath.Join(append([]string{h.project, layout.Root}, elem...)...)
}

// Run executes a CLI command with the given arguments and captures stdout.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	args = append([]string{"cognisync", "--no-color"}, args...)

	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Drain concurrently so large output cannot fill the pipe buffer.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdout = oldStdout

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdoutBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}
