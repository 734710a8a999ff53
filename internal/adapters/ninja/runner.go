package ninja

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultTool is the external build executor binary.
	DefaultTool = "ninja"

	// ToolEnvVar overrides the executor binary path.
	ToolEnvVar = "CUV_NINJA"
)

var _ ports.BuildRunner = (*Runner)(nil)

// Runner implements ports.BuildRunner by invoking ninja on the emitted
// build file. Executor output is teed to the process streams and the
// telemetry vertex, so compiler diagnostics reach the user as they are
// produced even when no renderer consumes the vertex.
type Runner struct {
	tool   string
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a ninja Runner, honoring the CUV_NINJA override.
func NewRunner() *Runner {
	tool := os.Getenv(ToolEnvVar)
	if tool == "" {
		tool = DefaultTool
	}
	return &Runner{
		tool:   tool,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetOutput redirects the executor's streams. Used for testing.
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// Run executes ninja in the build directory with the given parallelism.
func (r *Runner) Run(ctx context.Context, layout domain.Layout, jobs int, vtx ports.Vertex) error {
	args := []string{"-C", layout.BuildDir}
	if jobs > 0 {
		args = append(args, "-j", strconv.Itoa(jobs))
	}

	//nolint:gosec // Build directory comes from the trusted invocation options
	cmd := exec.CommandContext(ctx, r.tool, args...)
	cmd.Stdout = io.MultiWriter(r.stdout, vtx.Stdout())
	cmd.Stderr = io.MultiWriter(r.stderr, vtx.Stderr())

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return zerr.With(
				zerr.With(zerr.Wrap(domain.ErrBuildRunnerFailed, "executor binary not found"), "tool", r.tool),
				"cause", "executor binary not found",
			)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return zerr.With(
				zerr.With(zerr.Wrap(domain.ErrBuildRunnerFailed, "executor exited nonzero"), "exit_code", exitErr.ExitCode()),
				"build_dir", layout.BuildDir,
			)
		}

		return zerr.With(
			zerr.With(zerr.Wrap(domain.ErrBuildRunnerFailed, err.Error()), "build_dir", layout.BuildDir),
			"cause", err.Error(),
		)
	}

	return nil
}
