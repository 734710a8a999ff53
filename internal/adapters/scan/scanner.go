// Package scan provides the external dependency scanner adapter.
package scan

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultTool is the external scanner binary.
	DefaultTool = "clang-scan-deps"

	// ToolEnvVar overrides the scanner binary path.
	ToolEnvVar = "CUV_SCANNER"

	// defaultTimeout bounds a single scanner process.
	defaultTimeout = 2 * time.Minute

	// spawnRetries is the fixed retry budget for transient spawn failures.
	spawnRetries = 3

	// spawnBackoff is the base backoff between spawn retries.
	spawnBackoff = 50 * time.Millisecond
)

var _ ports.DependencyScanner = (*ClangScanner)(nil)

// ClangScanner invokes clang-scan-deps per translation unit and parses its
// P1689 output into a dependency record.
type ClangScanner struct {
	tool    string
	timeout time.Duration
}

// NewScanner creates a ClangScanner, honoring the CUV_SCANNER override.
func NewScanner() *ClangScanner {
	tool := os.Getenv(ToolEnvVar)
	if tool == "" {
		tool = DefaultTool
	}
	return &ClangScanner{
		tool:    tool,
		timeout: defaultTimeout,
	}
}

// Scan runs the scanner for one unit. Tool and process failures are
// deterministic for a given input and are not retried; only transient spawn
// failures (resource exhaustion at fork time) consume the retry budget.
func (s *ClangScanner) Scan(ctx context.Context, unit *domain.TranslationUnit) (*domain.DependencyRecord, error) {
	var lastErr error
	for attempt := 0; attempt <= spawnRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(spawnBackoff * time.Duration(attempt)):
			}
		}

		output, err := s.invoke(ctx, unit)
		if err == nil {
			return parseRecord(unit, output)
		}
		if !isTransientSpawn(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// invoke spawns one scanner process and classifies its failure mode.
func (s *ClangScanner) invoke(ctx context.Context, unit *domain.TranslationUnit) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append([]string{"-format=p1689", "--"}, unit.Flags...)
	//nolint:gosec // Tool and flags come from the trusted project configuration
	cmd := exec.CommandContext(ctx, s.tool, args...)

	output, err := cmd.Output()
	if err == nil {
		return output, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return nil, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrScannerNotFound, s.tool), "tool", s.tool),
			"unit", unit.Path.String(),
		)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, zerr.With(
			zerr.With(
				zerr.With(zerr.Wrap(domain.ErrScannerProcessFailed, unit.Path.String()),
					"stderr", string(exitErr.Stderr)),
				"exit_code", exitErr.ExitCode()),
			"unit", unit.Path.String(),
		)
	}

	return nil, zerr.With(
		zerr.With(
			zerr.With(zerr.Wrap(domain.ErrScannerProcessFailed, err.Error()), "tool", s.tool),
			"cause", err.Error()),
		"unit", unit.Path.String(),
	)
}

// isTransientSpawn reports whether the error is a resource-exhaustion spawn
// failure worth retrying, distinguished by error kind, not content.
func isTransientSpawn(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.ENOMEM) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
