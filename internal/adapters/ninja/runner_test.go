package ninja_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cuv/internal/adapters/ninja"
	"go.trai.ch/cuv/internal/core/domain"
)

type bufferVertex struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (v *bufferVertex) Stdout() io.Writer { return &v.stdout }
func (v *bufferVertex) Stderr() io.Writer { return &v.stderr }
func (v *bufferVertex) Complete(error)    {}
func (v *bufferVertex) Cached()           {}

// fakeTool writes a stand-in executor script and points CUV_NINJA at it.
func fakeTool(t *testing.T, script string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-ninja")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o700))
	t.Setenv(ninja.ToolEnvVar, path)
}

// quietRunner builds a Runner whose process streams land in buffers instead
// of the test's stdout and stderr.
func quietRunner() (*ninja.Runner, *bytes.Buffer, *bytes.Buffer) {
	r := ninja.NewRunner()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	r.SetOutput(stdout, stderr)
	return r, stdout, stderr
}

func TestRunner_Success(t *testing.T) {
	fakeTool(t, `echo "building $@"`)

	r, _, _ := quietRunner()
	vtx := &bufferVertex{}
	err := r.Run(context.Background(), domain.NewLayout("build"), 4, vtx)
	require.NoError(t, err)
	assert.Contains(t, vtx.stdout.String(), "-C build -j 4")
}

func TestRunner_ExecutorFailure(t *testing.T) {
	fakeTool(t, `echo "FAILED: something" >&2; exit 1`)

	r, _, _ := quietRunner()
	vtx := &bufferVertex{}
	err := r.Run(context.Background(), domain.NewLayout("build"), 0, vtx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildRunnerFailed))
	assert.Contains(t, vtx.stderr.String(), "FAILED: something")
}

func TestRunner_StreamsReachProcessOutput(t *testing.T) {
	fakeTool(t, `echo "progress line"; echo "error: bad import" >&2; exit 1`)

	// Diagnostics must land on the runner's own streams, not only on the
	// telemetry vertex, so they stay visible without a renderer attached.
	r, stdout, stderr := quietRunner()
	err := r.Run(context.Background(), domain.NewLayout("build"), 0, &bufferVertex{})
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "progress line")
	assert.Contains(t, stderr.String(), "error: bad import")
}

func TestRunner_ToolMissing(t *testing.T) {
	t.Setenv(ninja.ToolEnvVar, filepath.Join(t.TempDir(), "does-not-exist"))

	r, _, _ := quietRunner()
	err := r.Run(context.Background(), domain.NewLayout("build"), 0, &bufferVertex{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildRunnerFailed))
}
