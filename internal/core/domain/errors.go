package domain

import "go.trai.ch/zerr"

// The sentinels below are classified with errors.Is. Call sites attach
// context by wrapping the sentinel (zerr.Wrap) and layering metadata on the
// wrapper (zerr.With); zerr.With directly on a sentinel would copy it out of
// the unwrap chain and make it unmatchable.
var (
	// ErrScannerNotFound is returned when the external dependency scanner binary cannot be located.
	ErrScannerNotFound = zerr.New("dependency scanner not found")

	// ErrScannerOutputMalformed is returned when the scanner's structured output cannot be parsed.
	ErrScannerOutputMalformed = zerr.New("malformed scanner output")

	// ErrScannerProcessFailed is returned when the scanner process exits non-zero.
	ErrScannerProcessFailed = zerr.New("scanner process failed")

	// ErrDuplicateModule is returned when the same module key is provided by more than one translation unit.
	ErrDuplicateModule = zerr.New("duplicate module provider")

	// ErrUnresolvedModule is returned when a required module reference has no provider in the project.
	ErrUnresolvedModule = zerr.New("unresolved module reference")

	// ErrModuleCycle is returned when the module dependency graph contains a cycle.
	ErrModuleCycle = zerr.New("cyclic module dependency")

	// ErrEmitFailed is returned when the build file cannot be written.
	ErrEmitFailed = zerr.New("failed to emit build file")

	// ErrBuildRunnerFailed is returned when the external build executor reports failure.
	ErrBuildRunnerFailed = zerr.New("build execution failed")

	// ErrProjectConfigInvalid is returned when the project configuration cannot be loaded or validated.
	ErrProjectConfigInvalid = zerr.New("invalid project configuration")

	// ErrNoSourcesResolved is returned when a target's source patterns match no files.
	ErrNoSourcesResolved = zerr.New("no sources resolved for target")
)
