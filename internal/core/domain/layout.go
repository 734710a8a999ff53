package domain

import "path/filepath"

const (
	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "cproject.toml"

	// DefaultBuildDirName is the default build directory name.
	DefaultBuildDirName = "build"

	// ObjectsDirName holds compiled object files inside the build directory.
	ObjectsDirName = "objects"

	// ModuleCacheDirName holds precompiled binary module interfaces.
	ModuleCacheDirName = "module_cache"

	// TargetsDirName holds linked target artifacts.
	TargetsDirName = "targets"

	// BuildFileName is the emitted build executor file.
	BuildFileName = "build.ninja"

	// CacheFileName is the persisted fingerprint manifest.
	CacheFileName = "cuv-cache.yaml"

	// BMISuffix is the binary module interface artifact extension.
	BMISuffix = ".pcm"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout computes artifact paths inside the build directory. All returned
// paths are relative to the build directory, matching the working directory
// the build executor runs in.
type Layout struct {
	// BuildDir is the build directory, relative to the project root.
	BuildDir string
}

// NewLayout creates a Layout for the given build directory.
func NewLayout(buildDir string) Layout {
	if buildDir == "" {
		buildDir = DefaultBuildDirName
	}
	return Layout{BuildDir: buildDir}
}

// BuildFilePath returns the build.ninja path relative to the project root.
func (l Layout) BuildFilePath() string {
	return filepath.Join(l.BuildDir, BuildFileName)
}

// CacheFilePath returns the fingerprint manifest path relative to the project root.
func (l Layout) CacheFilePath() string {
	return filepath.Join(l.BuildDir, CacheFileName)
}

// ObjectPath returns the object artifact path for a source file. The source
// extension is kept so an interface unit and a same-named implementation
// unit (m.cppm and m.cpp) never collide on one object.
func (l Layout) ObjectPath(source string) string {
	return filepath.ToSlash(filepath.Join(ObjectsDirName, source+".o"))
}

// BMIPath returns the binary module interface artifact path for a module key.
// Partition separators are flattened so the artifact name is filesystem-safe.
func (l Layout) BMIPath(key ModuleKey) string {
	name := key.Name.String()
	if key.IsPartition() {
		name += "-" + key.Partition.String()
	}
	return filepath.ToSlash(filepath.Join(ModuleCacheDirName, name+BMISuffix))
}

// TargetPath returns the linked artifact path for a target.
func (l Layout) TargetPath(t Target) string {
	name := t.Name.String()
	if t.Kind == TargetLibrary {
		name = "lib" + name + ".a"
	}
	return filepath.ToSlash(filepath.Join(TargetsDirName, name))
}

// ArtifactDirs lists the directories that must exist before the executor runs.
func (l Layout) ArtifactDirs() []string {
	return []string{
		filepath.Join(l.BuildDir, ObjectsDirName),
		filepath.Join(l.BuildDir, ModuleCacheDirName),
		filepath.Join(l.BuildDir, TargetsDirName),
	}
}
