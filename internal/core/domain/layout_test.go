package domain

import "testing"

func TestLayout_Paths(t *testing.T) {
	layout := NewLayout("")

	if layout.BuildDir != DefaultBuildDirName {
		t.Errorf("empty build dir must default to %q, got %q", DefaultBuildDirName, layout.BuildDir)
	}
	if got := layout.BuildFilePath(); got != "build/build.ninja" {
		t.Errorf("unexpected build file path %q", got)
	}
	if got := layout.CacheFilePath(); got != "build/cuv-cache.yaml" {
		t.Errorf("unexpected cache file path %q", got)
	}
	if got := layout.ObjectPath("src/main.cpp"); got != "objects/src/main.cpp.o" {
		t.Errorf("unexpected object path %q", got)
	}
}

func TestLayout_ObjectPath_KeepsExtension(t *testing.T) {
	layout := NewLayout("build")

	// m.cppm plus m.cpp is the usual interface-and-implementation pairing;
	// their objects must not collide.
	iface := layout.ObjectPath("src/m.cppm")
	impl := layout.ObjectPath("src/m.cpp")
	if iface == impl {
		t.Errorf("interface and implementation map to the same object %q", iface)
	}
	if iface != "objects/src/m.cppm.o" {
		t.Errorf("unexpected interface object path %q", iface)
	}
}

func TestLayout_BMIPath(t *testing.T) {
	layout := NewLayout("build")

	if got := layout.BMIPath(NewModuleKey("math")); got != "module_cache/math.pcm" {
		t.Errorf("unexpected BMI path %q", got)
	}
	// Partition separators are flattened for the filesystem.
	if got := layout.BMIPath(NewModuleKey("math:geometry")); got != "module_cache/math-geometry.pcm" {
		t.Errorf("unexpected partition BMI path %q", got)
	}
}

func TestLayout_TargetPath(t *testing.T) {
	layout := NewLayout("build")

	exe := Target{Name: NewInternedString("demo"), Kind: TargetExecutable}
	if got := layout.TargetPath(exe); got != "targets/demo" {
		t.Errorf("unexpected executable path %q", got)
	}

	lib := Target{Name: NewInternedString("core"), Kind: TargetLibrary}
	if got := layout.TargetPath(lib); got != "targets/libcore.a" {
		t.Errorf("unexpected library path %q", got)
	}
}
