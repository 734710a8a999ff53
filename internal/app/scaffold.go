package app

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/zerr"
)

const projectTemplate = `[project]
name = "%NAME%"
version = "0.1.0"

[build-system]
build_type = "debug"
dialect = "c++20"

[build-system.toolchain]
CXX_COMPILER = "clang++"
AR = "llvm-ar"

[build-system.targets.%NAME%]
type = "executable"
sources = ["src/*.cpp", "src/*.cppm"]
`

const mainTemplate = `import hello;

int main() {
    greet();
    return 0;
}
`

const moduleTemplate = `module;

#include <cstdio>

export module hello;

export void greet() {
    std::puts("hello from %NAME%");
}
`

// Scaffold creates a new project skeleton: a project file, a module
// interface unit and a main source importing it.
func (a *App) Scaffold(name string) error {
	if name == "" {
		return zerr.New("project name is required")
	}
	if _, err := os.Stat(name); err == nil {
		return zerr.With(zerr.New("directory already exists"), "path", name)
	}

	if err := os.MkdirAll(filepath.Join(name, "src"), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create project directory")
	}

	files := map[string]string{
		filepath.Join(name, domain.ProjectFileName): projectTemplate,
		filepath.Join(name, "src", "main.cpp"):      mainTemplate,
		filepath.Join(name, "src", "hello.cppm"):    moduleTemplate,
	}
	for path, content := range files {
		rendered := strings.ReplaceAll(content, "%NAME%", name)
		if err := os.WriteFile(path, []byte(rendered), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write project file"), "path", path)
		}
	}

	a.logger.Info("created project " + name)
	return nil
}
