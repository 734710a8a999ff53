package domain

// TargetKind distinguishes linkable target flavors.
type TargetKind string

const (
	// TargetExecutable links objects into an executable binary.
	TargetExecutable TargetKind = "executable"
	// TargetLibrary archives objects into a static library.
	TargetLibrary TargetKind = "library"
)

// Toolchain holds the resolved tool paths for compilation and archiving.
type Toolchain struct {
	CXX string
	AR  string
}

// Target is one resolved build target: concrete, glob-expanded source paths
// and a kind. The configuration collaborator produces these; the core never
// parses configuration files itself.
type Target struct {
	Name    InternedString
	Kind    TargetKind
	Sources []InternedString
}

// Project is the resolved project description consumed by the planner.
type Project struct {
	Name      string
	Version   string
	Root      string
	BuildType string
	Dialect   string
	Toolchain Toolchain
	Targets   []Target
}
