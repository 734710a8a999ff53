package config

// projectFile mirrors the cproject.toml structure on disk. Field values are
// validated and glob-expanded before anything reaches the domain.
type projectFile struct {
	Project     projectSection `toml:"project"`
	BuildSystem buildSection   `toml:"build-system"`
}

type projectSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type buildSection struct {
	BuildType string                   `toml:"build_type"`
	Dialect   string                   `toml:"dialect"`
	Toolchain toolchainSection         `toml:"toolchain"`
	Targets   map[string]targetSection `toml:"targets"`
}

type toolchainSection struct {
	CXXCompiler string `toml:"CXX_COMPILER"`
	AR          string `toml:"AR"`
}

type targetSection struct {
	Type    string   `toml:"type"`
	Sources []string `toml:"sources"`
}
