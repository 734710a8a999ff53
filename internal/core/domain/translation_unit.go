package domain

// TranslationUnit describes a single source file scheduled for compilation.
// It is immutable once scanned for a given invocation.
type TranslationUnit struct {
	// Path is the source path relative to the project root.
	Path InternedString

	// Target is the name of the target that owns this unit.
	Target InternedString

	// Dialect is the language dialect, e.g. "c++20".
	Dialect string

	// Flags is the compile-flag set used for both scanning and compilation.
	Flags []string

	// ContentHash is the fingerprint of the file content.
	ContentHash string

	// CommandHash is the fingerprint of the full compile command.
	CommandHash string
}

// ModuleDeclaration carries the module facts reported by the scanner for one unit.
type ModuleDeclaration struct {
	// Provides is the module key this unit provides, or nil for non-module units.
	Provides *ModuleKey

	// IsInterface reports whether the provided module is an interface unit.
	IsInterface bool

	// Requires lists the module references imported by this unit,
	// in the order reported by the scanner.
	Requires []ModuleKey
}

// DependencyRecord is the scan result for one translation unit: the unit
// itself, its module declaration, and its classic header dependencies.
type DependencyRecord struct {
	Unit     TranslationUnit
	Module   ModuleDeclaration
	Includes []InternedString
}

// ProvidesModule reports whether this record declares a module.
func (r *DependencyRecord) ProvidesModule() bool {
	return r.Module.Provides != nil
}
