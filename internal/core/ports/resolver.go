package ports

// InputResolver resolves source patterns to concrete file paths.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs expands the given glob patterns relative to root and
	// returns a sorted, de-duplicated list of file paths.
	ResolveInputs(patterns []string, root string) ([]string, error)
}
