package ports

// Hasher defines the interface for computing fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile computes the content fingerprint of a file.
	HashFile(path string) (string, error)

	// HashStrings computes a single fingerprint over an ordered list of
	// strings, used for compile-command hashes and BMI fingerprints.
	HashStrings(parts ...string) string
}
