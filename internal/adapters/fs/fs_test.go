package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cuv/internal/adapters/fs"
	"go.trai.ch/cuv/internal/core/domain"
)

func TestHasher_HashFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int main() {}\n"), 0o600))

	h := fs.NewHasher()

	hash1, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Len(t, hash1, 16)

	hash2, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2, "hashing the same content must be stable")

	require.NoError(t, os.WriteFile(path, []byte("int main() { return 1; }\n"), 0o600))
	hash3, err := h.HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash3, "changed content must change the hash")
}

func TestHasher_HashFile_Missing(t *testing.T) {
	t.Parallel()

	h := fs.NewHasher()
	_, err := h.HashFile(filepath.Join(t.TempDir(), "missing.cpp"))
	require.Error(t, err)
}

func TestHasher_HashStrings(t *testing.T) {
	t.Parallel()

	h := fs.NewHasher()

	assert.Equal(t, h.HashStrings("a", "b"), h.HashStrings("a", "b"))
	assert.NotEqual(t, h.HashStrings("a", "b"), h.HashStrings("ab"),
		"part boundaries must be significant")
	assert.NotEqual(t, h.HashStrings("a", "b"), h.HashStrings("b", "a"),
		"order must be significant")
}

func TestResolver_ResolveInputs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	for _, name := range []string{"src/z.cpp", "src/a.cpp", "src/m.cppm"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("// stub\n"), 0o600))
	}

	r := fs.NewResolver()

	paths, err := r.ResolveInputs([]string{"src/*.cpp", "src/*.cppm"}, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp", "src/m.cppm", "src/z.cpp"}, paths,
		"results must be sorted and relative to root")
}

func TestResolver_ResolveInputs_NoMatches(t *testing.T) {
	t.Parallel()

	r := fs.NewResolver()
	_, err := r.ResolveInputs([]string{"src/*.cpp"}, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoSourcesResolved)
}
