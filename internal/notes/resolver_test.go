package notes

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	dir := t.TempDir()
	content := []byte("algebra notes, chapter 1")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "algebra.pdf"), content, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	resolver := NewResolver(dir)

	t.Run("existing file is opened with correct size", func(t *testing.T) {
		note, err := resolver.Resolve("algebra.pdf")
		require.NoError(t, err)
		defer note.File.Close()

		require.Equal(t, "algebra.pdf", note.Name)
		require.Equal(t, int64(len(content)), note.Size)

		got, err := io.ReadAll(note.File)
		require.NoError(t, err)
		require.Equal(t, content, got)
	})

	t.Run("missing file returns ErrFileNotFound", func(t *testing.T) {
		note, err := resolver.Resolve("missing.pdf")
		require.ErrorIs(t, err, ErrFileNotFound)
		require.Nil(t, note)
	})

	t.Run("directory is not a note", func(t *testing.T) {
		note, err := resolver.Resolve("subdir")
		require.ErrorIs(t, err, ErrFileNotFound)
		require.Nil(t, note)
	})

	t.Run("traversal and malformed names are rejected", func(t *testing.T) {
		tests := []struct {
			name     string
			filename string
		}{
			{"empty", ""},
			{"dot", "."},
			{"dot dot", ".."},
			{"parent traversal", "../secret.txt"},
			{"deep traversal", "../../etc/passwd"},
			{"forward slash", "subdir/algebra.pdf"},
			{"backslash", "subdir\\algebra.pdf"},
			{"absolute path", "/etc/passwd"},
			{"dot dot with name", "..algebra/../x"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				note, err := resolver.Resolve(tt.filename)
				require.ErrorIs(t, err, ErrInvalidFilename)
				require.Nil(t, note)
			})
		}
	})

	t.Run("dotfile inside the directory is allowed", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

		note, err := resolver.Resolve(".hidden")
		require.NoError(t, err)
		note.File.Close()
	})
}
