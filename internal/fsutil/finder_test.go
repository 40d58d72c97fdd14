package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScripts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"b.hcl", "a.hcl", "notes.txt", "nested/c.hcl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0600))
	}

	files, err := FindScripts(dir)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl"),
	}
	assert.Equal(t, want, files, "scripts should be sorted and recursive, ignoring other files")
}

func TestFindScriptsEmptyDir(t *testing.T) {
	t.Parallel()

	files, err := FindScripts(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindScriptsMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := FindScripts(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestIsScript(t *testing.T) {
	t.Parallel()

	assert.True(t, IsScript("terrain.hcl"))
	assert.True(t, IsScript("/abs/path/x.hcl"))
	assert.False(t, IsScript("terrain.hcl.bak"))
	assert.False(t, IsScript("terrain.txt"))
	assert.False(t, IsScript("hcl"))
}
