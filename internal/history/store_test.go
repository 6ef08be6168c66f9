package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "history.json"))

	require.NoError(t, store.Load())
	assert.Equal(t, 0, store.Len())
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	store := New(path)

	require.NoError(t, store.Load())
	assert.Equal(t, 0, store.Len())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0644))

	store := New(path)
	store.Add("https://example.com/stale")

	err := store.Load()

	require.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, 0, store.Len())
}

func TestLoadReadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`["https://b.example/2", "https://a.example/1"]`), 0644))

	store := New(path)

	require.NoError(t, store.Load())
	assert.True(t, store.Has("https://a.example/1"))
	assert.True(t, store.Has("https://b.example/2"))
	assert.False(t, store.Has("https://c.example/3"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	ids := []string{"https://news.example/3", "https://news.example/1", "https://news.example/2"}

	store := New(path)
	store.Add(ids...)
	require.NoError(t, store.Save())

	reloaded := New(path)
	require.NoError(t, reloaded.Load())

	assert.ElementsMatch(t, ids, reloaded.IDs())
}

func TestSaveWritesSortedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store := New(path)
	store.Add("b", "a", "c")
	require.NoError(t, store.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b","c"]`, string(data))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`["kept"]`), 0644))

	store := New(path)
	require.NoError(t, store.Load())
	store.Add("new")
	require.NoError(t, store.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history.json", entries[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["kept","new"]`, string(data))
}

func TestSaveErrorsWhenDirectoryMissing(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing-dir", "history.json"))
	store.Add("new")

	require.Error(t, store.Save())
}

func assertHistoryKept(t *testing.T, dir, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["kept"]`, string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFailedReplaceKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`["kept"]`), 0644))

	orig := replaceFile
	replaceFile = func(oldpath, newpath string) error {
		return errors.New("rename interrupted")
	}
	t.Cleanup(func() { replaceFile = orig })

	store := New(path)
	require.NoError(t, store.Load())
	store.Add("new")

	err := store.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename interrupted")
	assertHistoryKept(t, dir, path)
}

func TestFailedSaveInReadOnlyDirKeepsPreviousFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`["kept"]`), 0644))
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	store := New(path)
	require.NoError(t, store.Load())
	store.Add("new")

	require.Error(t, store.Save())
	assertHistoryKept(t, dir, path)
}

func TestAddIgnoresEmptyAndDuplicates(t *testing.T) {
	store := New("unused.json")

	store.Add("x", "", "x", "y")

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"x", "y"}, store.IDs())

	store.Remove("x")
	assert.False(t, store.Has("x"))
	assert.Equal(t, 1, store.Len())
}
