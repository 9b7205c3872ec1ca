package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	f := NewFile(dir)
	require.NoError(t, f.Set(KeyAuthToken, "QWxhZGRpbjpvcGVuc2VzYW1l"))
	require.NoError(t, f.Set(KeyUsername, "asha"))

	// A fresh File over the same directory must see the persisted values.
	reopened := NewFile(dir)
	v, ok := reopened.Get(KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "QWxhZGRpbjpvcGVuc2VzYW1l", v)
	v, ok = reopened.Get(KeyUsername)
	assert.True(t, ok)
	assert.Equal(t, "asha", v)
}

func TestFileTokenNotStoredPlaintext(t *testing.T) {
	dir := t.TempDir()
	token := "QWxhZGRpbjpvcGVuc2VzYW1l"

	f := NewFile(dir)
	require.NoError(t, f.Set(KeyAuthToken, token))

	raw, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), token)
}

func TestFileDelete(t *testing.T) {
	dir := t.TempDir()

	f := NewFile(dir)
	require.NoError(t, f.Set(KeyAuthToken, "tok"))
	require.NoError(t, f.Delete(KeyAuthToken))
	require.NoError(t, f.Delete(KeyAuthToken)) // idempotent

	_, ok := NewFile(dir).Get(KeyAuthToken)
	assert.False(t, ok)
}

func TestFileCorruptPayloadReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()

	f := NewFile(dir)
	require.NoError(t, f.Set(KeyAuthToken, "tok"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, credentialsFile), []byte("garbage"), 0o600))

	_, ok := NewFile(dir).Get(KeyAuthToken)
	assert.False(t, ok)
}

func TestFileUnavailableDirDegradesToAbsent(t *testing.T) {
	// A file path in place of the directory makes MkdirAll fail.
	parent := t.TempDir()
	blocked := filepath.Join(parent, "occupied")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))

	f := NewFile(filepath.Join(blocked, "nested"))
	_, ok := f.Get(KeyAuthToken)
	assert.False(t, ok)
	assert.Error(t, f.Set(KeyAuthToken, "tok"))
	assert.NoError(t, f.Delete(KeyAuthToken))
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()

	f := NewFile(dir)
	require.NoError(t, f.Set(KeyAuthToken, "tok"))

	for _, name := range []string{credentialsFile, keyFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), name)
	}
}

func TestDefaultDir(t *testing.T) {
	dir, err := DefaultDir("/tmp/override")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", dir)

	dir, err = DefaultDir("")
	require.NoError(t, err)
	assert.Contains(t, dir, "finadmin")
}
