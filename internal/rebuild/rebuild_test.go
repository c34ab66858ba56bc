package rebuild_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arcflux/diskcarve/internal/rebuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistWritesUniquelyNamedFiles(t *testing.T) {
	dir := t.TempDir()
	rb, err := rebuild.New(dir)
	require.NoError(t, err)

	buf := []byte("hello world, this is carved data")

	f1, err := rb.Persist(buf, 0, 5, "jpg")
	require.NoError(t, err)
	f2, err := rb.Persist(buf, 6, 11, "jpg")
	require.NoError(t, err)

	assert.Equal(t, "recovered_00001.jpg", f1.Name)
	assert.Equal(t, "recovered_00002.jpg", f2.Name)
	assert.NotEqual(t, f1.Path, f2.Path)

	got1, err := os.ReadFile(filepath.Join(dir, f1.Name))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got1))

	got2, err := os.ReadFile(filepath.Join(dir, f2.Name))
	require.NoError(t, err)
	assert.Equal(t, "world", string(got2))
}

func TestPersistRejectsEmptyOrOutOfBoundsExtent(t *testing.T) {
	dir := t.TempDir()
	rb, err := rebuild.New(dir)
	require.NoError(t, err)

	buf := []byte("short")
	_, err = rb.Persist(buf, 3, 3, "bin")
	assert.Error(t, err)

	_, err = rb.Persist(buf, 0, 100, "bin")
	assert.Error(t, err)
}

func TestPersistLeavesNoPartFileBehindOnSuccess(t *testing.T) {
	dir := t.TempDir()
	rb, err := rebuild.New(dir)
	require.NoError(t, err)

	f, err := rb.Persist([]byte("data"), 0, 4, "bin")
	require.NoError(t, err)

	_, statErr := os.Stat(f.Path + ".part")
	assert.True(t, os.IsNotExist(statErr))
}

func TestDescribeReservesNameWithoutWritingAFile(t *testing.T) {
	dir := t.TempDir()
	rb, err := rebuild.New(dir)
	require.NoError(t, err)

	f, err := rb.Describe(0, 10, "jpg")
	require.NoError(t, err)
	assert.Equal(t, "recovered_00001.jpg", f.Name)
	assert.Equal(t, uint64(10), f.Size)

	_, statErr := os.Stat(f.Path)
	assert.True(t, os.IsNotExist(statErr))

	f2, err := rb.Persist([]byte("0123456789"), 0, 10, "jpg")
	require.NoError(t, err)
	assert.Equal(t, "recovered_00002.jpg", f2.Name)
}

func TestNewCreatesMissingOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := rebuild.New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
