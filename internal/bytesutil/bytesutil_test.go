package bytesutil_test

import (
	"testing"

	"github.com/arcflux/diskcarve/internal/bytesutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIntegersLittleEndian(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	u16, err := bytesutil.ReadU16LE(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), u16)

	u32, err := bytesutil.ReadU32LE(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), u32)

	u64, err := bytesutil.ReadU64LE(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0807060504030201), u64)
}

func TestReadU32BE(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x10}
	v, err := bytesutil.ReadU32BE(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), v)
}

func TestReadOutOfBounds(t *testing.T) {
	buf := []byte{0x01, 0x02}

	_, err := bytesutil.ReadU32LE(buf, 0)
	assert.ErrorIs(t, err, bytesutil.ErrOutOfBounds)

	_, err = bytesutil.ReadU16LE(buf, 1)
	assert.ErrorIs(t, err, bytesutil.ErrOutOfBounds)

	_, err = bytesutil.ReadByte(buf, 5)
	assert.ErrorIs(t, err, bytesutil.ErrOutOfBounds)
}

func TestReadStringTruncatesAtNul(t *testing.T) {
	buf := []byte("hello\x00world")
	s, err := bytesutil.ReadString(buf, 0, 11)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestReadStringClampsToBufferLength(t *testing.T) {
	buf := []byte("abc")
	s, err := bytesutil.ReadString(buf, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "bc", s)
}

func TestReadNulTerminated(t *testing.T) {
	buf := []byte("abc\x00def")
	s, err := bytesutil.ReadNulTerminated(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	s, err = bytesutil.ReadNulTerminated(buf, 4)
	require.NoError(t, err)
	assert.Equal(t, "def", s)
}

func TestFindSubsequence(t *testing.T) {
	buf := []byte("the quick brown fox jumps over the lazy dog")

	i, err := bytesutil.FindSubsequence(buf, []byte("brown"), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, i)

	i, err = bytesutil.FindSubsequence(buf, []byte("the"), 1)
	require.NoError(t, err)
	assert.Equal(t, 31, i)

	_, err = bytesutil.FindSubsequence(buf, []byte("missing"), 0)
	assert.ErrorIs(t, err, bytesutil.ErrNotFound)
}

func TestFindSubsequenceEmptyPatternNotFound(t *testing.T) {
	_, err := bytesutil.FindSubsequence([]byte("abc"), []byte{}, 0)
	assert.ErrorIs(t, err, bytesutil.ErrNotFound)
}

func TestFindSubsequencePatternLongerThanBufferNotFound(t *testing.T) {
	buf := make([]byte, 100)
	pattern := make([]byte, 101)
	_, err := bytesutil.FindSubsequence(buf, pattern, 0)
	assert.ErrorIs(t, err, bytesutil.ErrNotFound)
}

func TestHasPrefixAt(t *testing.T) {
	buf := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	assert.True(t, bytesutil.HasPrefixAt(buf, []byte{0xFF, 0xD8, 0xFF}, 0))
	assert.False(t, bytesutil.HasPrefixAt(buf, []byte{0xFF, 0xD8, 0xFF}, 2))
}
