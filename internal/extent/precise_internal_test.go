package extent

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreciseBMPValidatesFileSize(t *testing.T) {
	buf := make([]byte, 54) // 14-byte file header + 40-byte BITMAPINFOHEADER
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:6], 54)  // FileSize
	binary.LittleEndian.PutUint32(buf[10:14], 54) // DataOffset
	binary.LittleEndian.PutUint32(buf[14:18], 40) // DIB header size
	binary.LittleEndian.PutUint32(buf[18:22], 1)  // Width
	binary.LittleEndian.PutUint16(buf[26:28], 1)  // Planes
	binary.LittleEndian.PutUint16(buf[28:30], 24) // BitsPerPixel

	end, ok := preciseBMP(buf, 0)
	assert.True(t, ok)
	assert.Equal(t, 54, end)
}

func TestPreciseBMPRejectsBadSignature(t *testing.T) {
	buf := make([]byte, 54)
	_, ok := preciseBMP(buf, 0)
	assert.False(t, ok)
}

func TestPreciseWAVFindsDataChunk(t *testing.T) {
	buf := make([]byte, 0, 44)
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, make([]byte, 4)...) // riff size, patched below
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	fmtSize := make([]byte, 4)
	binary.LittleEndian.PutUint32(fmtSize, 16)
	buf = append(buf, fmtSize...)
	buf = append(buf, make([]byte, 16)...) // fmt payload
	buf = append(buf, []byte("data")...)
	dataSize := make([]byte, 4)
	binary.LittleEndian.PutUint32(dataSize, 4)
	buf = append(buf, dataSize...)
	buf = append(buf, []byte{1, 2, 3, 4}...)

	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(buf)-8))

	end, ok := preciseWAV(buf, 0)
	assert.True(t, ok)
	assert.Equal(t, len(buf), end)
}

func TestPreciseMP3RequiresAtLeastTwoFrames(t *testing.T) {
	// A single valid-looking frame header with no continuation is not enough.
	buf := []byte{0xFF, 0xFB, 0x90, 0x00}
	_, ok := preciseMP3(buf, 0)
	assert.False(t, ok)
}
