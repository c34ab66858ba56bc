package metadata_test

import (
	"encoding/binary"
	"testing"

	"github.com/arcflux/diskcarve/internal/metadata"
	"github.com/stretchr/testify/assert"
)

func TestExtractJPEGDetectsEXIFMarker(t *testing.T) {
	withExif := []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x10}
	m := metadata.Extract(withExif, "jpg")
	assert.Equal(t, "JPEG", m["Format"])
	assert.Equal(t, "Yes", m["Has_EXIF"])

	withoutExif := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	m = metadata.Extract(withoutExif, "jpeg")
	assert.Equal(t, "No", m["Has_EXIF"])
}

func pngTextChunk(keyword, text string) []byte {
	data := append([]byte(keyword), 0)
	data = append(data, []byte(text)...)
	out := make([]byte, 4, 4+4+len(data)+4)
	binary.BigEndian.PutUint32(out[0:4], uint32(len(data)))
	out = append(out, []byte("tEXt")...)
	out = append(out, data...)
	out = append(out, 0, 0, 0, 0) // CRC, unchecked by the extractor
	return out
}

func TestExtractPNGParsesTextChunk(t *testing.T) {
	buf := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, pngTextChunk("Author", "carver")...)
	iend := make([]byte, 12)
	binary.BigEndian.PutUint32(iend[0:4], 0)
	copy(iend[4:8], "IEND")
	buf = append(buf, iend...)

	m := metadata.Extract(buf, "png")
	assert.Equal(t, "PNG", m["Format"])
	assert.Equal(t, "carver", m["Author"])
}

func TestExtractPDFParsesVersionAndCreator(t *testing.T) {
	buf := []byte("%PDF-1.4\n1 0 obj << /Creator (diskcarve) /Author (tester) >>\n")
	m := metadata.Extract(buf, "pdf")
	assert.Equal(t, "PDF", m["Format"])
	assert.Equal(t, "%PDF-1.4", m["Version"])
	assert.Equal(t, "diskcarve", m["Creator"])
	assert.Equal(t, "tester", m["Author"])
}

func TestExtractMP3DetectsID3v2AndID3v1(t *testing.T) {
	buf := []byte("ID3\x04\x00")
	buf = append(buf, make([]byte, 128)...)
	tail := make([]byte, 128)
	copy(tail[:3], "TAG")
	copy(tail[3:33], "My Song")
	buf = append(buf, tail...)

	m := metadata.Extract(buf, "mp3")
	assert.Equal(t, "Yes", m["Has_ID3"])
	assert.Equal(t, "4.0", m["Version"])
	assert.Equal(t, "My Song", m["Title"])
}
