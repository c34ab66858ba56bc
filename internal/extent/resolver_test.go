package extent_test

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/arcflux/diskcarve/internal/extent"
	"github.com/arcflux/diskcarve/internal/sigscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpgSig() sigscan.Signature {
	sigs, _ := sigscan.ByExtension("jpg")
	return sigs[0]
}

func pngSig() sigscan.Signature {
	sigs, _ := sigscan.ByExtension("png")
	return sigs[0]
}

func pdfSig() sigscan.Signature {
	sigs, _ := sigscan.ByExtension("pdf")
	return sigs[0]
}

func zipSig() sigscan.Signature {
	sigs, _ := sigscan.ByExtension("zip")
	return sigs[0]
}

func TestResolveJPEGExactEOI(t *testing.T) {
	buf := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	ext, err := extent.Resolve(buf, sigscan.Hit{Offset: 0, Signature: jpgSig()}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, extent.Extent{Start: 0, End: 4}, ext)
}

func pngChunk(chunkType string, data []byte) []byte {
	out := make([]byte, 0, 12+len(data))
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(data)))
	out = append(out, lenBuf...)
	out = append(out, []byte(chunkType)...)
	out = append(out, data...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	crcBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBuf, crc.Sum32())
	out = append(out, crcBuf...)
	return out
}

func buildMinimalPNG() []byte {
	buf := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	buf = append(buf, pngChunk("IHDR", make([]byte, 13))...)
	buf = append(buf, pngChunk("IDAT", []byte{1, 2, 3})...)
	buf = append(buf, pngChunk("IEND", nil)...)
	return buf
}

func TestResolvePNGChunkWalk(t *testing.T) {
	buf := buildMinimalPNG()
	ext, err := extent.Resolve(buf, sigscan.Hit{Offset: 0, Signature: pngSig()}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ext.Start)
	assert.Equal(t, uint64(len(buf)), ext.End)
}

func TestResolvePNGFallsBackOnBadCRC(t *testing.T) {
	buf := buildMinimalPNG()
	buf[len(buf)-1] ^= 0xFF // corrupt IEND CRC

	ext, err := extent.Resolve(buf, sigscan.Hit{Offset: 0, Signature: pngSig()}, 1<<20)
	require.NoError(t, err)
	// precise parse fails, so the baseline trailer search runs: the corrupted
	// CRC means the IEND trailer is never matched, so the end falls back to
	// min(len(buf), maxFileSize), which here is len(buf).
	assert.Equal(t, uint64(0), ext.Start)
	assert.Equal(t, uint64(len(buf)), ext.End)
}

func TestResolvePDFLastEOFMarkerWins(t *testing.T) {
	buf := []byte("%PDF-1.4\n...first update...\n%%EOF\n...second update...\n%%EOF\ntrailing garbage")
	ext, err := extent.Resolve(buf, sigscan.Hit{Offset: 0, Signature: pdfSig()}, 1<<20)
	require.NoError(t, err)

	last := len(buf) - len("trailing garbage") - len("%%EOF\n") + len("%%EOF")
	assert.Equal(t, uint64(0), ext.Start)
	assert.Equal(t, uint64(last), ext.End)
}

func TestResolvePDFNoEOFMarkerFallsBackToHeaderCap(t *testing.T) {
	buf := append([]byte("%PDF-1.4\nno terminator here"), make([]byte, 10)...)
	ext, err := extent.Resolve(buf, sigscan.Hit{Offset: 0, Signature: pdfSig()}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ext.Start)
	assert.Equal(t, uint64(len(buf)), ext.End) // header cap (1MiB) clamped to buffer length
}

func zipLocalEntry(name string, data []byte) []byte {
	out := make([]byte, 30)
	binary.LittleEndian.PutUint32(out[0:4], 0x04034B50)
	// version, flags, compression, modtime, moddate, crc32 left zero
	binary.LittleEndian.PutUint32(out[18:22], uint32(len(data))) // compressed size
	binary.LittleEndian.PutUint32(out[22:26], uint32(len(data))) // uncompressed size
	binary.LittleEndian.PutUint16(out[26:28], uint16(len(name)))
	out = append(out, []byte(name)...)
	out = append(out, data...)
	return out
}

func zipCentralEntry(name string, localOffset uint32) []byte {
	out := make([]byte, 46)
	binary.LittleEndian.PutUint32(out[0:4], 0x02014B50)
	binary.LittleEndian.PutUint16(out[28:30], uint16(len(name)))
	binary.LittleEndian.PutUint32(out[42:46], localOffset)
	out = append(out, []byte(name)...)
	return out
}

func buildMinimalZIP(name string, data []byte) []byte {
	local := zipLocalEntry(name, data)
	central := zipCentralEntry(name, 0)

	eocd := make([]byte, 22)
	binary.LittleEndian.PutUint32(eocd[0:4], 0x06054B50)
	binary.LittleEndian.PutUint16(eocd[8:10], 1)
	binary.LittleEndian.PutUint16(eocd[10:12], 1)
	binary.LittleEndian.PutUint32(eocd[12:16], uint32(len(central)))
	binary.LittleEndian.PutUint32(eocd[16:20], uint32(len(local)))

	buf := append([]byte{}, local...)
	buf = append(buf, central...)
	buf = append(buf, eocd...)
	return buf
}

func TestResolveZIPLocalAndCentralDirWalk(t *testing.T) {
	buf := buildMinimalZIP("hello.txt", []byte("hi"))
	ext, err := extent.Resolve(buf, sigscan.Hit{Offset: 0, Signature: zipSig()}, 10<<20)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ext.Start)
	assert.Equal(t, uint64(len(buf)), ext.End)
}

func TestResolveUnknownFormatUsesCappedFallback(t *testing.T) {
	sigs, err := sigscan.ByExtension("gz")
	require.NoError(t, err)
	buf := append([]byte{0x1F, 0x8B, 0x08}, make([]byte, 50)...)

	ext, err := extent.Resolve(buf, sigscan.Hit{Offset: 0, Signature: sigs[0]}, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ext.Start)
	assert.Equal(t, uint64(20), ext.End) // clamped to maxFileSize, never to len(buf) here since 20 < len(buf)
}

func TestResolveEmptyExtentErrorsWhenHitAtBufferEnd(t *testing.T) {
	sigs, err := sigscan.ByExtension("gz")
	require.NoError(t, err)
	buf := []byte{0x1F, 0x8B, 0x08}

	_, err = extent.Resolve(buf, sigscan.Hit{Offset: uint64(len(buf)), Signature: sigs[0]}, 10)
	assert.ErrorIs(t, err, extent.ErrEmptyExtent)
}
