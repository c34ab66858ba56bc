package fsys_test

import (
	"encoding/binary"
	"testing"

	"github.com/arcflux/diskcarve/internal/fsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFAT32(t *testing.T) {
	buf := make([]byte, 512)
	copy(buf[0x52:0x57], "FAT32")
	assert.Equal(t, fsys.FAT32, fsys.Detect(buf))
}

func TestDetectNTFS(t *testing.T) {
	buf := make([]byte, 512)
	copy(buf[0x03:0x0B], "NTFS    ")
	assert.Equal(t, fsys.NTFS, fsys.Detect(buf))
}

func TestDetectUnknown(t *testing.T) {
	buf := make([]byte, 512)
	assert.Equal(t, fsys.Unknown, fsys.Detect(buf))
}

func buildFAT32BootSector(rootEntries uint16, reservedSectors uint16, fatCount uint8, fat32Length uint32, bytesPerSector uint16) []byte {
	buf := make([]byte, 512)
	binary.LittleEndian.PutUint16(buf[0x0B:0x0D], bytesPerSector)
	buf[0x0D] = 1 // sectors per cluster
	binary.LittleEndian.PutUint16(buf[0x0E:0x10], reservedSectors)
	buf[0x10] = fatCount
	binary.LittleEndian.PutUint16(buf[0x11:0x13], rootEntries)
	binary.LittleEndian.PutUint32(buf[0x24:0x28], fat32Length)
	return buf
}

func TestAnalyseFAT32WalksRootDirectory(t *testing.T) {
	bps := uint16(512)
	reserved := uint16(32)
	fatCount := uint8(2)
	fatLen := uint32(10)

	boot := buildFAT32BootSector(16, reserved, fatCount, fatLen, bps)

	rootStart := uint64(reserved)*uint64(bps) + uint64(fatCount)*uint64(fatLen)*uint64(bps)
	buf := make([]byte, rootStart+32*3)
	copy(buf, boot)

	// Entry 0: a live file "HELLO.TXT" sized 5 bytes.
	e0 := buf[rootStart : rootStart+32]
	copy(e0[0:8], "HELLO   ")
	copy(e0[8:11], "TXT")
	binary.LittleEndian.PutUint32(e0[0x1C:0x20], 5)

	// Entry 1: free entry (all zero, byte 0 = 0x00) — already zero, skip.

	// Entry 2: deleted entry with non-empty remainder.
	e2 := buf[rootStart+64 : rootStart+96]
	e2[0] = 0xE5
	copy(e2[1:8], "ELETED ")
	copy(e2[8:11], "TXT")
	binary.LittleEndian.PutUint32(e2[0x1C:0x20], 9)

	entries := fsys.AnalyseFAT32(buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "HELLO.TXT", entries[0].Name)
	assert.Equal(t, uint64(5), entries[0].Size)
	assert.False(t, entries[0].Deleted)

	assert.True(t, entries[1].Deleted)
	assert.Equal(t, uint64(9), entries[1].Size)
}

func TestAnalyseFAT32SkipsFullyZeroDeletedEntry(t *testing.T) {
	boot := buildFAT32BootSector(16, 32, 2, 10, 512)
	rootStart := uint64(32)*512 + uint64(2)*10*512
	buf := make([]byte, rootStart+32)
	copy(buf, boot)
	buf[rootStart] = 0xE5 // remainder all zero

	entries := fsys.AnalyseFAT32(buf)
	assert.Empty(t, entries)
}

func buildNTFSFileRecord(usedSize, allocatedSize uint32) []byte {
	rec := make([]byte, 1024)
	copy(rec[0:4], "$FIL")
	binary.LittleEndian.PutUint16(rec[0x14:0x16], 0x30) // attribute offset
	binary.LittleEndian.PutUint32(rec[0x18:0x1C], usedSize)
	binary.LittleEndian.PutUint32(rec[0x1C:0x20], allocatedSize)
	return rec
}

func TestAnalyseNTFSEmitsPlaceholderPerRecord(t *testing.T) {
	buf := make([]byte, 1024*2)
	copy(buf[0:4], "$FIL")
	rec := buildNTFSFileRecord(200, 1024)
	copy(buf[1024:], rec)

	entries := fsys.AnalyseNTFS(buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "<NTFS_Entry>", entries[0].Name)
	assert.Equal(t, "<NTFS_Entry>", entries[1].Name)
	assert.Equal(t, uint64(200), entries[1].Size)
}

func TestDiscoverPartitionsFallsBackToWholeDiskOnBadSignature(t *testing.T) {
	buf := make([]byte, 512)
	parts, err := fsys.DiscoverPartitions(buf, 1<<20)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, uint64(1<<20), parts[0].Size)
}

func TestDiscoverPartitionsParsesMBREntries(t *testing.T) {
	buf := make([]byte, 512)
	binary.LittleEndian.PutUint16(buf[0x1FE:0x200], 0xAA55)

	entryOff := 0x1BE
	buf[entryOff+4] = 0x0C // FAT32 LBA
	binary.LittleEndian.PutUint32(buf[entryOff+8:entryOff+12], 2048)
	binary.LittleEndian.PutUint32(buf[entryOff+12:entryOff+16], 204800)

	parts, err := fsys.DiscoverPartitions(buf, 0)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, fsys.FAT32, parts[0].FSType)
	assert.Equal(t, uint64(2048*512), parts[0].Offset)
	assert.Equal(t, uint64(204800*512), parts[0].Size)
}
