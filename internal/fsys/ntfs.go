package fsys

import "encoding/binary"

const ntfsRecordSize = 1024

// NTFSBootInfo holds the handful of boot-sector fields the spec reads
// before scanning for $FILE records; v1 does not use mft_start_cluster
// to seek (the scan below walks the whole supplied window instead),
// but the fields are parsed and surfaced for callers that display
// volume info alongside the entry list.
type NTFSBootInfo struct {
	MFTStartCluster uint64
	BytesPerSector  uint16
	SectorsPerClusters uint8
}

// ParseNTFSBootSector reads the BPB fields analyse_ntfs is specified
// to read from the volume's boot sector.
func ParseNTFSBootSector(bootSector []byte) (NTFSBootInfo, bool) {
	if len(bootSector) < 0x38 {
		return NTFSBootInfo{}, false
	}
	return NTFSBootInfo{
		BytesPerSector:     binary.LittleEndian.Uint16(bootSector[0x0B : 0x0D]),
		SectorsPerClusters: bootSector[0x0D],
		MFTStartCluster:    binary.LittleEndian.Uint64(bootSector[0x30 : 0x38]),
	}, true
}

// NTFSFileRecord holds the fixup-free header fields of an MFT $FILE
// record. When they parse as internally consistent, UsedSize is carried
// into the placeholder entry's Size; the other fields are not exposed
// outside this package. This is an enrichment on top of the
// mandatory "<NTFS_Entry>" placeholder behaviour below; it never
// replaces it.
type NTFSFileRecord struct {
	SequenceNumber uint16
	HardLinkCount  uint16
	AttributeOff   uint16
	Flags          uint16
	UsedSize       uint32
	AllocatedSize  uint32
}

// AnalyseNTFS iterates 1024-byte windows over buf and emits a
// placeholder FileEntry for each one that begins with "$FIL" (the
// start of the "FILE" magic after a truncated/misaligned read is
// tolerated the same way the spec's mandatory stub does). When the
// window's header fields parse as internally consistent, the record's
// used size becomes the entry's Size; otherwise Size stays 0 and only
// the placeholder name is emitted, matching the mandatory fallback.
func AnalyseNTFS(buf []byte) []FileEntry {
	var entries []FileEntry
	for off := 0; off+4 <= len(buf); off += ntfsRecordSize {
		if string(buf[off:off+4]) != "$FIL" {
			continue
		}

		entry := FileEntry{Name: "<NTFS_Entry>"}
		if rec, ok := parseNTFSRecordHeader(buf, off); ok {
			entry.Size = uint64(rec.UsedSize)
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseNTFSRecordHeader reads the fixup-free portion of a $FILE record
// header and validates internal consistency: the attribute offset must
// fall within the record, and used size must not exceed allocated size
// which must not exceed the 1024-byte record itself.
func parseNTFSRecordHeader(buf []byte, off int) (NTFSFileRecord, bool) {
	end := off + ntfsRecordSize
	if end > len(buf) {
		end = len(buf)
	}
	if end-off < 0x1C+4 {
		return NTFSFileRecord{}, false
	}

	rec := NTFSFileRecord{
		SequenceNumber: binary.LittleEndian.Uint16(buf[off+0x10 : off+0x12]),
		HardLinkCount:  binary.LittleEndian.Uint16(buf[off+0x12 : off+0x14]),
		AttributeOff:   binary.LittleEndian.Uint16(buf[off+0x14 : off+0x16]),
		Flags:          binary.LittleEndian.Uint16(buf[off+0x16 : off+0x18]),
		UsedSize:       binary.LittleEndian.Uint32(buf[off+0x18 : off+0x1C]),
		AllocatedSize:  binary.LittleEndian.Uint32(buf[off+0x1C : off+0x20]),
	}

	if int(rec.AttributeOff) >= ntfsRecordSize || rec.AttributeOff < 0x18 {
		return NTFSFileRecord{}, false
	}
	if rec.UsedSize > rec.AllocatedSize || rec.AllocatedSize > ntfsRecordSize {
		return NTFSFileRecord{}, false
	}
	return rec, true
}
