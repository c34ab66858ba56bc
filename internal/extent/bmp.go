package extent

import "encoding/binary"

// BMP BITMAPFILEHEADER + DIB header field validation, adapted from the
// retrieved tool's own struct-based reader into direct slice offsets;
// the file's own FileSize field is trusted as the end offset once the
// surrounding fields pass sanity checks, the same way the original did.
func preciseBMP(buf []byte, start int) (int, bool) {
	const fileHeaderSize = 14
	if start+fileHeaderSize > len(buf) {
		return 0, false
	}
	if buf[start] != 'B' || buf[start+1] != 'M' {
		return 0, false
	}
	fileSize := binary.LittleEndian.Uint32(buf[start+2 : start+6])
	reserved1 := binary.LittleEndian.Uint16(buf[start+6 : start+8])
	reserved2 := binary.LittleEndian.Uint16(buf[start+8 : start+10])
	dataOffset := binary.LittleEndian.Uint32(buf[start+10 : start+14])

	if reserved1 != 0 || reserved2 != 0 {
		return 0, false
	}
	if fileSize < 14+40 {
		return 0, false
	}
	if dataOffset < 14 {
		return 0, false
	}

	dibStart := start + fileHeaderSize
	if dibStart+4 > len(buf) {
		return 0, false
	}
	headerSize := binary.LittleEndian.Uint32(buf[dibStart : dibStart+4])
	switch headerSize {
	case 12, 40, 64, 108, 124:
	default:
		return 0, false
	}
	if dibStart+int(headerSize) > len(buf) || headerSize < 16 {
		return 0, false
	}

	planes := binary.LittleEndian.Uint16(buf[dibStart+12 : dibStart+14])
	bitsPerPixel := binary.LittleEndian.Uint16(buf[dibStart+14 : dibStart+16])
	width := int32(binary.LittleEndian.Uint32(buf[dibStart+4 : dibStart+8]))

	if planes != 1 {
		return 0, false
	}
	switch bitsPerPixel {
	case 1, 4, 8, 16, 24, 32:
	default:
		return 0, false
	}
	if width <= 0 {
		return 0, false
	}

	end := start + int(fileSize)
	if end > len(buf) {
		return 0, false
	}
	return end, true
}
