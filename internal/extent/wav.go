package extent

import "encoding/binary"

// WAV RIFF/WAVE chunk walk: find 'fmt ' then 'data', tolerating
// truncation the same way the retrieved tool's streaming scanner did
// — a RIFF size that promises more than the buffer holds, or a data
// chunk cut short, still yields the largest in-bounds end offset.
func preciseWAV(buf []byte, start int) (int, bool) {
	if start+12 > len(buf) {
		return 0, false
	}
	if string(buf[start:start+4]) != "RIFF" {
		return 0, false
	}
	riffSize := binary.LittleEndian.Uint32(buf[start+4 : start+8])
	if string(buf[start+8:start+12]) != "WAVE" {
		return 0, false
	}

	riffEnd := start + 8 + int(riffSize)
	i := start + 12
	fmtSeen := false
	dataSeen := false
	dataEnd := 0

	for i+8 <= len(buf) {
		chunkID := string(buf[i : i+4])
		chunkSize := int(binary.LittleEndian.Uint32(buf[i+4 : i+8]))
		payloadStart := i + 8
		payloadEnd := payloadStart + chunkSize
		if payloadEnd > len(buf) {
			payloadEnd = len(buf)
		}

		switch chunkID {
		case "fmt ":
			fmtSeen = true
		case "data":
			dataSeen = true
			dataEnd = payloadEnd
		}

		i = payloadEnd
		if dataSeen {
			break
		}
		if i >= riffEnd && riffEnd <= len(buf) {
			break
		}
	}

	if !fmtSeen || !dataSeen {
		return 0, false
	}

	end := dataEnd
	if riffEnd <= len(buf) && riffEnd > start && riffEnd < end {
		end = riffEnd
	}
	return end, true
}
