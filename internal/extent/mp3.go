package extent

import "encoding/binary"

// MP3 frame walk: an optional ID3v2 tag (synchsafe size) is skipped,
// then consecutive MPEG Layer III frame headers are validated and
// stepped over by their computed frame size, adapted from the
// retrieved tool's own frame-sync parser into a slice-based cursor.
const (
	minMP3FrameSize = 100
	maxMP3FrameSize = 1500
	minMP3Frames    = 2
)

var bitrateMPEG1Layer3 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
var bitrateMPEG2Layer3 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}

// sampleRateTable is indexed by the MPEG version bits (0=2.5, 2=2, 3=1) then by sample-rate index.
var sampleRateTable = [4][4]int{
	{11025, 12000, 8000, 0},
	{0, 0, 0, 0},
	{22050, 24000, 16000, 0},
	{44100, 48000, 32000, 0},
}

func preciseMP3(buf []byte, start int) (int, bool) {
	i := start
	if i+10 <= len(buf) && string(buf[i:i+3]) == "ID3" {
		tagSize := int(buf[i+6]&0x7f)<<21 | int(buf[i+7]&0x7f)<<14 | int(buf[i+8]&0x7f)<<7 | int(buf[i+9]&0x7f)
		i += 10 + tagSize
	}

	frames := 0
	for {
		if i+4 > len(buf) {
			break
		}
		frameSize, ok := parseMP3FrameSize(buf[i : i+4])
		if !ok {
			break
		}
		if frameSize < minMP3FrameSize || frameSize > maxMP3FrameSize {
			return 0, false
		}
		if i+frameSize > len(buf) {
			break
		}
		i += frameSize
		frames++
	}
	if frames < minMP3Frames {
		return 0, false
	}
	return i, true
}

func parseMP3FrameSize(header []byte) (int, bool) {
	h := binary.BigEndian.Uint32(header)
	if h&0xFFE00000 != 0xFFE00000 {
		return 0, false
	}

	versionBits := int((h >> 19) & 0x03)
	var mpegVersion int
	switch versionBits {
	case 3:
		mpegVersion = 1
	case 2:
		mpegVersion = 2
	case 0:
		mpegVersion = 25
	default:
		return 0, false // reserved
	}

	layerBits := int((h >> 17) & 0x03)
	if layerBits != 1 { // only Layer III
		return 0, false
	}

	bitrateIndex := int((h >> 12) & 0x0F)
	if bitrateIndex == 0 || bitrateIndex == 15 {
		return 0, false
	}
	var bitrate int
	if mpegVersion == 1 {
		bitrate = bitrateMPEG1Layer3[bitrateIndex]
	} else {
		bitrate = bitrateMPEG2Layer3[bitrateIndex]
	}

	sampleRateIndex := int((h >> 10) & 0x03)
	if sampleRateIndex == 3 {
		return 0, false
	}
	sampleRate := sampleRateTable[versionBits][sampleRateIndex]
	if sampleRate == 0 {
		return 0, false
	}

	padding := (h>>9)&0x01 != 0
	frameSize := (1152 * bitrate * 1000) / sampleRate / 8
	if padding {
		frameSize++
	}
	if frameSize <= 4 {
		return 0, false
	}
	return frameSize, true
}
