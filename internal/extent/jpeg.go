// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package extent

// JPEG marker walk, adapted from the standard library's image/jpeg decode
// internals but pared down to locating the End Of Image marker rather
// than decoding pixels. Handles byte stuffing (0xFF00), fill bytes
// (extra 0xFF before a marker) and restart markers the way libjpeg does.
const (
	jpegSOF0 = 0xc0
	jpegSOF1 = 0xc1
	jpegSOF2 = 0xc2
	jpegDHT  = 0xc4
	jpegRST0 = 0xd0
	jpegRST7 = 0xd7
	jpegSOI  = 0xd8
	jpegEOI  = 0xd9
	jpegSOS  = 0xda
	jpegDQT  = 0xdb
	jpegDRI  = 0xdd
	jpegCOM  = 0xfe
	jpegAPP0 = 0xe0
	jpegAPP14 = 0xee
	jpegAPP15 = 0xef
)

func preciseJPEG(buf []byte, start int) (int, bool) {
	i := start
	if i+2 > len(buf) || buf[i] != 0xff || buf[i+1] != jpegSOI {
		return 0, false
	}
	i += 2

	for {
		if i+2 > len(buf) {
			return 0, false
		}
		b0, b1 := buf[i], buf[i+1]
		i += 2

		for b0 != 0xff {
			if i >= len(buf) {
				return 0, false
			}
			b0 = b1
			b1 = buf[i]
			i++
		}
		marker := b1
		if marker == 0 {
			continue // "\xff\x00" is a stuffed byte inside scan data, not a marker.
		}
		for marker == 0xff {
			if i >= len(buf) {
				return 0, false
			}
			marker = buf[i]
			i++
		}
		if marker == jpegEOI {
			return i, true
		}
		if marker >= jpegRST0 && marker <= jpegRST7 {
			continue // restart markers carry no length field.
		}

		if i+2 > len(buf) {
			return 0, false
		}
		segLen := int(buf[i])<<8 + int(buf[i+1]) - 2
		i += 2
		if segLen < 0 || i+segLen > len(buf) {
			return 0, false
		}

		switch marker {
		case jpegSOF0, jpegSOF1, jpegSOF2, jpegDHT, jpegDQT, jpegSOS, jpegDRI, jpegAPP0, jpegAPP14:
			i += segLen
		default:
			if (marker >= jpegAPP0 && marker <= jpegAPP15) || marker == jpegCOM {
				i += segLen
			} else if marker < 0xc0 {
				return 0, false
			} else {
				i += segLen
			}
		}
	}
}
