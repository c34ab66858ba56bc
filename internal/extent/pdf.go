package extent

import "github.com/arcflux/diskcarve/internal/bytesutil"

// pdfMaxLookahead bounds the last-%%EOF search, matching the retrieved
// tool's own cap on how far past a PDF header it will search for the
// terminating marker.
const pdfMaxLookahead = 16 << 20 // 16 MiB

var pdfEOFMarker = []byte("%%EOF")

// precisePDF repeatedly searches for "%%EOF" and returns the offset just
// past the last occurrence within the lookahead window; PDFs may contain
// multiple incremental-update trailers, so the final one wins.
func precisePDF(buf []byte, start int) (int, bool) {
	limit := start + pdfMaxLookahead
	if limit > len(buf) {
		limit = len(buf)
	}

	found := false
	end := 0
	searchFrom := start
	for {
		i, err := bytesutil.FindSubsequence(buf[:limit], pdfEOFMarker, searchFrom)
		if err != nil {
			break
		}
		found = true
		end = i + len(pdfEOFMarker)
		searchFrom = i + 1
	}
	return end, found
}
