package report

import (
	"io"

	"github.com/arcflux/diskcarve/internal/rebuild"
	"github.com/arcflux/diskcarve/pkg/dfxml"
)

// DFXMLReport wraps pkg/dfxml's streaming writer so the pipeline can
// emit a <fileobject> for every RecoveredFile next to its Manager.Register
// call for the plain-text log entry, without the plain-text log itself ever
// carrying structural/XML concerns (§4.8 mandates carved-files-only
// plain text; the DFXML file is the machine-parseable counterpart).
type DFXMLReport struct {
	w *dfxml.DFXMLWriter
}

// NewDFXMLReport opens a DFXML document on w and writes its header.
func NewDFXMLReport(w io.Writer, hdr dfxml.DFXMLHeader) (*DFXMLReport, error) {
	writer := dfxml.NewDFXMLWriter(w)
	if err := writer.WriteHeader(hdr); err != nil {
		return nil, err
	}
	return &DFXMLReport{w: writer}, nil
}

// WriteFile records one recovered file as a <fileobject> with a
// single byte run spanning its source extent in the original image.
func (r *DFXMLReport) WriteFile(f rebuild.RecoveredFile) error {
	return r.w.WriteFileObject(dfxml.FileObject{
		Filename: f.Name,
		FileSize: f.Size,
		ByteRuns: dfxml.ByteRuns{
			Runs: []dfxml.ByteRun{{
				Offset:    f.SourceStart,
				ImgOffset: f.SourceStart,
				Length:    f.Size,
			}},
		},
	})
}

// Close writes the closing tag and flushes the underlying encoder.
func (r *DFXMLReport) Close() error {
	return r.w.Close()
}
