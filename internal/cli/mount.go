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
package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/arcflux/diskcarve/internal/diskio"
	"github.com/arcflux/diskcarve/internal/fuseview"
	"github.com/arcflux/diskcarve/pkg/dfxml"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mount <image> <report.dfxml> <mountpoint>",
		Short: "Mount a DFXML report's recovered files read-only (Linux only)",
		Long: `The 'mount' command serves every file named in a DFXML report over a
read-only FUSE filesystem, reading bytes directly from the source image at
the extents the report recorded. No recovered data is copied to disk.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         RunMount,
	}
}

func RunMount(cmd *cobra.Command, args []string) error {
	imagePath, reportPath, mountpoint := args[0], args[1], args[2]

	r, err := diskio.Open(imagePath)
	if err != nil {
		return err
	}
	defer r.Close()

	reportFile, err := os.Open(reportPath)
	if err != nil {
		return err
	}
	defer reportFile.Close()

	objects, err := dfxml.ReadFileObjects(bufio.NewReader(reportFile))
	if err != nil {
		return err
	}

	entries, err := toFuseEntries(objects)
	if err != nil {
		return err
	}

	return fuseview.Mount(mountpoint, readerAt{r}, entries)
}

func toFuseEntries(objs []dfxml.FileObject) ([]fuseview.Entry, error) {
	entries := make([]fuseview.Entry, len(objs))
	for i, o := range objs {
		runs := o.ByteRuns.Runs
		if len(runs) < 1 {
			return nil, fmt.Errorf("mount: %q has no recorded byte run", o.Filename)
		}
		entries[i] = fuseview.Entry{
			Name:   o.Filename,
			Offset: runs[0].ImgOffset,
			Size:   runs[0].Length,
		}
	}
	return entries, nil
}

// readerAt adapts *diskio.Reader's fixed-size ReadBytes into the
// variable-length io.ReaderAt FUSE's section readers expect.
type readerAt struct {
	r *diskio.Reader
}

func (ra readerAt) ReadAt(p []byte, off int64) (int, error) {
	buf, err := ra.r.ReadBytes(off, len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, buf), nil
}
