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
	"path/filepath"

	"github.com/arcflux/diskcarve/internal/report"
	"github.com/arcflux/diskcarve/pkg/dfxml"
	fmtutil "github.com/arcflux/diskcarve/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "report <report.dfxml>",
		Short:        "Print a human-readable summary of a DFXML report",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunReport,
	}
}

func RunReport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	objects, err := dfxml.ReadFileObjects(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("report: parse %q: %w", args[0], err)
	}

	counts := map[report.Category]int{}
	var totalBytes uint64
	for _, o := range objects {
		ext := ""
		if dot := lastDot(o.Filename); dot >= 0 {
			ext = o.Filename[dot+1:]
		}
		counts[report.CategoryFor(ext)]++
		totalBytes += o.FileSize
	}

	fmt.Printf("Report: %s\n", filepath.Base(args[0]))
	fmt.Printf("Files:  %d\n", len(objects))
	fmt.Printf("Total:  %s\n", fmtutil.FormatBytes(int64(totalBytes)))
	for cat, n := range counts {
		fmt.Printf("  %-10s %d\n", cat, n)
	}
	return nil
}

func lastDot(name string) int {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return i
		}
	}
	return -1
}
