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
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arcflux/diskcarve/internal/logger"
	"github.com/arcflux/diskcarve/internal/pipeline"
	"github.com/arcflux/diskcarve/internal/units"
	"github.com/arcflux/diskcarve/pkg/pbar"
	fmtutil "github.com/arcflux/diskcarve/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scan <device-or-image>",
		Short:        "Carve and recover files from a disk image or device",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}

	cmd.Flags().StringP("output", "o", "./recovered", "directory recovered files and reports are written to")
	cmd.Flags().String("block-size", "512", "assumed sector size of the device")
	cmd.Flags().String("window-size", "1GiB", "size of the window read per partition/volume")
	cmd.Flags().String("max-file-size", "10MiB", "maximum size of a single carved file")
	cmd.Flags().Bool("dump", true, "actually write carved bytes (false performs a report-only dry run)")
	cmd.Flags().String("log-level", "info", "debug|info|warn|error")
	cmd.Flags().Bool("no-log", false, "disable the scan_<session>.log diagnostic log (recovery_log.txt and the DFXML report are still written)")
	cmd.Flags().StringSlice("ext", nil, "comma-separated allow-list of extensions (default: all catalog entries)")

	return cmd
}

func RunScan(cmd *cobra.Command, args []string) error {
	devicePath := normalizeVolumePath(args[0])

	outDir, _ := cmd.Flags().GetString("output")
	dump, _ := cmd.Flags().GetBool("dump")
	disableLog, _ := cmd.Flags().GetBool("no-log")
	fileExt, _ := cmd.Flags().GetStringSlice("ext")
	logLevel, _ := cmd.Flags().GetString("log-level")

	windowSize := getBytes(cmd, "window-size")
	maxFileSize := getBytes(cmd, "max-file-size")

	lvl := logger.ParseLevel(strings.ToUpper(logLevel))
	consoleLog := logger.New(os.Stderr, lvl)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleLog.Infof("scanning %s -> %s", devicePath, outDir)

	results, err := pipeline.Run(ctx, devicePath, pipeline.Options{
		OutDir:      outDir,
		WindowSize:  windowSize,
		MaxFileSize: int(clampInt(maxFileSize)),
		FileExt:     fileExt,
		DisableLog:  disableLog,
		DryRun:      !dump,
	})
	if err != nil {
		consoleLog.Errorf("scan failed: %v", err)
		return err
	}

	var totalFiles int
	var totalBytes uint64
	for _, res := range results {
		bar := pbar.NewProgressBarState(int64(res.Partition.Size))
		bar.ProcessedBytes = int64(res.TotalBytes)
		bar.FilesFound = res.FilesFound
		bar.Render(true)
		fmt.Println()

		consoleLog.Infof("partition %d (%s): %d files, %s recovered in %s",
			res.Partition.Num, res.FSType, res.FilesFound,
			fmtutil.FormatBytes(int64(res.TotalBytes)), pipeline.FormatDurationHMS(res.Duration))

		totalFiles += res.FilesFound
		totalBytes += res.TotalBytes
	}

	consoleLog.Infof("done: %d files recovered, %s total", totalFiles, fmtutil.FormatBytes(int64(totalBytes)))
	return nil
}

func getBytes(cmd *cobra.Command, name string) uint64 {
	s, _ := cmd.Flags().GetString(name)
	v, err := units.ParseBytes(s)
	if err != nil {
		return math.MaxUint64
	}
	return v
}

func clampInt(v uint64) int64 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int64(v)
}

// normalizeVolumePath rewrites a bare two-character drive-letter path
// ("C:") to its raw-volume form (\\.\C:) on every host OS; any other path
// is returned unchanged.
func normalizeVolumePath(path string) string {
	if len(path) == 2 && path[1] == ':' {
		return `\\.\` + path
	}
	return path
}
