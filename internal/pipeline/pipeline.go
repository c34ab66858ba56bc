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

// Package pipeline wires the carving engine's components into one
// scan pass per discovered partition: open, window, detect filesystem,
// scan signatures, resolve extents, persist, extract metadata, report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/arcflux/diskcarve/internal/diskio"
	"github.com/arcflux/diskcarve/internal/env"
	"github.com/arcflux/diskcarve/internal/extent"
	"github.com/arcflux/diskcarve/internal/fsys"
	"github.com/arcflux/diskcarve/internal/metadata"
	"github.com/arcflux/diskcarve/internal/rebuild"
	"github.com/arcflux/diskcarve/internal/report"
	"github.com/arcflux/diskcarve/internal/sigscan"
	"github.com/arcflux/diskcarve/pkg/dfxml"
	fmtutil "github.com/arcflux/diskcarve/pkg/util/format"
)

// Options configures one invocation of Run.
type Options struct {
	OutDir      string
	WindowSize  uint64
	MaxFileSize int
	FileExt     []string
	DisableLog  bool
	DryRun      bool
	Logger      *slog.Logger
}

// PartitionResult summarises one partition's scan pass, returned so
// the CLI can print a combined summary across all partitions of a
// device.
type PartitionResult struct {
	Partition   fsys.Partition
	FSType      fsys.FileSystem
	FSEntries   []fsys.FileEntry
	FilesFound  int
	TotalBytes  uint64
	ReportPath  string
	Duration    time.Duration
}

// Run opens devicePath, discovers its partitions (or treats it as one
// unpartitioned volume), and runs one scan pass per partition.
func Run(ctx context.Context, devicePath string, opts Options) ([]PartitionResult, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	r, err := diskio.Open(devicePath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open %q: %w", devicePath, err)
	}
	defer r.Close()

	info := r.Info()
	firstSector, err := r.ReadBytes(0, 512)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read boot sector: %w", err)
	}

	partitions, err := fsys.DiscoverPartitions(firstSector, uint64(info.Size))
	if err != nil {
		return nil, fmt.Errorf("pipeline: discover partitions: %w", err)
	}

	var results []PartitionResult
	for _, p := range partitions {
		res, err := scanPartition(ctx, r, devicePath, p, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func scanPartition(ctx context.Context, r *diskio.Reader, devicePath string, p fsys.Partition, opts Options) (PartitionResult, error) {
	start := time.Now()
	session := GenSessionID()

	// p.Size == 0 means the partition/device size genuinely could not be
	// determined in advance; fall back to the full configured window and
	// let ReadBytes's short-read handling treat an early EOF as the end
	// of the device, rather than reading a 0-byte window.
	size := opts.WindowSize
	if size == 0 {
		size = p.Size
	} else if p.Size > 0 && size > p.Size {
		size = p.Size
	}

	window, err := r.ReadBytes(int64(p.Offset), int(size))
	if err != nil {
		if p.Size == 0 && errors.Is(err, diskio.ErrShortRead) && len(window) > 0 {
			opts.Logger.Debug("short read tolerated as end of device", "partition", p.Num, "got", len(window))
		} else {
			return PartitionResult{}, fmt.Errorf("pipeline: read partition %d window: %w", p.Num, err)
		}
	}

	fsKind := fsys.Unknown
	var fsEntries []fsys.FileEntry
	if len(window) >= 512 {
		fsKind = fsys.Detect(window[:512])
		switch fsKind {
		case fsys.FAT32:
			fsEntries = fsys.AnalyseFAT32(window)
		case fsys.NTFS:
			fsEntries = fsys.AnalyseNTFS(window)
		}
	}

	sigs := sigscan.DefaultCatalog
	if len(opts.FileExt) > 0 {
		sigs, err = sigscan.ByExtension(opts.FileExt...)
		if err != nil {
			return PartitionResult{}, err
		}
	}
	registry := sigscan.NewRegistry(sigs)
	hits := registry.Scan(window)

	reportMgr, err := report.Setup(opts.OutDir)
	if err != nil {
		return PartitionResult{}, err
	}
	defer reportMgr.Close()

	rebuilders := map[report.Category]*rebuild.Rebuilder{}
	rebuilderFor := func(ext string) (*rebuild.Rebuilder, error) {
		cat := report.CategoryFor(ext)
		if rb, ok := rebuilders[cat]; ok {
			return rb, nil
		}
		rb, err := rebuild.New(reportMgr.CategoryPath(ext))
		if err != nil {
			return nil, err
		}
		rebuilders[cat] = rb
		return rb, nil
	}

	reportPath := filepath.Join(opts.OutDir, fmt.Sprintf("report_%s.dfxml", session))
	reportFile, err := os.Create(reportPath)
	if err != nil {
		return PartitionResult{}, err
	}
	defer reportFile.Close()

	dfxmlReport, err := report.NewDFXMLReport(reportFile, dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: devicePath,
			SectorSize:    int(p.BlockSize),
			ImageSize:     p.Size,
		},
	})
	if err != nil {
		return PartitionResult{}, err
	}
	defer dfxmlReport.Close()

	if !opts.DisableLog {
		logPath := filepath.Join(opts.OutDir, fmt.Sprintf("scan_%s.log", session))
		logFile, err := os.Create(logPath)
		if err != nil {
			return PartitionResult{}, err
		}
		defer logFile.Close()
		opts.Logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var totalBytes uint64
	for _, hit := range hits {
		select {
		case <-ctx.Done():
			return PartitionResult{}, ctx.Err()
		default:
		}

		ex, err := extent.Resolve(window, hit, opts.MaxFileSize)
		if err != nil {
			opts.Logger.Warn("unable to resolve extent", "offset", hit.Offset, "ext", hit.Signature.Extension, "err", err)
			continue
		}

		rb, err := rebuilderFor(hit.Signature.Extension)
		if err != nil {
			opts.Logger.Error("unable to open category output dir", "ext", hit.Signature.Extension, "err", err)
			continue
		}

		var rf rebuild.RecoveredFile
		if opts.DryRun {
			rf, err = rb.Describe(ex.Start, ex.End, hit.Signature.Extension)
		} else {
			rf, err = rb.Persist(window, ex.Start, ex.End, hit.Signature.Extension)
		}
		if err != nil {
			opts.Logger.Error("unable to persist carved file", "offset", hit.Offset, "err", err)
			continue
		}

		if md := metadata.Extract(window[ex.Start:ex.End], hit.Signature.Extension); len(md) > 0 {
			args := make([]any, 0, len(md)*2+2)
			args = append(args, "file", rf.Name)
			for k, v := range md {
				args = append(args, k, v)
			}
			opts.Logger.Debug("extracted metadata", args...)
		}

		if err := reportMgr.Register(rf); err != nil {
			opts.Logger.Error("unable to write recovery log entry", "err", err)
		}
		if err := dfxmlReport.WriteFile(rf); err != nil {
			opts.Logger.Error("unable to write DFXML entry", "err", err)
		}

		totalBytes += rf.Size
	}

	reportMgr.Print(os.Stdout)

	return PartitionResult{
		Partition:  p,
		FSType:     fsKind,
		FSEntries:  fsEntries,
		FilesFound: reportMgr.Summary().TotalFiles,
		TotalBytes: totalBytes,
		ReportPath: reportPath,
		Duration:   time.Since(start),
	}, nil
}

// GenSessionID creates a unique session identifier in the
// "YYYYMMDD_HHMMSS" shape the retrieved tool used for report and log
// filenames.
func GenSessionID() string {
	return time.Now().Format("20060102_150405")
}

// FormatDurationHMS formats a duration as HH:MM:SS, or a plain
// seconds count for sub-second durations.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	total := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatBytes is the human-readable byte formatter shared with the
// CLI summary output.
func FormatBytes(n int64) string { return fmtutil.FormatBytes(n) }
