package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arcflux/diskcarve/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildImageWithJPEG() []byte {
	img := make([]byte, 4096)
	copy(img[512:], []byte{0xFF, 0xD8, 0xFF, 0xE0})
	copy(img[512+200:], []byte{0xFF, 0xD9})
	return img
}

func writeImage(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "image.dd")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunRecoversFileFromFlatImage(t *testing.T) {
	imagePath := writeImage(t, buildImageWithJPEG())
	outDir := t.TempDir()

	results, err := pipeline.Run(context.Background(), imagePath, pipeline.Options{
		OutDir:      outDir,
		MaxFileSize: 1 << 20,
		DisableLog:  true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 1, res.FilesFound)
	assert.Greater(t, res.TotalBytes, uint64(0))

	entries, err := os.ReadDir(filepath.Join(outDir, "images"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = os.Stat(res.ReportPath)
	require.NoError(t, err)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	imagePath := writeImage(t, buildImageWithJPEG())
	outDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Run(ctx, imagePath, pipeline.Options{
		OutDir:      outDir,
		MaxFileSize: 1 << 20,
		DisableLog:  true,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatDurationHMS(t *testing.T) {
	assert.Equal(t, "00:00:05", pipeline.FormatDurationHMS(5e9))
	assert.Equal(t, "01:01:01", pipeline.FormatDurationHMS(3661e9))
}
