package report_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arcflux/diskcarve/internal/rebuild"
	"github.com/arcflux/diskcarve/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCreatesCategoryDirsAndHeader(t *testing.T) {
	dir := t.TempDir()
	m, err := report.Setup(dir)
	require.NoError(t, err)
	defer m.Close()

	for _, cat := range []string{"images", "documents", "audio", "videos", "archives", "others"} {
		info, err := os.Stat(filepath.Join(dir, cat))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	header, err := os.ReadFile(filepath.Join(dir, "recovery_log.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "=== FILE RECOVERY REPORT ===")
}

func TestRegisterAppendsLogLineAndTracksSummary(t *testing.T) {
	dir := t.TempDir()
	m, err := report.Setup(dir)
	require.NoError(t, err)
	defer m.Close()

	err = m.Register(rebuild.RecoveredFile{
		Name: "recovered_00001.jpg", Extension: "jpg", Path: "/out/recovered_00001.jpg",
		Size: 1024, RecoveredAt: time.Now(),
	})
	require.NoError(t, err)
	err = m.Register(rebuild.RecoveredFile{
		Name: "recovered_00002.pdf", Extension: "pdf", Path: "/out/recovered_00002.pdf",
		Size: 2048, RecoveredAt: time.Now(),
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "recovery_log.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "recovered_00001.jpg | jpg |")
	assert.Contains(t, string(content), "recovered_00002.pdf | pdf |")

	s := m.Summary()
	assert.Equal(t, 2, s.TotalFiles)
	assert.Equal(t, uint64(1024+2048), s.TotalBytes)
	assert.Equal(t, 1, s.Counts[report.Images])
	assert.Equal(t, 1, s.Counts[report.Documents])
}

func TestCategoryForUnknownExtensionFallsBackToOthers(t *testing.T) {
	assert.Equal(t, report.Others, report.CategoryFor("xyz"))
	assert.Equal(t, report.Images, report.CategoryFor("png"))
	assert.Equal(t, report.Archives, report.CategoryFor("zip"))
}
