package sigscan_test

import (
	"testing"

	"github.com/arcflux/diskcarve/internal/sigscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanEmptyBufferYieldsNoHits(t *testing.T) {
	reg := sigscan.NewRegistry(sigscan.DefaultCatalog)
	assert.Empty(t, reg.Scan(nil))
}

func TestScanJPEGAtOffsetZero(t *testing.T) {
	reg := sigscan.NewRegistry(sigscan.DefaultCatalog)
	buf := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 10)...)
	hits := reg.Scan(buf)
	require.Len(t, hits, 1)
	assert.Equal(t, uint64(0), hits[0].Offset)
	assert.Equal(t, "jpg", hits[0].Signature.Extension)
}

func TestScanOverlappingZipFamilyYieldsFourHits(t *testing.T) {
	reg := sigscan.NewRegistry(sigscan.DefaultCatalog)
	buf := append([]byte{0x50, 0x4B, 0x03, 0x04}, make([]byte, 32)...)

	hits := reg.Scan(buf)
	require.Len(t, hits, 4)

	exts := map[string]bool{}
	for _, h := range hits {
		assert.Equal(t, uint64(0), h.Offset)
		exts[h.Signature.Extension] = true
	}
	assert.True(t, exts["zip"])
	assert.True(t, exts["docx"])
	assert.True(t, exts["xlsx"])
	assert.True(t, exts["pptx"])
}

func TestScanHeaderAtBufferTail(t *testing.T) {
	reg := sigscan.NewRegistry(sigscan.DefaultCatalog)
	buf := make([]byte, 20)
	copy(buf[18:], []byte{0x47, 0x49, 0x46, 0x38})
	// truncate to exactly the header length: offset len-len(magic) is valid.
	buf = append(buf[:18], []byte{0x47, 0x49, 0x46, 0x38}...)

	hits := reg.Scan(buf)
	require.Len(t, hits, 1)
	assert.Equal(t, uint64(18), hits[0].Offset)
}

func TestByExtensionFiltersCatalog(t *testing.T) {
	sigs, err := sigscan.ByExtension("jpg", "png")
	require.NoError(t, err)
	assert.Len(t, sigs, 2)

	_, err = sigscan.ByExtension("not-a-real-ext")
	assert.Error(t, err)
}

func TestScanEveryHitMatchesItsOwnHeaderMagic(t *testing.T) {
	reg := sigscan.NewRegistry(sigscan.DefaultCatalog)
	buf := []byte{
		0xFF, 0xD8, 0xFF, 0x00, 0x00,
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x25, 0x50, 0x44, 0x46,
	}
	hits := reg.Scan(buf)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		end := int(h.Offset) + len(h.Signature.HeaderMagic)
		require.LessOrEqual(t, end, len(buf))
		assert.Equal(t, h.Signature.HeaderMagic, buf[h.Offset:end])
	}
}
