package delivery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveFileCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "2025")
	path, e := SaveFile(dir, "credit-card-analysis-2025-03-14.pdf", []byte("%PDF-1.3"))
	require.Nil(t, e)
	assert.Equal(t, filepath.Join(dir, "credit-card-analysis-2025-03-14.pdf"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(content))
}

func TestSaveFileStripsDirectoriesFromName(t *testing.T) {
	dir := t.TempDir()
	path, e := SaveFile(dir, "../../escape.png", []byte("x"))
	require.Nil(t, e)
	assert.Equal(t, filepath.Join(dir, "escape.png"), path)
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "analysis.json")
	require.Nil(t, SaveJSONToFile(path, map[string]int{"pages": 2}))

	var loaded map[string]int
	require.Nil(t, LoadJSONFromFile(path, &loaded))
	assert.Equal(t, 2, loaded["pages"])

	assert.NotNil(t, LoadJSONFromFile(filepath.Join(t.TempDir(), "missing.json"), &loaded))
}

func TestAttachmentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename=spending-chart-2025-03-14.png`, AttachmentDisposition("spending-chart-2025-03-14.png"))
	assert.Equal(t, `attachment; filename="my report.pdf"`, AttachmentDisposition("my report.pdf"))
}
