package lanmac

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCharts(t *testing.T) {
	dir := t.TempDir()
	written, err := RenderCharts(sampleResults(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "slotted-aloha.png"), filepath.Join(dir, "csma-cd.png")}, written)
	for _, filename := range written {
		info, err := os.Stat(filename)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRenderChartsMissingDir(t *testing.T) {
	_, err := RenderCharts(sampleResults(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
