package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartSeriesByFilename(t *testing.T) {
	payload := samplePayload()

	labels, values := chartSeries("hsk_changes_by_day.png", payload.Data, payload, payload.TopN)
	assert.Equal(t, []string{"2024-01-15", "2024-01-16", "Unknown"}, labels)
	assert.Equal(t, []float64{2, 0, 1}, values)

	labels, values = chartSeries("usage_nights_by_room_type.png", payload.Data, payload, payload.TopN)
	assert.Equal(t, []string{"Suite"}, labels)
	assert.Equal(t, []float64{5}, values)

	labels, values = chartSeries("rotation_uniqueness_by_user.png", payload.Data, payload, payload.TopN)
	assert.Equal(t, []string{"alice", "bob"}, labels)
	assert.Equal(t, []float64{0.25, 1}, values)
}

func TestChartSeriesRespectsTopN(t *testing.T) {
	payload := samplePayload()

	labels, _ := chartSeries("hsk_top_users.png", payload.Data, payload, 1)
	assert.Equal(t, []string{"alice"}, labels)
}

func TestRenderAllWritesEveryChart(t *testing.T) {
	outDir := t.TempDir()
	payload := samplePayload()

	r := NewChartRenderer(testLogger())
	require.NoError(t, r.RenderAll(payload, outDir))

	for _, spec := range payload.Charts {
		info, err := os.Stat(filepath.Join(outDir, spec.Filename))
		require.NoError(t, err, "график %s не создан", spec.Filename)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRenderBarChartEmptySeries(t *testing.T) {
	outDir := t.TempDir()

	// Пустой ряд не считается ошибкой
	path := filepath.Join(outDir, "empty.png")
	require.NoError(t, renderBarChart(path, "empty", nil, nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
