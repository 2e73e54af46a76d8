package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/rotation"
)

func renderHTML(t *testing.T, payload *ReportPayload) string {
	t.Helper()
	outDir := t.TempDir()

	r := NewHTMLRenderer(testLogger())
	require.NoError(t, r.Render(payload, outDir))

	content, err := os.ReadFile(filepath.Join(outDir, "report.html"))
	require.NoError(t, err)
	return string(content)
}

func TestRenderHTMLSections(t *testing.T) {
	html := renderHTML(t, samplePayload())

	// Порядок секций фиксирован
	assert.Contains(t, html, "Housekeeping Change Log")
	assert.Contains(t, html, "Room Usage")
	assert.Contains(t, html, "Room Rotation by Username")
	assert.Less(t,
		indexOf(t, html, "Housekeeping Change Log"),
		indexOf(t, html, "Room Rotation by Username"))

	// Метаданные запуска
	assert.Contains(t, html, "2024-02-01 12:00:00")
	assert.Contains(t, html, "report_20240201_120000")

	// Графики указаны по фиксированным именам файлов
	assert.Contains(t, html, `src="hsk_changes_by_day.png"`)
	assert.Contains(t, html, `src="rotation_uniqueness_by_user.png"`)

	// Порог callout берется из результата расчета
	assert.Contains(t, html, "10+ actions")
}

func TestRenderHTMLEscapesHostileValues(t *testing.T) {
	data := sampleData()
	hostile := models.HousekeepingFact{Changed: true}
	hostile.Username = `<script>alert("x")</script>`
	data.HousekeepingFacts = append(data.HousekeepingFacts, hostile)
	data.ByUser = append(data.ByUser, models.GroupSummary{
		Key: hostile.Username, Rows: 1, Changed: 1, ChangeRate: 1,
	})

	a := NewAssembler(testLogger())
	payload := a.Assemble(data, sampleRotation(), "report_hostile", 10, time.Now())
	html := renderHTML(t, payload)

	// Значения проходят контекстное экранирование, сырой скрипт не попадает в разметку
	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTMLEmptyCallouts(t *testing.T) {
	payload := samplePayload()
	payload.Rotation = rotation.NewResult(payload.Rotation.Records, nil, rotation.DefaultConfig())

	html := renderHTML(t, payload)
	assert.Contains(t, html, "No users met the minimum activity threshold")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "подстрока %q не найдена", needle)
	return idx
}
