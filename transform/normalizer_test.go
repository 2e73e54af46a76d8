package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronS/hotel_analytics/config"
	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return NewNormalizer(config.GetConfig(), utils.NewReportLogger(false))
}

func hskTable(rows [][]string) *models.RawTable {
	return &models.RawTable{
		Name:    "Housekeeping Change Log",
		Headers: HousekeepingColumns,
		Rows:    rows,
	}
}

func TestValidateSchemaListsAllMissingColumns(t *testing.T) {
	table := &models.RawTable{
		Name:    "Housekeeping Change Log",
		Headers: []string{"Room Number", "Room Type", "Date"},
	}

	err := ValidateSchema(table, HousekeepingColumns)
	require.Error(t, err)

	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	// Сообщение перечисляет все отсутствующие колонки, не только первую
	assert.ElementsMatch(t, []string{
		"FD Status", "HSK Status Before", "HSK Status After",
		"Housekeeper Before", "Housekeeper After", "Username",
	}, schemaErr.Missing)
	assert.Contains(t, schemaErr.Error(), "Username")
	assert.Contains(t, schemaErr.Error(), "FD Status")
}

func TestNormalizeHousekeepingTrimsAndDefaults(t *testing.T) {
	n := newTestNormalizer(t)

	rows, err := n.NormalizeHousekeeping(hskTable([][]string{
		{"  101 ", " King ", "OCC", " Dirty", "Clean ", "", "  ", "", "1/15/2024 09:30"},
	}))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "101", row.RoomNumber)
	assert.Equal(t, "King", row.RoomType)
	assert.Equal(t, "Dirty", row.HSKStatusBefore)
	assert.Equal(t, "Clean", row.HSKStatusAfter)
	// Пустые категориальные поля получают "Unknown"
	assert.Equal(t, "Unknown", row.HousekeeperBefore)
	assert.Equal(t, "Unknown", row.HousekeeperAfter)
	assert.Equal(t, "Unknown", row.Username)
	require.True(t, row.DateOK)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), row.ParsedDate)
}

func TestNormalizeHousekeepingDateFallbacks(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name   string
		date   string
		wantOK bool
	}{
		{"основной формат", "1/15/2024 09:30", true},
		{"формат с секундами", "1/15/2024 09:30:45", true},
		{"ISO-дата", "2024-01-15", true},
		{"только дата", "1/15/2024", true},
		{"мусор", "not a date", false},
		{"пусто", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := n.NormalizeHousekeeping(hskTable([][]string{
				{"101", "King", "OCC", "Dirty", "Clean", "A", "B", "alice", tc.date},
			}))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			// Нераспознанная дата не отбрасывает строку
			assert.Equal(t, tc.wantOK, rows[0].DateOK)
		})
	}
}

func TestNormalizeHousekeepingAnonymizesNames(t *testing.T) {
	cfg := config.GetConfig()
	cfg.AnonymizeNames = true
	n := NewNormalizer(cfg, utils.NewReportLogger(false))

	rows, err := n.NormalizeHousekeeping(hskTable([][]string{
		{"101", "King", "OCC", "Dirty", "Clean", "Smith, John", "Jane Doe", "", "1/15/2024 09:30"},
	}))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "John S.", rows[0].HousekeeperBefore)
	assert.Equal(t, "Jane D.", rows[0].HousekeeperAfter)
	// Подставленный "Unknown" анонимизация не трогает
	assert.Equal(t, "Unknown", rows[0].Username)
}

func TestNormalizeRoomUsagePreservesRowCount(t *testing.T) {
	n := newTestNormalizer(t)

	table := &models.RawTable{
		Name:    "Room Usage",
		Headers: RoomUsageColumns,
		Rows: [][]string{
			{"R1", "Suite", "3", "Ocean/View"},
			{"R2", "Suite", "", ""},
			{"R3", "King", "x", "Garden"},
		},
	}

	rows, err := n.NormalizeRoomUsage(table)
	require.NoError(t, err)
	assert.Len(t, rows, len(table.Rows))
}

func TestNormalizeRoomUsageMissingColumn(t *testing.T) {
	n := newTestNormalizer(t)

	table := &models.RawTable{
		Name:    "Room Usage",
		Headers: []string{"Room Number", "Room Type"},
	}

	_, err := n.NormalizeRoomUsage(table)
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Number of Nights", "Orientation/Features"}, schemaErr.Missing)
}
