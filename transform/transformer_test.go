package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronS/hotel_analytics/config"
	"github.com/CameronS/hotel_analytics/extractors"
	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

func TestTransformEndToEnd(t *testing.T) {
	transformer := NewTransformer(config.GetConfig(), utils.NewReportLogger(false))

	extracted := &extractors.ExtractedData{
		Housekeeping: hskTable([][]string{
			{"101", "King", "OCC", "Dirty", "Clean", "Maria", "Maria", "alice", "1/15/2024 09:30"},
			{"101", "King", "OCC", "Clean", "Inspected", "Maria", "Jo", "alice", "1/15/2024 14:00"},
			{"101", "King", "OCC", "Inspected", "Inspected", "Jo", "Jo", "alice", "1/16/2024 08:00"},
			{"205", "Suite", "VAC", "Dirty", "Clean", "", "Maria", "bob", "не дата"},
		}),
		RoomUsage: &models.RawTable{
			Name:    "Room Usage",
			Headers: RoomUsageColumns,
			Rows: [][]string{
				{"201", "Suite", "3", "Ocean/View"},
				{"202", "Suite", "2", "Ocean"},
				{"101", "King", "4", ""},
			},
		},
	}

	data, err := transformer.Transform(extracted, 10)
	require.NoError(t, err)

	// Кардинальность фактов совпадает со входом
	require.Len(t, data.HousekeepingFacts, 4)
	require.Len(t, data.RoomUsageFacts, 3)

	// Агрегаты - строгие разбиения таблицы фактов
	for name, groups := range map[string][]models.GroupSummary{
		"by_day":       data.ByDay,
		"by_room_type": data.ByRoomType,
		"by_hk_after":  data.ByHKAfter,
		"by_user":      data.ByUser,
	} {
		total := 0
		for _, g := range groups {
			total += g.Rows
		}
		assert.Equal(t, len(data.HousekeepingFacts), total, "агрегат %s", name)
	}

	// Сумма ячеек матрицы равна количеству фактов
	assert.Equal(t, len(data.HousekeepingFacts), data.Matrix.Total())

	// Нераспознанная дата уходит в замыкающую группу "Unknown"
	require.NotEmpty(t, data.ByDay)
	assert.Equal(t, UnknownDayKey, data.ByDay[len(data.ByDay)-1].Key)
	assert.InDelta(t, 0.75, data.DateParseSuccessRate(), 1e-9)

	// Агрегаты использования комнат
	require.Len(t, data.UsageByRoomType, 2)
	assert.Equal(t, "Suite", data.UsageByRoomType[0].RoomType)
	assert.Equal(t, 5.0, data.UsageByRoomType[0].TotalNights)
	require.Len(t, data.TopRooms, 3)
	assert.Equal(t, "101", data.TopRooms[0].RoomNumber)
}

func TestTransformSchemaErrorIsFatal(t *testing.T) {
	transformer := NewTransformer(config.GetConfig(), utils.NewReportLogger(false))

	extracted := &extractors.ExtractedData{
		Housekeeping: &models.RawTable{
			Name:    "Housekeeping Change Log",
			Headers: []string{"Room Number"},
		},
		RoomUsage: &models.RawTable{
			Name:    "Room Usage",
			Headers: RoomUsageColumns,
		},
	}

	_, err := transformer.Transform(extracted, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Room Type")
}
