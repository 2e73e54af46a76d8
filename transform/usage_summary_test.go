package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// usageFact - короткий конструктор факта использования для тестов
func usageFact(room, roomType string, nights float64, tokens ...string) models.RoomUsageFact {
	fact := models.RoomUsageFact{Nights: nights, FeatureTokens: tokens}
	fact.RoomNumber = room
	fact.RoomType = roomType
	return fact
}

func TestProcessByRoomTypeAggregates(t *testing.T) {
	p := NewRoomUsageSummaryProcessor(utils.NewReportLogger(false))

	facts := []models.RoomUsageFact{
		usageFact("201", "Suite", 3, "Ocean", "View"),
		usageFact("202", "Suite", 2, "Ocean"),
		usageFact("101", "King", 4, "Garden"),
	}

	summaries := p.ProcessByRoomType(facts)
	require.Len(t, summaries, 2)

	suite := summaries[0]
	assert.Equal(t, "Suite", suite.RoomType)
	assert.Equal(t, 2, suite.Rooms)
	assert.Equal(t, 5.0, suite.TotalNights)
	assert.Equal(t, 2.5, suite.AvgNightsPerRoom)

	king := summaries[1]
	assert.Equal(t, "King", king.RoomType)
	assert.Equal(t, 1, king.Rooms)
	assert.Equal(t, 4.0, king.TotalNights)
	assert.Equal(t, 4.0, king.AvgNightsPerRoom)
}

func TestProcessByRoomTypeDuplicateRoomRows(t *testing.T) {
	p := NewRoomUsageSummaryProcessor(utils.NewReportLogger(false))

	// Повторные строки одной комнаты суммируют ночи, но комната уникальна
	facts := []models.RoomUsageFact{
		usageFact("201", "Suite", 3),
		usageFact("201", "Suite", 2),
	}

	summaries := p.ProcessByRoomType(facts)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Rooms)
	assert.Equal(t, 5.0, summaries[0].TotalNights)
	assert.Equal(t, 5.0, summaries[0].AvgNightsPerRoom)
}

func TestProcessTopRooms(t *testing.T) {
	p := NewRoomUsageSummaryProcessor(utils.NewReportLogger(false))

	facts := []models.RoomUsageFact{
		usageFact("101", "King", 1),
		usageFact("201", "Suite", 5),
		usageFact("102", "King", 3),
		usageFact("101", "King", 4), // 101 суммарно 5 ночей
	}

	top := p.ProcessTopRooms(facts, 2)
	require.Len(t, top, 2)

	// Равные суммы разрешаются порядком первого появления комнаты
	assert.Equal(t, "101", top[0].RoomNumber)
	assert.Equal(t, 5.0, top[0].TotalNights)
	assert.Equal(t, "201", top[1].RoomNumber)
	assert.Equal(t, 5.0, top[1].TotalNights)
}

func TestProcessTopRoomsCoercesTopN(t *testing.T) {
	p := NewRoomUsageSummaryProcessor(utils.NewReportLogger(false))

	facts := []models.RoomUsageFact{
		usageFact("101", "King", 1),
		usageFact("102", "King", 2),
	}

	// topN < 1 приводится к 1
	top := p.ProcessTopRooms(facts, 0)
	require.Len(t, top, 1)
	assert.Equal(t, "102", top[0].RoomNumber)

	// topN больше количества комнат возвращает все комнаты
	assert.Len(t, p.ProcessTopRooms(facts, 50), 2)
}

func TestProcessByFeature(t *testing.T) {
	p := NewRoomUsageSummaryProcessor(utils.NewReportLogger(false))

	facts := []models.RoomUsageFact{
		usageFact("201", "Suite", 3, "Ocean", "View"),
		usageFact("202", "Suite", 2, "Ocean"),
		usageFact("101", "King", 3, "View"),
	}

	features := p.ProcessByFeature(facts)
	require.Len(t, features, 2)

	// Ночи строки засчитываются каждому ее токену
	view := features[0]
	assert.Equal(t, "View", view.Feature)
	assert.Equal(t, 2, view.Mentions)
	assert.Equal(t, 6.0, view.TotalNights)

	ocean := features[1]
	assert.Equal(t, "Ocean", ocean.Feature)
	assert.Equal(t, 2, ocean.Mentions)
	assert.Equal(t, 5.0, ocean.TotalNights)
}

func TestRoundToSecond(t *testing.T) {
	assert.Equal(t, 2.5, RoundToSecond(2.5))
	assert.Equal(t, 1.67, RoundToSecond(5.0/3.0))
}
