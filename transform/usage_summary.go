package transform

import (
	"math"
	"sort"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// RoundToSecond округляет число до 2 знаков после запятой
func RoundToSecond(value float64) float64 {
	return math.Round(value*100) / 100
}

// RoomUsageSummaryProcessor отвечает за агрегаты журнала использования комнат
type RoomUsageSummaryProcessor struct {
	logger *utils.ReportLogger
}

// NewRoomUsageSummaryProcessor создает новый экземпляр процессора
func NewRoomUsageSummaryProcessor(logger *utils.ReportLogger) *RoomUsageSummaryProcessor {
	return &RoomUsageSummaryProcessor{
		logger: logger,
	}
}

// ProcessByRoomType формирует агрегат ночей по типу комнаты:
// сумма ночей, количество уникальных комнат и среднее на комнату.
// Сортировка - по убыванию суммарных ночей, затем по убыванию комнат.
func (p *RoomUsageSummaryProcessor) ProcessByRoomType(facts []models.RoomUsageFact) []models.UsageTypeSummary {
	type usageAcc struct {
		roomType string
		nights   float64
		rooms    map[string]bool
	}

	byType := make(map[string]*usageAcc)
	order := make([]*usageAcc, 0)

	for _, fact := range facts {
		acc, ok := byType[fact.RoomType]
		if !ok {
			acc = &usageAcc{roomType: fact.RoomType, rooms: make(map[string]bool)}
			byType[fact.RoomType] = acc
			order = append(order, acc)
		}
		acc.nights += fact.Nights
		acc.rooms[fact.RoomNumber] = true
	}

	summaries := make([]models.UsageTypeSummary, 0, len(order))
	for _, acc := range order {
		avg := 0.0
		if len(acc.rooms) > 0 {
			avg = RoundToSecond(acc.nights / float64(len(acc.rooms)))
		}
		summaries = append(summaries, models.UsageTypeSummary{
			RoomType:         acc.roomType,
			Rooms:            len(acc.rooms),
			TotalNights:      acc.nights,
			AvgNightsPerRoom: avg,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].TotalNights != summaries[j].TotalNights {
			return summaries[i].TotalNights > summaries[j].TotalNights
		}
		return summaries[i].Rooms > summaries[j].Rooms
	})

	return summaries
}

// ProcessTopRooms выбирает topN комнат с наибольшей суммой ночей.
// Значение topN меньше 1 приводится к 1; равные значения разрешаются
// исходным порядком появления комнаты в таблице.
func (p *RoomUsageSummaryProcessor) ProcessTopRooms(facts []models.RoomUsageFact, topN int) []models.RoomNightsSummary {
	if topN < 1 {
		topN = 1
	}

	byRoom := make(map[string]*models.RoomNightsSummary)
	order := make([]*models.RoomNightsSummary, 0)

	for _, fact := range facts {
		acc, ok := byRoom[fact.RoomNumber]
		if !ok {
			acc = &models.RoomNightsSummary{
				RoomNumber: fact.RoomNumber,
				RoomType:   fact.RoomType,
			}
			byRoom[fact.RoomNumber] = acc
			order = append(order, acc)
		}
		acc.TotalNights += fact.Nights
	}

	rooms := make([]models.RoomNightsSummary, 0, len(order))
	for _, acc := range order {
		rooms = append(rooms, *acc)
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].TotalNights > rooms[j].TotalNights
	})

	if len(rooms) > topN {
		rooms = rooms[:topN]
	}
	return rooms
}

// ProcessByFeature разворачивает токены особенностей в агрегат
// (токен, упоминания, суммарные ночи). Одна строка дает по одному
// упоминанию на каждый свой токен.
func (p *RoomUsageSummaryProcessor) ProcessByFeature(facts []models.RoomUsageFact) []models.FeatureSummary {
	byFeature := make(map[string]*models.FeatureSummary)
	order := make([]*models.FeatureSummary, 0)

	for _, fact := range facts {
		for _, token := range fact.FeatureTokens {
			acc, ok := byFeature[token]
			if !ok {
				acc = &models.FeatureSummary{Feature: token}
				byFeature[token] = acc
				order = append(order, acc)
			}
			acc.Mentions++
			acc.TotalNights += fact.Nights
		}
	}

	features := make([]models.FeatureSummary, 0, len(order))
	for _, acc := range order {
		features = append(features, *acc)
	}

	sort.SliceStable(features, func(i, j int) bool {
		if features[i].TotalNights != features[j].TotalNights {
			return features[i].TotalNights > features[j].TotalNights
		}
		return features[i].Mentions > features[j].Mentions
	})

	p.logger.Debug("Свод по особенностям: %d токенов", len(features))
	return features
}
