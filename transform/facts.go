package transform

import (
	"strconv"
	"strings"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// Разделители токенов в колонке Orientation/Features
const featureSeparators = "|/;,"

// FactsProcessor отвечает за вычисление построчных производных фактов
type FactsProcessor struct {
	logger *utils.ReportLogger
}

// NewFactsProcessor создает новый экземпляр FactsProcessor
func NewFactsProcessor(logger *utils.ReportLogger) *FactsProcessor {
	return &FactsProcessor{
		logger: logger,
	}
}

// ProcessHousekeepingFacts вычисляет факты изменения статусов.
// Каждая нормализованная строка дает ровно один факт: строки не
// отбрасываются и не синтезируются, порядок сохраняется.
func (p *FactsProcessor) ProcessHousekeepingFacts(rows []models.HousekeepingRow) []models.HousekeepingFact {
	facts := make([]models.HousekeepingFact, 0, len(rows))

	changedCount := 0
	for _, row := range rows {
		fact := models.HousekeepingFact{
			HousekeepingRow: row,
			Changed:         row.HSKStatusBefore != row.HSKStatusAfter,
			Transition:      row.HSKStatusBefore + " → " + row.HSKStatusAfter,
		}
		if row.DateOK {
			fact.Day = row.ParsedDate.Format("2006-01-02")
		}
		if fact.Changed {
			changedCount++
		}
		facts = append(facts, fact)
	}

	p.logger.Debug("Вычислено %d фактов уборки, реальных изменений: %d", len(facts), changedCount)
	return facts
}

// ProcessRoomUsageFacts вычисляет факты использования комнат. Нераспознанное
// или отрицательное количество ночей трактуется как 0, а не как ошибка.
func (p *FactsProcessor) ProcessRoomUsageFacts(rows []models.RoomUsageRow) []models.RoomUsageFact {
	facts := make([]models.RoomUsageFact, 0, len(rows))

	for _, row := range rows {
		facts = append(facts, models.RoomUsageFact{
			RoomUsageRow:  row,
			Nights:        parseNights(row.NightsRaw),
			FeatureTokens: TokenizeFeatures(row.Features),
		})
	}

	p.logger.Debug("Вычислено %d фактов использования комнат", len(facts))
	return facts
}

// parseNights приводит количество ночей к неотрицательному числу
func parseNights(value string) float64 {
	nights, err := strconv.ParseFloat(value, 64)
	if err != nil || nights < 0 {
		return 0
	}
	return nights
}

// TokenizeFeatures разбивает строку особенностей на токены. Разделители
// "|", "/", ";" и "," равнозначны; токены очищаются от пробелов,
// пустые токены отбрасываются.
func TokenizeFeatures(features string) []string {
	raw := strings.FieldsFunc(features, func(r rune) bool {
		return strings.ContainsRune(featureSeparators, r)
	})

	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
