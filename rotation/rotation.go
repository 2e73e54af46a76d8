package rotation

import (
	"math"
	"sort"
	"time"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// RoundToThousandth округляет число до тысячных (3 знака после запятой)
func RoundToThousandth(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// Вспомогательная структура для накопления посещений комнат пользователем
type userVisits struct {
	username      string
	totalActions  int
	statusChanges int
	roomVisits    map[string]int // Номер комнаты -> количество посещений
}

// ComputeRotation вычисляет метрики ротации комнат для каждого пользователя
// таблицы фактов. Результат отсортирован для представления: худшая ротация
// при реальном объеме действий - первой (rate по возрастанию, затем
// total_actions по убыванию).
func ComputeRotation(
	facts []models.HousekeepingFact,
	config RotationConfig,
	logger *utils.ReportLogger) []RotationRecord {

	logger.Info("Начинаем расчет ротации комнат для таблицы из %d фактов", len(facts))

	// Сворачиваем факты по пользователям, сохраняя порядок первого появления
	byUser := make(map[string]*userVisits)
	order := make([]*userVisits, 0)

	for _, fact := range facts {
		visits, ok := byUser[fact.Username]
		if !ok {
			visits = &userVisits{
				username:   fact.Username,
				roomVisits: make(map[string]int),
			}
			byUser[fact.Username] = visits
			order = append(order, visits)
		}
		visits.totalActions++
		visits.roomVisits[fact.RoomNumber]++
		if fact.Changed {
			visits.statusChanges++
		}
	}

	records := make([]RotationRecord, 0, len(order))
	for _, visits := range order {
		record := RotationRecord{
			Username:      visits.username,
			TotalActions:  visits.totalActions,
			UniqueRooms:   len(visits.roomVisits),
			StatusChanges: visits.statusChanges,
		}

		// По построению у каждого пользователя есть хотя бы одно действие,
		// но деление все равно защищено
		if visits.totalActions > 0 {
			record.RoomUniquenessRate = RoundToThousandth(
				float64(len(visits.roomVisits)) / float64(visits.totalActions))
			record.RoomRandomness = RoundToThousandth(herfindahlComplement(visits))
		}
		// Категория присваивается по округленной метрике: метка всегда
		// согласована с печатаемым значением rate, в том числе у границ
		record.RotationQuality = classifyRate(record.RoomUniquenessRate, config)

		records = append(records, record)
	}

	assignRandomnessRanks(records)

	// Сортировка для представления: худшие показатели с реальным объемом - первыми
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].RoomUniquenessRate != records[j].RoomUniquenessRate {
			return records[i].RoomUniquenessRate < records[j].RoomUniquenessRate
		}
		return records[i].TotalActions > records[j].TotalActions
	})

	logger.Info("Расчет ротации завершен: %d пользователей", len(records))
	return records
}

// herfindahlComplement вычисляет комплемент индекса Херфиндаля распределения
// посещений комнат: 1 - sum((посещения_комнаты / всего_действий)^2).
// Равномерное распределение по многим комнатам дает значение ближе к 1,
// концентрация на одной комнате - ровно 0.
func herfindahlComplement(visits *userVisits) float64 {
	total := float64(visits.totalActions)
	herfindahl := 0.0
	for _, count := range visits.roomVisits {
		share := float64(count) / total
		herfindahl += share * share
	}
	return 1 - herfindahl
}

// classifyRate присваивает категорию качества ротации по границам конфигурации.
// Нижние границы включаются, верхние - нет; верхняя категория замкнута сверху.
func classifyRate(rate float64, config RotationConfig) string {
	switch {
	case rate < config.VeryLowEdge:
		return "Very Low"
	case rate < config.LowEdge:
		return "Low"
	case rate < config.ModerateEdge:
		return "Moderate"
	default:
		return "High"
	}
}

// assignRandomnessRanks присваивает плотные ранги по убыванию randomness.
// Равные значения делят один ранг, нумерация начинается с 1.
func assignRandomnessRanks(records []RotationRecord) {
	// Собираем уникальные значения randomness по убыванию
	values := make([]float64, 0, len(records))
	seen := make(map[float64]bool)
	for _, r := range records {
		if !seen[r.RoomRandomness] {
			seen[r.RoomRandomness] = true
			values = append(values, r.RoomRandomness)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	rankByValue := make(map[float64]int, len(values))
	for i, v := range values {
		rankByValue[v] = i + 1
	}

	for i := range records {
		records[i].RoomRandomnessRank = rankByValue[records[i].RoomRandomness]
	}
}

// SelectCallouts отбирает худших по ротации пользователей с достаточным
// объемом действий. Пользователи ниже порога объема не попадают в callout
// независимо от показателя, чтобы не помечать малые выборки.
func SelectCallouts(records []RotationRecord, config RotationConfig) []RotationRecord {
	flagged := make([]RotationRecord, 0)
	for _, r := range records {
		if r.TotalActions >= config.MinActionsForCallout {
			flagged = append(flagged, r)
		}
	}

	// Записи уже отсортированы порядком представления
	if len(flagged) > config.CalloutSize {
		flagged = flagged[:config.CalloutSize]
	}
	return flagged
}

// NewResult собирает итоговый результат оценки ротации
func NewResult(records, callouts []RotationRecord, config RotationConfig) RotationResult {
	return RotationResult{
		Records:         records,
		Callouts:        callouts,
		CalloutFloor:    config.MinActionsForCallout,
		CalculationDate: time.Now(),
	}
}
