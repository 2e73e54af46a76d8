package transform

import (
	"math"
	"sort"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// UnknownDayKey - ключ группы по дню для строк с нераспознанной датой.
// Такая группа всегда ставится после всех реальных дней, чтобы группировка
// оставалась строгим разбиением таблицы фактов.
const UnknownDayKey = "Unknown"

// RoundToFourth округляет число до 4 знаков после запятой
func RoundToFourth(value float64) float64 {
	return math.Round(value*10000) / 10000
}

// HousekeepingSummaryProcessor отвечает за агрегаты журнала уборки
type HousekeepingSummaryProcessor struct {
	logger *utils.ReportLogger
}

// NewHousekeepingSummaryProcessor создает новый экземпляр процессора агрегатов
func NewHousekeepingSummaryProcessor(logger *utils.ReportLogger) *HousekeepingSummaryProcessor {
	return &HousekeepingSummaryProcessor{
		logger: logger,
	}
}

// Вспомогательная структура для накопления счетчиков группы
type groupAccumulator struct {
	key     string
	rows    int
	changed int
	rooms   map[string]bool
	order   int // Порядок первого появления для стабильных сортировок
}

// groupFacts сворачивает таблицу фактов по ключу в список групп
// в порядке первого появления ключа
func groupFacts(facts []models.HousekeepingFact, keyFn func(models.HousekeepingFact) string) []*groupAccumulator {
	byKey := make(map[string]*groupAccumulator)
	groups := make([]*groupAccumulator, 0)

	for _, fact := range facts {
		key := keyFn(fact)
		acc, ok := byKey[key]
		if !ok {
			acc = &groupAccumulator{
				key:   key,
				rooms: make(map[string]bool),
				order: len(groups),
			}
			byKey[key] = acc
			groups = append(groups, acc)
		}
		acc.rows++
		acc.rooms[fact.RoomNumber] = true
		if fact.Changed {
			acc.changed++
		}
	}
	return groups
}

// toSummaries превращает аккумуляторы в итоговые агрегаты
func toSummaries(groups []*groupAccumulator) []models.GroupSummary {
	summaries := make([]models.GroupSummary, 0, len(groups))
	for _, g := range groups {
		rate := 0.0
		if g.rows > 0 {
			rate = RoundToFourth(float64(g.changed) / float64(g.rows))
		}
		summaries = append(summaries, models.GroupSummary{
			Key:         g.key,
			Rows:        g.rows,
			UniqueRooms: len(g.rooms),
			Changed:     g.changed,
			ChangeRate:  rate,
		})
	}
	return summaries
}

// ProcessByDay формирует агрегат по дням в хронологическом порядке.
// Строки без распознанной даты собираются в замыкающую группу "Unknown".
func (p *HousekeepingSummaryProcessor) ProcessByDay(facts []models.HousekeepingFact) []models.GroupSummary {
	groups := groupFacts(facts, func(f models.HousekeepingFact) string {
		if f.Day == "" {
			return UnknownDayKey
		}
		return f.Day
	})

	// Дни в формате YYYY-MM-DD сортируются хронологически как строки
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		if a == UnknownDayKey {
			return false
		}
		if b == UnknownDayKey {
			return true
		}
		return a < b
	})

	return toSummaries(groups)
}

// ProcessByRoomType формирует агрегат по типам комнат:
// сначала наиболее затронутые изменениями, при равенстве - более объемные
func (p *HousekeepingSummaryProcessor) ProcessByRoomType(facts []models.HousekeepingFact) []models.GroupSummary {
	return p.processByImpact(facts, func(f models.HousekeepingFact) string { return f.RoomType })
}

// ProcessByHKAfter формирует агрегат по закрывающей горничной (Housekeeper After)
func (p *HousekeepingSummaryProcessor) ProcessByHKAfter(facts []models.HousekeepingFact) []models.GroupSummary {
	return p.processByImpact(facts, func(f models.HousekeepingFact) string { return f.HousekeeperAfter })
}

// processByImpact - общая сортировка "по влиянию": изменения по убыванию,
// затем строки по убыванию
func (p *HousekeepingSummaryProcessor) processByImpact(facts []models.HousekeepingFact, keyFn func(models.HousekeepingFact) string) []models.GroupSummary {
	groups := groupFacts(facts, keyFn)

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].changed != groups[j].changed {
			return groups[i].changed > groups[j].changed
		}
		return groups[i].rows > groups[j].rows
	})

	return toSummaries(groups)
}

// ProcessByUser формирует агрегат по пользователям:
// сначала самые активные, при равенстве - с большим числом изменений
func (p *HousekeepingSummaryProcessor) ProcessByUser(facts []models.HousekeepingFact) []models.GroupSummary {
	groups := groupFacts(facts, func(f models.HousekeepingFact) string { return f.Username })

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].rows != groups[j].rows {
			return groups[i].rows > groups[j].rows
		}
		return groups[i].changed > groups[j].changed
	})

	return toSummaries(groups)
}

// ProcessTransitionMatrix строит плотную матрицу переходов Before x After.
// Оси содержат только наблюдаемые статусы, отсортированные лексикографически;
// ненаблюдаемые комбинации заполняются нулями.
func (p *HousekeepingSummaryProcessor) ProcessTransitionMatrix(facts []models.HousekeepingFact) models.TransitionMatrix {
	counts := make(map[string]map[string]int)
	beforeSet := make(map[string]bool)
	afterSet := make(map[string]bool)

	for _, fact := range facts {
		beforeSet[fact.HSKStatusBefore] = true
		afterSet[fact.HSKStatusAfter] = true
		if counts[fact.HSKStatusBefore] == nil {
			counts[fact.HSKStatusBefore] = make(map[string]int)
		}
		counts[fact.HSKStatusBefore][fact.HSKStatusAfter]++
	}

	matrix := models.TransitionMatrix{
		Before: sortedKeys(beforeSet),
		After:  sortedKeys(afterSet),
	}

	matrix.Cells = make([][]int, len(matrix.Before))
	for i, before := range matrix.Before {
		matrix.Cells[i] = make([]int, len(matrix.After))
		for j, after := range matrix.After {
			matrix.Cells[i][j] = counts[before][after]
		}
	}

	p.logger.Debug("Матрица переходов: %d x %d статусов, %d переходов",
		len(matrix.Before), len(matrix.After), matrix.Total())
	return matrix
}

// sortedKeys возвращает ключи множества в лексикографическом порядке
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
