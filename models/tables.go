package models

import (
	"time"
)

// RawTable представляет сырую таблицу, прочитанную из CSV-экспорта
type RawTable struct {
	Name    string     // Название таблицы (для сообщений об ошибках)
	Headers []string   // Заголовки колонок в исходном порядке
	Rows    [][]string // Строки данных, все значения - строки
}

// ColumnIndex возвращает индексы колонок по их названиям.
// Отсутствующие колонки получают индекс -1.
func (t *RawTable) ColumnIndex(names []string) map[string]int {
	index := make(map[string]int, len(names))
	for _, name := range names {
		index[name] = -1
	}
	for i, header := range t.Headers {
		if _, ok := index[header]; ok {
			index[header] = i
		}
	}
	return index
}

// HousekeepingRow представляет нормализованную строку журнала изменений
// статусов уборки. Все поля очищены от пробелов, пустые категориальные
// поля заменены на "Unknown".
type HousekeepingRow struct {
	RoomNumber        string    // Номер комнаты
	RoomType          string    // Тип комнаты
	FDStatus          string    // Статус Front Desk
	HSKStatusBefore   string    // Статус уборки до изменения
	HSKStatusAfter    string    // Статус уборки после изменения
	HousekeeperBefore string    // Горничная до изменения
	HousekeeperAfter  string    // Горничная после изменения
	Username          string    // Пользователь, внесший изменение
	Date              string    // Исходная строка даты
	ParsedDate        time.Time // Распознанная дата и время
	DateOK            bool      // Удалось ли распознать дату
}

// HousekeepingFact представляет производный факт изменения статуса,
// ровно один на каждую нормализованную строку
type HousekeepingFact struct {
	HousekeepingRow
	Changed    bool   // Было ли реальное изменение статуса (Before != After)
	Transition string // Метка перехода в формате "Before → After"
	Day        string // День в формате YYYY-MM-DD, пустая строка если дата не распознана
}

// RoomUsageRow представляет нормализованную строку журнала использования комнат
type RoomUsageRow struct {
	RoomNumber string // Номер комнаты
	RoomType   string // Тип комнаты
	NightsRaw  string // Исходное значение количества ночей
	Features   string // Ориентация/особенности комнаты (свободный текст)
}

// RoomUsageFact представляет производный факт использования комнаты
type RoomUsageFact struct {
	RoomUsageRow
	Nights        float64  // Количество ночей (0 при нераспознанном значении)
	FeatureTokens []string // Разобранные токены особенностей
}

// GroupSummary представляет агрегат по одному измерению журнала уборки
type GroupSummary struct {
	Key         string  // Ключ группировки (день, тип комнаты, горничная или пользователь)
	Rows        int     // Количество строк в группе
	UniqueRooms int     // Количество уникальных комнат в группе
	Changed     int     // Количество реальных изменений статуса
	ChangeRate  float64 // Доля реальных изменений (округлена до 4 знаков)
}

// TransitionMatrix представляет плотную матрицу переходов Before x After.
// Строки и колонки отсортированы лексикографически по возрастанию,
// отсутствующие комбинации заполнены нулями.
type TransitionMatrix struct {
	Before []string // Статусы "до", отсортированы
	After  []string // Статусы "после", отсортированы
	Cells  [][]int  // Cells[i][j] - количество переходов Before[i] -> After[j]
}

// Total возвращает сумму всех ячеек матрицы
func (m *TransitionMatrix) Total() int {
	total := 0
	for _, row := range m.Cells {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// UsageTypeSummary представляет агрегат использования по типу комнаты
type UsageTypeSummary struct {
	RoomType         string  // Тип комнаты
	Rooms            int     // Количество уникальных комнат
	TotalNights      float64 // Суммарное количество ночей
	AvgNightsPerRoom float64 // Среднее количество ночей на комнату (2 знака)
}

// RoomNightsSummary представляет суммарные ночи по одной комнате
type RoomNightsSummary struct {
	RoomNumber  string  // Номер комнаты
	RoomType    string  // Тип комнаты
	TotalNights float64 // Суммарное количество ночей
}

// FeatureSummary представляет агрегат по токену особенностей комнаты
type FeatureSummary struct {
	Feature     string  // Токен особенности (например, "Ocean")
	Mentions    int     // Количество упоминаний
	TotalNights float64 // Суммарное количество ночей по комнатам с этой особенностью
}

// TransformedData содержит все трансформированные данные одного запуска конвейера
type TransformedData struct {
	// Факты
	HousekeepingFacts []HousekeepingFact
	RoomUsageFacts    []RoomUsageFact

	// Агрегаты журнала уборки
	ByDay      []GroupSummary
	ByRoomType []GroupSummary
	ByHKAfter  []GroupSummary
	ByUser     []GroupSummary
	Matrix     TransitionMatrix

	// Агрегаты использования комнат
	UsageByRoomType []UsageTypeSummary
	TopRooms        []RoomNightsSummary
	ByFeature       []FeatureSummary
}

// DateParseSuccessRate возвращает долю строк журнала уборки с распознанной датой
func (d *TransformedData) DateParseSuccessRate() float64 {
	if len(d.HousekeepingFacts) == 0 {
		return 0
	}
	parsed := 0
	for _, f := range d.HousekeepingFacts {
		if f.Day != "" {
			parsed++
		}
	}
	return float64(parsed) / float64(len(d.HousekeepingFacts))
}
