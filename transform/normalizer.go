package transform

import (
	"strings"
	"time"

	"github.com/CameronS/hotel_analytics/config"
	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/processor"
	"github.com/CameronS/hotel_analytics/utils"
)

// Обязательные колонки входных таблиц
var (
	HousekeepingColumns = []string{
		"Room Number", "Room Type", "FD Status",
		"HSK Status Before", "HSK Status After",
		"Housekeeper Before", "Housekeeper After",
		"Username", "Date",
	}

	RoomUsageColumns = []string{
		"Room Number", "Room Type", "Number of Nights", "Orientation/Features",
	}
)

// Normalizer отвечает за проверку схемы и нормализацию сырых таблиц
type Normalizer struct {
	config config.PipelineConfig
	logger *utils.ReportLogger
}

// NewNormalizer создает новый экземпляр Normalizer
func NewNormalizer(cfg config.PipelineConfig, logger *utils.ReportLogger) *Normalizer {
	return &Normalizer{
		config: cfg,
		logger: logger,
	}
}

// ValidateSchema проверяет наличие всех обязательных колонок. Возвращает
// SchemaError со списком всех отсутствующих колонок, а не только первой.
func ValidateSchema(table *models.RawTable, required []string) error {
	index := table.ColumnIndex(required)

	missing := make([]string, 0)
	for _, name := range required {
		if index[name] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &models.SchemaError{Table: table.Name, Missing: missing}
	}
	return nil
}

// NormalizeHousekeeping нормализует таблицу журнала уборки: очищает пробелы,
// подставляет "Unknown" в пустые категориальные поля и разбирает дату.
// Количество строк на выходе совпадает с входом.
func (n *Normalizer) NormalizeHousekeeping(table *models.RawTable) ([]models.HousekeepingRow, error) {
	if err := ValidateSchema(table, HousekeepingColumns); err != nil {
		return nil, err
	}

	index := table.ColumnIndex(HousekeepingColumns)
	rows := make([]models.HousekeepingRow, 0, len(table.Rows))

	parsedCount := 0
	for _, raw := range table.Rows {
		cell := func(name string) string {
			i := index[name]
			if i >= len(raw) {
				return ""
			}
			return strings.TrimSpace(raw[i])
		}

		row := models.HousekeepingRow{
			RoomNumber:        cell("Room Number"),
			RoomType:          cell("Room Type"),
			FDStatus:          cell("FD Status"),
			HSKStatusBefore:   cell("HSK Status Before"),
			HSKStatusAfter:    cell("HSK Status After"),
			HousekeeperBefore: defaultUnknown(cell("Housekeeper Before")),
			HousekeeperAfter:  defaultUnknown(cell("Housekeeper After")),
			Username:          defaultUnknown(cell("Username")),
			Date:              cell("Date"),
		}

		if n.config.AnonymizeNames {
			row.HousekeeperBefore = anonymizeKeepUnknown(row.HousekeeperBefore)
			row.HousekeeperAfter = anonymizeKeepUnknown(row.HousekeeperAfter)
			row.Username = anonymizeKeepUnknown(row.Username)
		}

		// Нераспознанная дата не прерывает обработку, а фиксируется
		// и попадает в KPI доли распознанных дат
		row.ParsedDate, row.DateOK = n.parseDate(row.Date)
		if row.DateOK {
			parsedCount++
		}

		rows = append(rows, row)
	}

	n.logger.Debug("Нормализовано %d строк журнала уборки, распознано дат: %d", len(rows), parsedCount)
	return rows, nil
}

// NormalizeRoomUsage нормализует таблицу использования комнат
func (n *Normalizer) NormalizeRoomUsage(table *models.RawTable) ([]models.RoomUsageRow, error) {
	if err := ValidateSchema(table, RoomUsageColumns); err != nil {
		return nil, err
	}

	index := table.ColumnIndex(RoomUsageColumns)
	rows := make([]models.RoomUsageRow, 0, len(table.Rows))

	for _, raw := range table.Rows {
		cell := func(name string) string {
			i := index[name]
			if i >= len(raw) {
				return ""
			}
			return strings.TrimSpace(raw[i])
		}

		rows = append(rows, models.RoomUsageRow{
			RoomNumber: cell("Room Number"),
			RoomType:   cell("Room Type"),
			NightsRaw:  cell("Number of Nights"),
			Features:   cell("Orientation/Features"),
		})
	}

	n.logger.Debug("Нормализовано %d строк журнала использования", len(rows))
	return rows, nil
}

// parseDate разбирает дату основным форматом выгрузки (MM/DD/YYYY HH:MM),
// затем перебирает запасные форматы
func (n *Normalizer) parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(n.config.PrimaryDateLayout, value); err == nil {
		return t, true
	}
	for _, layout := range n.config.FallbackDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// defaultUnknown подставляет "Unknown" вместо пустого значения
func defaultUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}

// anonymizeKeepUnknown обезличивает имя, не трогая подставленный "Unknown"
func anonymizeKeepUnknown(value string) string {
	if value == "Unknown" {
		return value
	}
	return defaultUnknown(processor.AnonymizeName(value))
}
