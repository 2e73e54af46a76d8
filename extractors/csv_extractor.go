package extractors

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/processor"
	"github.com/CameronS/hotel_analytics/utils"
)

// CSVExtractor координирует чтение входных CSV-файлов в таблицы в памяти
type CSVExtractor struct {
	logger *utils.ReportLogger
}

// NewCSVExtractor создает новый экземпляр CSVExtractor
func NewCSVExtractor(logger *utils.ReportLogger) *CSVExtractor {
	return &CSVExtractor{
		logger: logger,
	}
}

// ExtractedData содержит обе входные таблицы одного запуска
type ExtractedData struct {
	Housekeeping *models.RawTable // Журнал изменений статусов уборки
	RoomUsage    *models.RawTable // Журнал использования комнат
}

// Extract читает оба входных файла. Отсутствие любого из файлов фатально
// и проверяется до разбора данных.
func (e *CSVExtractor) Extract(hskPath, usagePath string) (*ExtractedData, error) {
	startTime := time.Now()

	// Сначала проверяем существование обоих файлов, чтобы не начинать
	// разбор при заведомо неполном входе
	for _, path := range []string{hskPath, usagePath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, &models.SourceNotFoundError{Path: path}
		}
	}

	hsk, err := e.ExtractTable(hskPath, "Housekeeping Change Log")
	if err != nil {
		e.logger.Error("Ошибка при чтении журнала уборки: %v", err)
		return nil, fmt.Errorf("ошибка чтения журнала уборки: %w", err)
	}

	usage, err := e.ExtractTable(usagePath, "Room Usage")
	if err != nil {
		e.logger.Error("Ошибка при чтении журнала использования: %v", err)
		return nil, fmt.Errorf("ошибка чтения журнала использования: %w", err)
	}

	e.logger.Info("Извлечение завершено за %v: %d строк уборки, %d строк использования",
		time.Since(startTime), len(hsk.Rows), len(usage.Rows))

	return &ExtractedData{Housekeeping: hsk, RoomUsage: usage}, nil
}

// ExtractTable читает один CSV-файл в таблицу. Файлы с расширением .snappy
// считаются архивными копиями выгрузок и распаковываются прозрачно.
func (e *CSVExtractor) ExtractTable(path, name string) (*models.RawTable, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &models.SourceNotFoundError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".snappy") {
		data, err = processor.DecompressExport(data)
		if err != nil {
			return nil, fmt.Errorf("ошибка распаковки архива %s: %w", path, err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Длину строк проверяет нормализатор по заголовкам

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("файл %s не содержит заголовка", path)
	}

	// Первая строка - заголовки; очищаем их от пробелов сразу,
	// чтобы проверка схемы не зависела от форматирования выгрузки
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &models.RawTable{
		Name:    name,
		Headers: headers,
		Rows:    records[1:],
	}

	e.logger.Debug("Прочитана таблица %q: %d колонок, %d строк", name, len(headers), len(table.Rows))
	return table, nil
}
