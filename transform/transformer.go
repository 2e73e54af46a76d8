package transform

import (
	"fmt"
	"time"

	"github.com/CameronS/hotel_analytics/config"
	"github.com/CameronS/hotel_analytics/extractors"
	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// Transformer координирует преобразование сырых таблиц в факты и агрегаты
type Transformer struct {
	config            config.PipelineConfig
	logger            *utils.ReportLogger
	normalizer        *Normalizer
	factsProcessor    *FactsProcessor
	hskSumProcessor   *HousekeepingSummaryProcessor
	usageSumProcessor *RoomUsageSummaryProcessor
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(cfg config.PipelineConfig, logger *utils.ReportLogger) *Transformer {
	return &Transformer{
		config:            cfg,
		logger:            logger,
		normalizer:        NewNormalizer(cfg, logger),
		factsProcessor:    NewFactsProcessor(logger),
		hskSumProcessor:   NewHousekeepingSummaryProcessor(logger),
		usageSumProcessor: NewRoomUsageSummaryProcessor(logger),
	}
}

// Transform выполняет полный процесс преобразования: нормализация, факты,
// агрегаты. topN управляет размером top-N представлений.
// Каждая стадия создает новую таблицу и не изменяет предыдущие.
func (t *Transformer) Transform(extracted *extractors.ExtractedData, topN int) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Преобразование данных)")

	transformedData := &models.TransformedData{}

	// 1. Нормализация журнала уборки (ошибки схемы фатальны)
	t.logger.Info("Нормализация журнала уборки...")
	hskRows, err := t.normalizer.NormalizeHousekeeping(extracted.Housekeeping)
	if err != nil {
		t.logger.Error("Ошибка при нормализации журнала уборки: %v", err)
		return nil, fmt.Errorf("ошибка при нормализации журнала уборки: %w", err)
	}

	// 2. Нормализация журнала использования
	t.logger.Info("Нормализация журнала использования...")
	usageRows, err := t.normalizer.NormalizeRoomUsage(extracted.RoomUsage)
	if err != nil {
		t.logger.Error("Ошибка при нормализации журнала использования: %v", err)
		return nil, fmt.Errorf("ошибка при нормализации журнала использования: %w", err)
	}

	// 3. Производные факты (кардинальность совпадает с нормализованными таблицами)
	t.logger.Info("Вычисление производных фактов...")
	transformedData.HousekeepingFacts = t.factsProcessor.ProcessHousekeepingFacts(hskRows)
	transformedData.RoomUsageFacts = t.factsProcessor.ProcessRoomUsageFacts(usageRows)

	// 4. Агрегаты журнала уборки
	t.logger.Info("Формирование агрегатов журнала уборки...")
	transformedData.ByDay = t.hskSumProcessor.ProcessByDay(transformedData.HousekeepingFacts)
	transformedData.ByRoomType = t.hskSumProcessor.ProcessByRoomType(transformedData.HousekeepingFacts)
	transformedData.ByHKAfter = t.hskSumProcessor.ProcessByHKAfter(transformedData.HousekeepingFacts)
	transformedData.ByUser = t.hskSumProcessor.ProcessByUser(transformedData.HousekeepingFacts)
	transformedData.Matrix = t.hskSumProcessor.ProcessTransitionMatrix(transformedData.HousekeepingFacts)

	// 5. Агрегаты использования комнат
	t.logger.Info("Формирование агрегатов использования комнат...")
	transformedData.UsageByRoomType = t.usageSumProcessor.ProcessByRoomType(transformedData.RoomUsageFacts)
	transformedData.TopRooms = t.usageSumProcessor.ProcessTopRooms(transformedData.RoomUsageFacts, topN)
	transformedData.ByFeature = t.usageSumProcessor.ProcessByFeature(transformedData.RoomUsageFacts)

	duration := time.Since(startTime)
	t.logger.Info("Фаза Transform завершена. Длительность: %v", duration)

	return transformedData, nil
}
