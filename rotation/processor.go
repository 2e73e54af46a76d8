package rotation

import (
	"time"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// RotationProcessor отвечает за вычисление метрик ротации комнат
type RotationProcessor struct {
	logger *utils.ReportLogger
	config RotationConfig
}

// NewRotationProcessor создает новый экземпляр RotationProcessor
func NewRotationProcessor(logger *utils.ReportLogger) *RotationProcessor {
	return &RotationProcessor{
		logger: logger,
		config: DefaultConfig(),
	}
}

// Process запускает оценку ротации с текущей конфигурацией
func (p *RotationProcessor) Process(facts []models.HousekeepingFact) RotationResult {
	startTime := time.Now()
	p.logger.Info("Запуск оценки ротации комнат")

	records := ComputeRotation(facts, p.config, p.logger)
	callouts := SelectCallouts(records, p.config)

	p.logger.Info("Оценка ротации завершена за %v: %d пользователей, %d в callout",
		time.Since(startTime), len(records), len(callouts))
	return NewResult(records, callouts, p.config)
}

// SetConfig устанавливает конфигурацию оценки ротации
func (p *RotationProcessor) SetConfig(config RotationConfig) {
	p.config = config
}

// GetConfig возвращает текущую конфигурацию оценки ротации
func (p *RotationProcessor) GetConfig() RotationConfig {
	return p.config
}
