package fetch

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/CameronS/hotel_analytics/utils"
)

// PullScheduler запускает выгрузку экспорта по расписанию
type PullScheduler struct {
	fetcher  *Fetcher
	logger   *utils.ReportLogger
	interval time.Duration
}

// NewPullScheduler создает новый экземпляр PullScheduler
func NewPullScheduler(fetcher *Fetcher, logger *utils.ReportLogger, interval time.Duration) *PullScheduler {
	return &PullScheduler{
		fetcher:  fetcher,
		logger:   logger,
		interval: interval,
	}
}

// Start запускает планировщик выгрузок и блокируется до отмены контекста
func (s *PullScheduler) Start(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	s.logger.Info("Запуск планировщика выгрузок с интервалом %v", s.interval)

	_, err := scheduler.Every(s.interval).Do(func() {
		s.logger.Info("Запланированная выгрузка экспорта")
		if _, err := s.fetcher.Pull(ctx); err != nil {
			s.logger.Error("Ошибка при запланированной выгрузке: %v", err)
		}
	})

	if err != nil {
		s.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	s.logger.Info("Планировщик выгрузок остановлен")
}
