package config

import (
	"time"
)

// PipelineConfig содержит конфигурацию аналитического конвейера
type PipelineConfig struct {
	// Форматы разбора даты: основной и запасные (в порядке перебора)
	PrimaryDateLayout   string   `json:"primary_date_layout"`
	FallbackDateLayouts []string `json:"fallback_date_layouts"`

	// Границы категорий качества ротации комнат
	RotationBands struct {
		VeryLow  float64 `json:"very_low"`  // rate < VeryLow -> "Very Low"
		Low      float64 `json:"low"`       // VeryLow <= rate < Low -> "Low"
		Moderate float64 `json:"moderate"`  // Low <= rate < Moderate -> "Moderate", выше -> "High"
	} `json:"rotation_bands"`

	// Минимальное количество действий пользователя для попадания в callout
	MinActionsForCallout int `json:"min_actions_for_callout"`

	// Максимальное количество пользователей в callout
	CalloutSize int `json:"callout_size"`

	// Количество строк в top-N таблицах и графиках по умолчанию
	DefaultTopN int `json:"default_top_n"`

	// Применять ли анонимизацию имен к колонкам с именами
	AnonymizeNames bool `json:"anonymize_names"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// FetchConfig содержит настройки выгрузки CSV-экспорта из PMS
type FetchConfig struct {
	// Базовый адрес обработчика экспорта Telerik
	ExportBase string `json:"export_base"`

	// Страница отчета, на которой браузер перехватывает instanceID
	ReportPageURL string `json:"report_page_url"`

	// Заголовок Cookie авторизованной сессии (вставляется из браузера)
	Cookie string `json:"cookie"`

	// User-Agent, с которым выполняются запросы
	UserAgent string `json:"user_agent"`

	// Каталог для сохранения выгрузок
	ExportsDir string `json:"exports_dir"`

	// Каталог профиля браузера для постоянной сессии
	BrowserProfileDir string `json:"browser_profile_dir"`

	// Таймаут одного запроса выгрузки
	Timeout time.Duration `json:"timeout"`

	// Интервал между запусками в режиме по расписанию
	PullInterval time.Duration `json:"pull_interval"`
}

// Значения конфигурации по умолчанию
var (
	DefaultPipelineConfig = PipelineConfig{
		PrimaryDateLayout: "1/2/2006 15:04",
		FallbackDateLayouts: []string{
			"1/2/2006 15:04:05",
			"1/2/2006",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02",
			time.RFC3339,
		},
		MinActionsForCallout:  10,
		CalloutSize:           8,
		DefaultTopN:           10,
		AnonymizeNames:        false,
		EnableDetailedLogging: true,
	}

	DefaultFetchConfig = FetchConfig{
		ExportBase:        "https://d301.msicloudpm.com",
		ReportPageURL:     "https://d301.msicloudpm.com/Reports/Reports.aspx",
		Cookie:            "", // Вставить значение заголовка Cookie из авторизованного браузера
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0",
		ExportsDir:        "exports",
		BrowserProfileDir: "pw_profile",
		Timeout:           60 * time.Second,
		PullInterval:      6 * time.Hour,
	}
)

// GetConfig возвращает конфигурацию конвейера
func GetConfig() PipelineConfig {
	config := DefaultPipelineConfig

	// Настройка границ категорий ротации
	config.RotationBands.VeryLow = 0.20  // rate < 0.20 - очень низкая ротация
	config.RotationBands.Low = 0.40      // 0.20-0.40 - низкая
	config.RotationBands.Moderate = 0.60 // 0.40-0.60 - умеренная, 0.60+ - высокая

	return config
}

// GetFetchConfig возвращает конфигурацию выгрузки
func GetFetchConfig() FetchConfig {
	return DefaultFetchConfig
}
