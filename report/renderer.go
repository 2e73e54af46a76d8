package report

import (
	"fmt"
	"os"

	"github.com/CameronS/hotel_analytics/utils"
)

// Renderer координирует запись всех артефактов отчета: CSV-файлов
// представлений, PNG-графиков и report.html
type Renderer struct {
	logger *utils.ReportLogger
	csv    *CSVWriter
	charts *ChartRenderer
	html   *HTMLRenderer
}

// NewRenderer создает новый экземпляр Renderer
func NewRenderer(logger *utils.ReportLogger) *Renderer {
	return &Renderer{
		logger: logger,
		csv:    NewCSVWriter(logger),
		charts: NewChartRenderer(logger),
		html:   NewHTMLRenderer(logger),
	}
}

// Render записывает все артефакты отчета в outDir и возвращает список
// созданных файлов. Каталог создается здесь - после того, как вся
// аналитика уже успешно посчитана.
func (r *Renderer) Render(payload *ReportPayload, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога отчета %s: %w", outDir, err)
	}

	files, err := r.csv.WriteAll(payload, outDir)
	if err != nil {
		return nil, err
	}

	if err := r.charts.RenderAll(payload, outDir); err != nil {
		return nil, err
	}
	for _, spec := range payload.Charts {
		files = append(files, spec.Filename)
	}

	if err := r.html.Render(payload, outDir); err != nil {
		return nil, err
	}
	files = append(files, "report.html")

	return files, nil
}
