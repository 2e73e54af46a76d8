package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/utils"
)

// Ограничение количества пользователей на графике ротации,
// чтобы подписи оставались читаемыми
const maxRotationChartUsers = 20

// ChartRenderer отвечает за растеризацию графиков отчета в PNG
type ChartRenderer struct {
	logger *utils.ReportLogger
}

// NewChartRenderer создает новый экземпляр ChartRenderer
func NewChartRenderer(logger *utils.ReportLogger) *ChartRenderer {
	return &ChartRenderer{
		logger: logger,
	}
}

// RenderAll строит все графики из перечня полезной нагрузки.
// Имена файлов берутся из перечня, так как report.html ссылается на них.
func (r *ChartRenderer) RenderAll(payload *ReportPayload, outDir string) error {
	data := payload.Data
	topN := payload.TopN

	for _, spec := range payload.Charts {
		labels, values := chartSeries(spec.Filename, data, payload, topN)

		path := filepath.Join(outDir, spec.Filename)
		if err := renderBarChart(path, spec.Title, labels, values); err != nil {
			r.logger.Error("Ошибка при построении графика %s: %v", spec.Filename, err)
			return fmt.Errorf("ошибка при построении графика %s: %w", spec.Filename, err)
		}
		r.logger.Debug("Построен график %s (%d столбцов)", spec.Filename, len(values))
	}

	r.logger.Info("Построено %d графиков", len(payload.Charts))
	return nil
}

// chartSeries возвращает подписи и значения для графика по его имени файла
func chartSeries(filename string, data *models.TransformedData, payload *ReportPayload, topN int) ([]string, []float64) {
	switch filename {
	case "hsk_changes_by_day.png":
		return groupSeries(data.ByDay, len(data.ByDay), func(g models.GroupSummary) float64 {
			return float64(g.Changed)
		})
	case "hsk_top_room_types.png":
		return groupSeries(data.ByRoomType, topN, func(g models.GroupSummary) float64 {
			return float64(g.Changed)
		})
	case "hsk_top_closers.png":
		return groupSeries(data.ByHKAfter, topN, func(g models.GroupSummary) float64 {
			return float64(g.Changed)
		})
	case "hsk_top_users.png":
		return groupSeries(data.ByUser, topN, func(g models.GroupSummary) float64 {
			return float64(g.Rows)
		})
	case "usage_nights_by_room_type.png":
		labels := make([]string, 0, len(data.UsageByRoomType))
		values := make([]float64, 0, len(data.UsageByRoomType))
		for _, s := range data.UsageByRoomType {
			labels = append(labels, s.RoomType)
			values = append(values, s.TotalNights)
		}
		return labels, values
	case "usage_top_rooms.png":
		labels := make([]string, 0, len(data.TopRooms))
		values := make([]float64, 0, len(data.TopRooms))
		for _, room := range data.TopRooms {
			labels = append(labels, room.RoomNumber)
			values = append(values, room.TotalNights)
		}
		return labels, values
	case "usage_top_features.png":
		limit := min(topN, len(data.ByFeature))
		labels := make([]string, 0, limit)
		values := make([]float64, 0, limit)
		for _, f := range data.ByFeature[:limit] {
			labels = append(labels, f.Feature)
			values = append(values, f.TotalNights)
		}
		return labels, values
	case "rotation_uniqueness_by_user.png":
		limit := min(maxRotationChartUsers, len(payload.Rotation.Records))
		labels := make([]string, 0, limit)
		values := make([]float64, 0, limit)
		for _, rec := range payload.Rotation.Records[:limit] {
			labels = append(labels, rec.Username)
			values = append(values, rec.RoomUniquenessRate)
		}
		return labels, values
	}
	return nil, nil
}

// groupSeries берет первые limit групп агрегата
func groupSeries(groups []models.GroupSummary, limit int, valueFn func(models.GroupSummary) float64) ([]string, []float64) {
	if limit > len(groups) {
		limit = len(groups)
	}
	labels := make([]string, 0, limit)
	values := make([]float64, 0, limit)
	for _, g := range groups[:limit] {
		labels = append(labels, g.Key)
		values = append(values, valueFn(g))
	}
	return labels, values
}

// renderBarChart строит столбчатую диаграмму и сохраняет ее в PNG.
// Пустой ряд дает пустой график с заголовком, а не ошибку.
func renderBarChart(path, title string, labels []string, values []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ""
	p.X.Tick.Label.Rotation = 0.785 // ~45 градусов, чтобы подписи не слипались
	p.X.Tick.Label.XAlign = -1

	if len(values) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = color.RGBA{R: 0x35, G: 0x78, B: 0xb5, A: 0xff}

		p.Add(bars)
		p.NominalX(labels...)
	}

	return p.Save(9*vg.Inch, 3.5*vg.Inch, path)
}
