package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/CameronS/hotel_analytics/utils"
)

// HTMLRenderer отвечает за сборку одностраничного report.html.
// Все строковые значения полезной нагрузки проходят через контекстное
// экранирование html/template: прямой интерполяции строк в разметку нет.
type HTMLRenderer struct {
	logger   *utils.ReportLogger
	template *template.Template
}

// NewHTMLRenderer создает новый экземпляр HTMLRenderer
func NewHTMLRenderer(logger *utils.ReportLogger) *HTMLRenderer {
	funcs := template.FuncMap{
		"rate4":  func(v float64) string { return fmt.Sprintf("%.4f", v) },
		"rate3":  func(v float64) string { return fmt.Sprintf("%.3f", v) },
		"avg2":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"nights": FormatNights,
	}

	return &HTMLRenderer{
		logger:   logger,
		template: template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
	}
}

// Render записывает report.html в каталог отчета
func (r *HTMLRenderer) Render(payload *ReportPayload, outDir string) error {
	path := filepath.Join(outDir, "report.html")

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания report.html: %w", err)
	}
	defer file.Close()

	if err := r.template.Execute(file, payload); err != nil {
		r.logger.Error("Ошибка при рендеринге report.html: %v", err)
		return fmt.Errorf("ошибка рендеринга report.html: %w", err)
	}

	r.logger.Info("Записан report.html")
	return nil
}

// Шаблон отчета. Порядок секций фиксирован: заголовок, KPI уборки,
// заметки, графики, таблицы, затем секция использования комнат и
// секция ротации по пользователям.
const reportTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f6f8; color: #1d2733; }
.wrap { max-width: 1100px; margin: 0 auto; padding: 24px; }
h1 { margin-bottom: 4px; }
h2 { margin-top: 36px; border-bottom: 2px solid #d7dce2; padding-bottom: 6px; }
.sub { color: #5b6775; margin-bottom: 18px; }
.pill { background: #e4e9ef; border-radius: 10px; padding: 2px 8px; font-size: 0.85em; }
.card { background: #fff; border: 1px solid #e1e6eb; border-radius: 10px; padding: 14px 16px; margin: 12px 0; }
.card.soft { background: #eef2f6; }
.caption { font-weight: 600; margin-bottom: 8px; }
.muted { color: #5b6775; }
.kpi-wrap { display: flex; flex-wrap: wrap; gap: 10px; }
.kpi-card { background: #fff; border: 1px solid #e1e6eb; border-radius: 10px; padding: 10px 16px; min-width: 120px; }
.kpi-label { color: #5b6775; font-size: 0.8em; }
.kpi { font-size: 1.4em; font-weight: 700; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; }
.charts img { width: 100%; border: 1px solid #e1e6eb; border-radius: 8px; background: #fff; }
table { border-collapse: collapse; width: 100%; font-size: 0.9em; }
th, td { border: 1px solid #e1e6eb; padding: 5px 9px; text-align: left; }
th { background: #eef2f6; }
</style>
</head>
<body>
<div class="wrap">
<h1>{{.Title}}</h1>
<div class="sub">Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}} &bull; Folder: <span class="pill">{{.OutDirName}}</span></div>

<div class="card soft">
<div class="caption">What this report is</div>
<div class="muted">
A clean snapshot of housekeeping status changes and room usage.
It focuses on volume, real changes (Before &ne; After), who closed work, and what room types/features are getting used.
</div>
</div>

<h2>Housekeeping Change Log</h2>
<h3>KPIs</h3>
<div class="kpi-wrap">
{{range .Housekeeping.KPIs}}<div class="kpi-card"><div class="kpi-label">{{.Label}}</div><div class="kpi">{{.Value}}</div></div>
{{end}}</div>

<div class="card">
<div class="caption">Executive notes</div>
{{if .Housekeeping.ExecNotes}}<ul>{{range .Housekeeping.ExecNotes}}<li>{{.}}</li>{{end}}</ul>{{else}}<p class="muted">No notable items.</p>{{end}}
</div>

<h3>Charts</h3>
<div class="charts">
{{range .Housekeeping.Charts}}<div><img src="{{.Filename}}" alt="{{.Title}}" /><div class="muted">{{.Title}}</div></div>
{{end}}</div>

<h3>Summaries</h3>
<div class="card">
<div class="caption">By day</div>
<table>
<tr><th>day</th><th>rows</th><th>unique_rooms</th><th>changed</th><th>change_rate</th></tr>
{{range .Data.ByDay}}<tr><td>{{.Key}}</td><td>{{.Rows}}</td><td>{{.UniqueRooms}}</td><td>{{.Changed}}</td><td>{{rate4 .ChangeRate}}</td></tr>
{{end}}</table>
</div>
<div class="card">
<div class="caption">By room type</div>
<table>
<tr><th>room_type</th><th>rows</th><th>unique_rooms</th><th>changed</th><th>change_rate</th></tr>
{{range .Data.ByRoomType}}<tr><td>{{.Key}}</td><td>{{.Rows}}</td><td>{{.UniqueRooms}}</td><td>{{.Changed}}</td><td>{{rate4 .ChangeRate}}</td></tr>
{{end}}</table>
</div>
<div class="card">
<div class="caption">By housekeeper (After)</div>
<table>
<tr><th>housekeeper_after</th><th>rows</th><th>unique_rooms</th><th>changed</th><th>change_rate</th></tr>
{{range .Data.ByHKAfter}}<tr><td>{{.Key}}</td><td>{{.Rows}}</td><td>{{.UniqueRooms}}</td><td>{{.Changed}}</td><td>{{rate4 .ChangeRate}}</td></tr>
{{end}}</table>
</div>
<div class="card">
<div class="caption">By username</div>
<table>
<tr><th>username</th><th>rows</th><th>unique_rooms</th><th>changed</th><th>change_rate</th></tr>
{{range .Data.ByUser}}<tr><td>{{.Key}}</td><td>{{.Rows}}</td><td>{{.UniqueRooms}}</td><td>{{.Changed}}</td><td>{{rate4 .ChangeRate}}</td></tr>
{{end}}</table>
</div>
<div class="card">
<div class="caption">HSK transition matrix (Before &rarr; After)</div>
<table>
<tr><th>hsk_status_before</th>{{range .Data.Matrix.After}}<th>{{.}}</th>{{end}}</tr>
{{range $i, $before := .Data.Matrix.Before}}<tr><td>{{$before}}</td>{{range $j, $after := $.Data.Matrix.After}}<td>{{index $.Data.Matrix.Cells $i $j}}</td>{{end}}</tr>
{{end}}</table>
</div>

<h2>Room Usage</h2>
<h3>KPIs</h3>
<div class="kpi-wrap">
{{range .RoomUsage.KPIs}}<div class="kpi-card"><div class="kpi-label">{{.Label}}</div><div class="kpi">{{.Value}}</div></div>
{{end}}</div>

<div class="card">
<div class="caption">Executive notes</div>
{{if .RoomUsage.ExecNotes}}<ul>{{range .RoomUsage.ExecNotes}}<li>{{.}}</li>{{end}}</ul>{{else}}<p class="muted">No notable items.</p>{{end}}
</div>

<h3>Charts</h3>
<div class="charts">
{{range .RoomUsage.Charts}}<div><img src="{{.Filename}}" alt="{{.Title}}" /><div class="muted">{{.Title}}</div></div>
{{end}}</div>

<h3>Summaries</h3>
<div class="card">
<div class="caption">Nights by room type</div>
<table>
<tr><th>room_type</th><th>rooms</th><th>total_nights</th><th>avg_nights_per_room</th></tr>
{{range .Data.UsageByRoomType}}<tr><td>{{.RoomType}}</td><td>{{.Rooms}}</td><td>{{nights .TotalNights}}</td><td>{{avg2 .AvgNightsPerRoom}}</td></tr>
{{end}}</table>
</div>
<div class="card">
<div class="caption">Top rooms by nights</div>
<table>
<tr><th>room_number</th><th>room_type</th><th>total_nights</th></tr>
{{range .Data.TopRooms}}<tr><td>{{.RoomNumber}}</td><td>{{.RoomType}}</td><td>{{nights .TotalNights}}</td></tr>
{{end}}</table>
</div>
<div class="card">
<div class="caption">Orientation/Features rollup</div>
<table>
<tr><th>feature</th><th>mentions</th><th>total_nights</th></tr>
{{range .Data.ByFeature}}<tr><td>{{.Feature}}</td><td>{{.Mentions}}</td><td>{{nights .TotalNights}}</td></tr>
{{end}}</table>
</div>

<h2>Room Rotation by Username</h2>
<div class="card">
<div class="caption">How to read this</div>
<p class="muted">
Metric: <b>unique_rooms / total_actions</b>. Lower values = less rotation (more repetition).
Only users with <b>{{.Rotation.CalloutFloor}}+ actions</b> are considered real signals.
</p>
</div>
<div class="card">
<img src="rotation_uniqueness_by_user.png" alt="Room uniqueness by username" style="width:100%" />
</div>
<div class="card">
<div class="caption">Rotation issues (likely not assigning unique rooms)</div>
{{if .Rotation.Callouts}}<ul>
{{range .Rotation.Callouts}}<li><b>{{.Username}}</b>: {{.UniqueRooms}} unique rooms / {{.TotalActions}} actions = <b>{{rate3 .RoomUniquenessRate}}</b> &rarr; {{.RotationQuality}}</li>
{{end}}</ul>
<p class="muted">Quick read: <b>&lt;0.20</b> very low &bull; <b>0.20&ndash;0.40</b> low &bull; <b>0.40&ndash;0.60</b> moderate &bull; <b>&gt;0.60</b> high.</p>
{{else}}<p class="muted">No users met the minimum activity threshold for rotation analysis.</p>{{end}}
</div>
<div class="card">
<div class="caption">Full table</div>
<table>
<tr><th>username</th><th>total_actions</th><th>unique_rooms</th><th>status_changes</th><th>room_uniqueness_rate</th><th>rotation_quality</th><th>room_randomness</th><th>room_randomness_rank</th></tr>
{{range .Rotation.Records}}<tr><td>{{.Username}}</td><td>{{.TotalActions}}</td><td>{{.UniqueRooms}}</td><td>{{.StatusChanges}}</td><td>{{rate3 .RoomUniquenessRate}}</td><td>{{.RotationQuality}}</td><td>{{rate3 .RoomRandomness}}</td><td>{{.RoomRandomnessRank}}</td></tr>
{{end}}</table>
</div>
</div>
</body>
</html>
`
