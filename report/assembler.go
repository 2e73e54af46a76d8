package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/rotation"
	"github.com/CameronS/hotel_analytics/utils"
)

// Фиксированные имена представлений отчета. Именно под этими ключами
// агрегаты попадают в полезную нагрузку и в имена CSV-файлов.
const (
	ViewByDay             = "by_day"
	ViewByRoomType        = "by_room_type"
	ViewByHKAfter         = "by_hk_after"
	ViewByUser            = "by_user"
	ViewTransitionMatrix  = "transition_matrix"
	ViewUsageByRoomType   = "usage_by_room_type"
	ViewTopRooms          = "top_rooms"
	ViewByFeature         = "by_feature"
	ViewUniquenessByUser  = "uniqueness_by_user"
)

// ChartSpec описывает один график отчета: имя файла и подпись.
// Имена файлов - часть контракта: report.html ссылается на них напрямую.
type ChartSpec struct {
	Filename string // Имя PNG-файла внутри каталога отчета
	Title    string // Подпись графика
}

// KPI представляет один показатель с подписью
type KPI struct {
	Label string
	Value string
}

// SectionPayload содержит показатели, заметки и графики одной секции отчета
type SectionPayload struct {
	KPIs      []KPI
	ExecNotes []string
	Charts    []ChartSpec
}

// ReportPayload - единственный интерфейс между аналитикой и слоем отображения.
// Ассемблер не выполняет файловый ввод-вывод.
type ReportPayload struct {
	Title        string
	GeneratedAt  time.Time
	OutDirName   string
	TopN         int
	Housekeeping SectionPayload
	RoomUsage    SectionPayload
	Rotation     rotation.RotationResult
	Data         *models.TransformedData
	Charts       []ChartSpec // Полный перечень графиков в порядке объявления
}

// Перечень графиков отчета. Порядок объявления фиксирован, чтобы
// компоновка отчета была детерминированной между запусками.
var chartInventory = []ChartSpec{
	{Filename: "hsk_changes_by_day.png", Title: "Real changes by day"},
	{Filename: "hsk_top_room_types.png", Title: "Top room types by changes"},
	{Filename: "hsk_top_closers.png", Title: "Top closers (Housekeeper After)"},
	{Filename: "hsk_top_users.png", Title: "Top usernames by actions"},
	{Filename: "usage_nights_by_room_type.png", Title: "Nights by room type"},
	{Filename: "usage_top_rooms.png", Title: "Top rooms by nights"},
	{Filename: "usage_top_features.png", Title: "Top features by nights"},
	{Filename: "rotation_uniqueness_by_user.png", Title: "Room uniqueness by username"},
}

// Assembler собирает полезную нагрузку отчета из агрегатов и метрик ротации
type Assembler struct {
	logger *utils.ReportLogger
}

// NewAssembler создает новый экземпляр Assembler
func NewAssembler(logger *utils.ReportLogger) *Assembler {
	return &Assembler{
		logger: logger,
	}
}

// Assemble объединяет все агрегаты, KPI и заметки в полезную нагрузку отчета.
// generatedAt передается снаружи, чтобы повторный запуск на тех же данных
// давал идентичный результат.
func (a *Assembler) Assemble(
	data *models.TransformedData,
	rotationResult rotation.RotationResult,
	outDirName string,
	topN int,
	generatedAt time.Time) *ReportPayload {

	a.logger.Info("Сборка полезной нагрузки отчета")

	payload := &ReportPayload{
		Title:       "Housekeeping & Room Usage Report",
		GeneratedAt: generatedAt,
		OutDirName:  outDirName,
		TopN:        topN,
		Rotation:    rotationResult,
		Data:        data,
		Charts:      chartInventory,
	}

	payload.Housekeeping = SectionPayload{
		KPIs:      a.housekeepingKPIs(data),
		ExecNotes: a.housekeepingNotes(data),
		Charts:    chartInventory[0:4],
	}
	payload.RoomUsage = SectionPayload{
		KPIs:      a.roomUsageKPIs(data),
		ExecNotes: a.roomUsageNotes(data),
		Charts:    chartInventory[4:7],
	}

	return payload
}

// housekeepingKPIs формирует показатели секции журнала уборки
func (a *Assembler) housekeepingKPIs(data *models.TransformedData) []KPI {
	totalRows := len(data.HousekeepingFacts)
	changed := 0
	rooms := make(map[string]bool)
	users := make(map[string]bool)
	for _, f := range data.HousekeepingFacts {
		if f.Changed {
			changed++
		}
		rooms[f.RoomNumber] = true
		users[f.Username] = true
	}

	changeRate := 0.0
	if totalRows > 0 {
		changeRate = float64(changed) / float64(totalRows)
	}

	return []KPI{
		{Label: "Rows", Value: strconv.Itoa(totalRows)},
		{Label: "Real changes", Value: strconv.Itoa(changed)},
		{Label: "Change rate", Value: fmt.Sprintf("%.1f%%", changeRate*100)},
		{Label: "Date parse success", Value: fmt.Sprintf("%.1f%%", data.DateParseSuccessRate()*100)},
		{Label: "Unique rooms", Value: strconv.Itoa(len(rooms))},
		{Label: "Users", Value: strconv.Itoa(len(users))},
	}
}

// roomUsageKPIs формирует показатели секции использования комнат
func (a *Assembler) roomUsageKPIs(data *models.TransformedData) []KPI {
	rooms := make(map[string]bool)
	totalNights := 0.0
	mentions := 0
	for _, f := range data.RoomUsageFacts {
		rooms[f.RoomNumber] = true
		totalNights += f.Nights
		mentions += len(f.FeatureTokens)
	}

	avg := 0.0
	if len(rooms) > 0 {
		avg = totalNights / float64(len(rooms))
	}

	return []KPI{
		{Label: "Rooms", Value: strconv.Itoa(len(rooms))},
		{Label: "Total nights", Value: FormatNights(totalNights)},
		{Label: "Avg nights per room", Value: fmt.Sprintf("%.2f", avg)},
		{Label: "Feature mentions", Value: strconv.Itoa(mentions)},
	}
}

// housekeepingNotes формирует заметки по верхним строкам отсортированных
// агрегатов. Заметка создается только если агрегат не пуст.
func (a *Assembler) housekeepingNotes(data *models.TransformedData) []string {
	notes := make([]string, 0)

	if len(data.ByRoomType) > 0 {
		top := data.ByRoomType[0]
		notes = append(notes, fmt.Sprintf(
			"Most changed room type: %s (%d real changes across %d rows)",
			top.Key, top.Changed, top.Rows))
	}
	if len(data.ByHKAfter) > 0 {
		top := data.ByHKAfter[0]
		notes = append(notes, fmt.Sprintf(
			"Top closer: %s (%d real changes)", top.Key, top.Changed))
	}
	if len(data.ByUser) > 0 {
		top := data.ByUser[0]
		notes = append(notes, fmt.Sprintf(
			"Most active user: %s (%d actions, %d real changes)",
			top.Key, top.Rows, top.Changed))
	}

	return notes
}

// roomUsageNotes формирует заметки секции использования комнат
func (a *Assembler) roomUsageNotes(data *models.TransformedData) []string {
	notes := make([]string, 0)

	if len(data.UsageByRoomType) > 0 {
		top := data.UsageByRoomType[0]
		notes = append(notes, fmt.Sprintf(
			"Most used room type: %s (%s nights across %d rooms)",
			top.RoomType, FormatNights(top.TotalNights), top.Rooms))
	}
	if len(data.TopRooms) > 0 {
		top := data.TopRooms[0]
		notes = append(notes, fmt.Sprintf(
			"Most used room: %s (%s nights)", top.RoomNumber, FormatNights(top.TotalNights)))
	}
	if len(data.ByFeature) > 0 {
		top := data.ByFeature[0]
		notes = append(notes, fmt.Sprintf(
			"Top feature: %s (%s nights, %d mentions)",
			top.Feature, FormatNights(top.TotalNights), top.Mentions))
	}

	return notes
}

// FormatNights печатает количество ночей без хвостовых нулей
func FormatNights(nights float64) string {
	return strconv.FormatFloat(nights, 'f', -1, 64)
}
