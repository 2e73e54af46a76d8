package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/CameronS/hotel_analytics/models"
	"github.com/CameronS/hotel_analytics/rotation"
	"github.com/CameronS/hotel_analytics/utils"
)

// CSVWriter отвечает за запись CSV-файлов всех представлений отчета
type CSVWriter struct {
	logger *utils.ReportLogger
}

// NewCSVWriter создает новый экземпляр CSVWriter
func NewCSVWriter(logger *utils.ReportLogger) *CSVWriter {
	return &CSVWriter{
		logger: logger,
	}
}

// WriteAll записывает по одному CSV-файлу на каждое представление отчета
// и возвращает список созданных файлов
func (w *CSVWriter) WriteAll(payload *ReportPayload, outDir string) ([]string, error) {
	data := payload.Data
	written := make([]string, 0)

	files := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{
			name:    "summary_" + ViewByDay + ".csv",
			headers: []string{"day", "rows", "unique_rooms", "changed", "change_rate"},
			rows:    groupRows(data.ByDay),
		},
		{
			name:    "summary_" + ViewByRoomType + ".csv",
			headers: []string{"room_type", "rows", "unique_rooms", "changed", "change_rate"},
			rows:    groupRows(data.ByRoomType),
		},
		{
			name:    "summary_" + ViewByHKAfter + ".csv",
			headers: []string{"housekeeper_after", "rows", "unique_rooms", "changed", "change_rate"},
			rows:    groupRows(data.ByHKAfter),
		},
		{
			name:    "summary_" + ViewByUser + ".csv",
			headers: []string{"username", "rows", "unique_rooms", "changed", "change_rate"},
			rows:    groupRows(data.ByUser),
		},
		{
			name:    "summary_hsk_transition_matrix.csv",
			headers: append([]string{"hsk_status_before"}, data.Matrix.After...),
			rows:    matrixRows(&data.Matrix),
		},
		{
			name:    "room_" + ViewUsageByRoomType + ".csv",
			headers: []string{"room_type", "rooms", "total_nights", "avg_nights_per_room"},
			rows:    usageTypeRows(data.UsageByRoomType),
		},
		{
			name:    "room_usage_" + ViewTopRooms + ".csv",
			headers: []string{"room_number", "room_type", "total_nights"},
			rows:    topRoomRows(data.TopRooms),
		},
		{
			name:    "room_usage_" + ViewByFeature + ".csv",
			headers: []string{"feature", "mentions", "total_nights"},
			rows:    featureRows(data.ByFeature),
		},
		{
			name: "username_room_rotation_uniqueness.csv",
			headers: []string{
				"username", "total_actions", "unique_rooms", "status_changes",
				"room_uniqueness_rate", "rotation_quality",
				"room_randomness", "room_randomness_rank",
			},
			rows: rotationRows(payload.Rotation.Records),
		},
	}

	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		if err := writeCSV(path, f.headers, f.rows); err != nil {
			w.logger.Error("Ошибка при записи %s: %v", f.name, err)
			return nil, fmt.Errorf("ошибка при записи %s: %w", f.name, err)
		}
		written = append(written, f.name)
	}

	w.logger.Info("Записано %d CSV-файлов в %s", len(written), outDir)
	return written, nil
}

// writeCSV записывает один CSV-файл с заголовком
func writeCSV(path string, headers []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func groupRows(groups []models.GroupSummary) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			strconv.Itoa(g.Rows),
			strconv.Itoa(g.UniqueRooms),
			strconv.Itoa(g.Changed),
			fmt.Sprintf("%.4f", g.ChangeRate),
		})
	}
	return rows
}

func matrixRows(matrix *models.TransitionMatrix) [][]string {
	rows := make([][]string, 0, len(matrix.Before))
	for i, before := range matrix.Before {
		row := make([]string, 0, len(matrix.After)+1)
		row = append(row, before)
		for j := range matrix.After {
			row = append(row, strconv.Itoa(matrix.Cells[i][j]))
		}
		rows = append(rows, row)
	}
	return rows
}

func usageTypeRows(summaries []models.UsageTypeSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.RoomType,
			strconv.Itoa(s.Rooms),
			FormatNights(s.TotalNights),
			fmt.Sprintf("%.2f", s.AvgNightsPerRoom),
		})
	}
	return rows
}

func topRoomRows(rooms []models.RoomNightsSummary) [][]string {
	rows := make([][]string, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, []string{r.RoomNumber, r.RoomType, FormatNights(r.TotalNights)})
	}
	return rows
}

func featureRows(features []models.FeatureSummary) [][]string {
	rows := make([][]string, 0, len(features))
	for _, f := range features {
		rows = append(rows, []string{
			f.Feature,
			strconv.Itoa(f.Mentions),
			FormatNights(f.TotalNights),
		})
	}
	return rows
}

func rotationRows(records []rotation.RotationRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Username,
			strconv.Itoa(r.TotalActions),
			strconv.Itoa(r.UniqueRooms),
			strconv.Itoa(r.StatusChanges),
			fmt.Sprintf("%.3f", r.RoomUniquenessRate),
			r.RotationQuality,
			fmt.Sprintf("%.3f", r.RoomRandomness),
			strconv.Itoa(r.RoomRandomnessRank),
		})
	}
	return rows
}
