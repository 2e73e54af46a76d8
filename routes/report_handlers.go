// routes/report_handlers.go
package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CameronS/hotel_analytics/utils"
)

// RunInfo описывает один сгенерированный отчет
type RunInfo struct {
	Name      string `json:"name"`      // Имя каталога отчета
	ReportURL string `json:"reportUrl"` // Путь к report.html этого запуска
	Files     int    `json:"files"`     // Количество файлов в каталоге
}

// RunsResponse - ответ API со списком отчетов (новые первыми)
type RunsResponse struct {
	Runs []RunInfo `json:"runs"`
}

// listRuns возвращает каталоги отчетов в outBase, новые первыми.
// Имена вида report_YYYYMMDD_HHMMSS сортируются по времени как строки.
func listRuns(outBase string) ([]RunInfo, error) {
	entries, err := os.ReadDir(outBase)
	if err != nil {
		return nil, err
	}

	runs := make([]RunInfo, 0)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "report_") {
			continue
		}
		files, err := os.ReadDir(filepath.Join(outBase, entry.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, RunInfo{
			Name:      entry.Name(),
			ReportURL: "/runs/" + entry.Name() + "/report.html",
			Files:     len(files),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Name > runs[j].Name
	})
	return runs, nil
}

// GetRunsHandler возвращает обработчик списка сгенерированных отчетов
func GetRunsHandler(outBase string, logger *utils.ReportLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := listRuns(outBase)
		if err != nil {
			logger.Error("Ошибка при чтении каталога отчетов: %v", err)
			http.Error(w, "не удалось прочитать каталог отчетов", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(RunsResponse{Runs: runs}); err != nil {
			logger.Error("Ошибка при сериализации списка отчетов: %v", err)
		}
	}
}

// LatestReportHandler перенаправляет на report.html последнего запуска
func LatestReportHandler(outBase string, logger *utils.ReportLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := listRuns(outBase)
		if err != nil || len(runs) == 0 {
			http.Error(w, "отчеты еще не сгенерированы", http.StatusNotFound)
			return
		}
		http.Redirect(w, r, runs[0].ReportURL, http.StatusFound)
	}
}
