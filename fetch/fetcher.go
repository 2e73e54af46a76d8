package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/CameronS/hotel_analytics/config"
	"github.com/CameronS/hotel_analytics/processor"
	"github.com/CameronS/hotel_analytics/utils"
)

// Fetcher отвечает за выгрузку CSV-экспорта из PMS через авторизованную сессию
type Fetcher struct {
	config config.FetchConfig
	logger *utils.ReportLogger
	client *http.Client
}

// NewFetcher создает новый экземпляр Fetcher
func NewFetcher(cfg config.FetchConfig, logger *utils.ReportLogger) *Fetcher {
	return &Fetcher{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Pull выполняет полный цикл выгрузки: перехватывает instanceID отчета
// через браузерную сессию и скачивает CSV-экспорт. Возвращает путь к
// сохраненному файлу.
func (f *Fetcher) Pull(ctx context.Context) (string, error) {
	instanceID, err := f.DiscoverInstanceID(ctx)
	if err != nil {
		return "", fmt.Errorf("ошибка перехвата instanceID: %w", err)
	}
	return f.PullExport(ctx, instanceID)
}

// PullExport скачивает CSV-экспорт Telerik по известному instanceID.
// HTML в теле ответа означает истекшую сессию: такой ответ сохраняется
// рядом для диагностики и считается ошибкой, а не данными.
func (f *Fetcher) PullExport(ctx context.Context, instanceID string) (string, error) {
	if err := os.MkdirAll(f.config.ExportsDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания каталога выгрузок: %w", err)
	}

	exportURL := fmt.Sprintf("%s/Telerik.ReportViewer.axd?instanceID=%s&optype=Export&ExportFormat=CSV",
		f.config.ExportBase, instanceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса выгрузки: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/csv,*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", f.config.ExportBase+"/")
	if f.config.Cookie != "" {
		req.Header.Set("Cookie", f.config.Cookie)
	}

	f.logger.Info("Запрос выгрузки: instanceID=%s", instanceID)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка запроса выгрузки: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения тела выгрузки: %w", err)
	}

	f.logger.Debug("Ответ выгрузки: статус %d, Content-Type %q, %d байт",
		resp.StatusCode, resp.Header.Get("Content-Type"), len(body))

	ts := time.Now().Format("20060102_150405")

	if LooksLikeHTML(body) {
		// Истекшая сессия или невалидный instanceID: сервер вернул страницу
		// логина вместо данных
		htmlPath := filepath.Join(f.config.ExportsDir, fmt.Sprintf("telerik_export_%s.html", ts))
		if writeErr := os.WriteFile(htmlPath, body, 0644); writeErr != nil {
			f.logger.Error("Получен HTML вместо CSV, сохранить для диагностики не удалось: %v", writeErr)
		} else {
			f.logger.Error("Получен HTML вместо CSV, сохранен для диагностики: %s", htmlPath)
		}
		return "", fmt.Errorf("получен HTML вместо CSV: сессия истекла или instanceID недействителен")
	}

	csvPath := filepath.Join(f.config.ExportsDir, fmt.Sprintf("telerik_export_%s.csv", ts))
	if err := os.WriteFile(csvPath, body, 0644); err != nil {
		return "", fmt.Errorf("ошибка сохранения выгрузки: %w", err)
	}

	// Архивная копия: сжатый двойник выгрузки, читается конвейером напрямую
	archivePath := csvPath + ".snappy"
	if err := os.WriteFile(archivePath, processor.CompressExport(body), 0644); err != nil {
		f.logger.Error("Не удалось записать архивную копию %s: %v", archivePath, err)
	}

	f.logger.Info("Выгрузка сохранена: %s (%d байт)", csvPath, len(body))
	return csvPath, nil
}

// LooksLikeHTML проверяет, похоже ли тело ответа на HTML-страницу
func LooksLikeHTML(body []byte) bool {
	sample := body
	if len(sample) > 500 {
		sample = sample[:500]
	}
	sample = bytes.ToLower(sample)
	return bytes.Contains(sample, []byte("<html")) || bytes.Contains(sample, []byte("<!doctype"))
}
