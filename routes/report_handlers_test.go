package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronS/hotel_analytics/utils"
)

// makeRun создает в outBase каталог отчета с report.html внутри
func makeRun(t *testing.T, outBase, name string) {
	t.Helper()
	dir := filepath.Join(outBase, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.html"), []byte("<!doctype html>"), 0644))
}

func TestListRunsNewestFirst(t *testing.T) {
	outBase := t.TempDir()
	makeRun(t, outBase, "report_20240101_090000")
	makeRun(t, outBase, "report_20240301_090000")
	makeRun(t, outBase, "report_20240201_090000")

	// Посторонние записи в каталоге игнорируются
	require.NoError(t, os.MkdirAll(filepath.Join(outBase, "tmp"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outBase, "notes.txt"), []byte("x"), 0644))

	runs, err := listRuns(outBase)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Имена каталогов содержат метку времени, свежий запуск - первым
	assert.Equal(t, "report_20240301_090000", runs[0].Name)
	assert.Equal(t, "report_20240201_090000", runs[1].Name)
	assert.Equal(t, "report_20240101_090000", runs[2].Name)
	assert.Equal(t, "/runs/report_20240301_090000/report.html", runs[0].ReportURL)
}

func TestGetRunsHandler(t *testing.T) {
	outBase := t.TempDir()
	makeRun(t, outBase, "report_20240101_090000")

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	GetRunsHandler(outBase, utils.NewReportLogger(false))(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp RunsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, "report_20240101_090000", resp.Runs[0].Name)
	assert.Equal(t, 1, resp.Runs[0].Files)
}

func TestLatestReportHandlerRedirects(t *testing.T) {
	outBase := t.TempDir()
	makeRun(t, outBase, "report_20240101_090000")
	makeRun(t, outBase, "report_20240301_090000")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	LatestReportHandler(outBase, utils.NewReportLogger(false))(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/runs/report_20240301_090000/report.html", rec.Header().Get("Location"))
}

func TestLatestReportHandlerNoRuns(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	LatestReportHandler(t.TempDir(), utils.NewReportLogger(false))(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLiveHubBroadcastWithoutClients(t *testing.T) {
	hub := NewLiveHub(utils.NewReportLogger(false))
	assert.Equal(t, 0, hub.Count())

	// Рассылка без подключенных клиентов безопасна
	hub.Broadcast("reload")
	assert.Equal(t, 0, hub.Count())
}
