package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronS/hotel_analytics/config"
	"github.com/CameronS/hotel_analytics/processor"
	"github.com/CameronS/hotel_analytics/utils"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"doctype", "<!DOCTYPE html><html><body>Login</body></html>", true},
		{"html-тег", "  <HTML><head></head>", true},
		{"CSV", "Room Number,Room Type\n101,King\n", false},
		{"пусто", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LooksLikeHTML([]byte(tc.body)))
		})
	}
}

func TestPullExportSavesCSVAndArchive(t *testing.T) {
	const csvBody = "Room Number,Room Type,Date\n101,King,1/15/2024 09:30\n"

	var gotURL string
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csvBody))
	}))
	defer server.Close()

	cfg := config.GetFetchConfig()
	cfg.ExportBase = server.URL
	cfg.ExportsDir = t.TempDir()
	cfg.Cookie = "ASP.NET_SessionId=abc"

	f := NewFetcher(cfg, utils.NewReportLogger(false))
	instanceID := "0123456789abcdef0123456789abcdef"

	path, err := f.PullExport(context.Background(), instanceID)
	require.NoError(t, err)

	// Запрос идет на обработчик экспорта Telerik с переданным instanceID
	assert.Equal(t,
		"/Telerik.ReportViewer.axd?instanceID="+instanceID+"&optype=Export&ExportFormat=CSV",
		gotURL)
	assert.Equal(t, "ASP.NET_SessionId=abc", gotCookie)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(saved))

	// Рядом записывается сжатый архивный двойник
	archive, err := os.ReadFile(path + ".snappy")
	require.NoError(t, err)
	decompressed, err := processor.DecompressExport(archive)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(decompressed))
}

func TestPullExportRejectsHTMLBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<!DOCTYPE html><html><body>Session expired</body></html>"))
	}))
	defer server.Close()

	cfg := config.GetFetchConfig()
	cfg.ExportBase = server.URL
	cfg.ExportsDir = t.TempDir()

	f := NewFetcher(cfg, utils.NewReportLogger(false))
	_, err := f.PullExport(context.Background(), "0123456789abcdef0123456789abcdef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTML")

	// HTML-ответ сохраняется рядом для диагностики
	entries, readErr := os.ReadDir(cfg.ExportsDir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.Equal(t, ".html", filepath.Ext(entries[0].Name()))
}

func TestInstanceIDPattern(t *testing.T) {
	match := instanceRe.FindStringSubmatch(
		"https://example.com/Telerik.ReportViewer.axd?instanceID=00ff00ff00ff00ff00ff00ff00ff00ff&optype=Parameters")
	require.Len(t, match, 2)
	assert.Equal(t, "00ff00ff00ff00ff00ff00ff00ff00ff", match[1])

	// Короткий или не шестнадцатеричный идентификатор не распознается
	assert.Nil(t, instanceRe.FindStringSubmatch("instanceID=12345"))
	assert.Nil(t, instanceRe.FindStringSubmatch("instanceID=ZZff00ff00ff00ff00ff00ff00ff00ff"))
}
