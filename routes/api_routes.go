// routes/api_routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CameronS/hotel_analytics/middleware"
	"github.com/CameronS/hotel_analytics/utils"
)

// SetupRoutes настраивает маршруты сервера предпросмотра отчетов
func SetupRoutes(router *mux.Router, outBase string, hub *LiveHub, logger *utils.ReportLogger) {
	// Применяем CORS middleware
	router.Use(middleware.CORSMiddleware)

	// WebSocket-канал автообновления открытых вкладок
	router.HandleFunc("/ws", hub.HandleConnections)

	// API списка сгенерированных отчетов
	router.HandleFunc("/api/runs", GetRunsHandler(outBase, logger)).Methods("GET", "OPTIONS")

	// Последний отчет
	router.HandleFunc("/", LatestReportHandler(outBase, logger)).Methods("GET")

	// Статические файлы всех отчетов
	router.PathPrefix("/runs/").Handler(
		http.StripPrefix("/runs/", http.FileServer(http.Dir(outBase))))
}
