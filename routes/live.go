// routes/live.go
package routes

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/CameronS/hotel_analytics/utils"
)

// Затишье после последнего события файла, после которого выгрузка
// считается дописанной
const watchDebounce = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// LiveHub рассылает открытым вкладкам сигнал о пересгенерированном отчете
type LiveHub struct {
	logger  *utils.ReportLogger
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewLiveHub создает новый экземпляр LiveHub
func NewLiveHub(logger *utils.ReportLogger) *LiveHub {
	return &LiveHub{
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

// HandleConnections регистрирует новое WebSocket-соединение вкладки
func (h *LiveHub) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Ошибка при апгрейде WebSocket: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Debug("Подключена вкладка предпросмотра, всего: %d", h.Count())

	// Цикл чтения держит соединение и снимает регистрацию закрытой
	// вкладки сразу, не дожидаясь следующей рассылки
	go h.readLoop(conn)
}

// readLoop читает соединение до первой ошибки и удаляет клиента
func (h *LiveHub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			h.logger.Debug("Отключена вкладка предпросмотра, всего: %d", h.Count())
			return
		}
	}
}

// Count возвращает количество подключенных вкладок
func (h *LiveHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast отправляет сообщение всем вкладкам, отбрасывая отвалившиеся
func (h *LiveHub) Broadcast(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// WatchExports следит за каталогом выгрузок и вызывает onNewExport на каждый
// новый CSV-файл, после чего рассылает вкладкам сигнал reload.
// Выгрузка пишется не атомарно: события одного файла коалесцируются
// таймером на путь, пересборка выполняется один раз после затишья.
// Работает до отмены контекста.
func (h *LiveHub) WatchExports(ctx context.Context, dir string, onNewExport func(path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	h.logger.Info("Отслеживаем каталог выгрузок: %s", dir)

	var pendingMu sync.Mutex
	pending := make(map[string]*time.Timer)

	stopPending := func() {
		pendingMu.Lock()
		defer pendingMu.Unlock()
		for _, timer := range pending {
			timer.Stop()
		}
	}
	defer stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Реагируем только на запись и создание: выгрузки
			// сохраняются новыми файлами
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".csv") {
				continue
			}

			pendingMu.Lock()
			if timer, ok := pending[event.Name]; ok {
				// Файл еще дозаписывается, откладываем пересборку
				timer.Reset(watchDebounce)
				pendingMu.Unlock()
				continue
			}
			path := event.Name
			pending[path] = time.AfterFunc(watchDebounce, func() {
				pendingMu.Lock()
				delete(pending, path)
				pendingMu.Unlock()

				h.logger.Info("Новая выгрузка: %s", path)
				if err := onNewExport(path); err != nil {
					h.logger.Error("Ошибка при обработке выгрузки %s: %v", path, err)
					return
				}
				h.Broadcast("reload")
			})
			pendingMu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Error("Ошибка наблюдателя каталога выгрузок: %v", err)
		}
	}
}
