package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/CameronS/hotel_analytics/config"
	"github.com/CameronS/hotel_analytics/extractors"
	"github.com/CameronS/hotel_analytics/fetch"
	"github.com/CameronS/hotel_analytics/report"
	"github.com/CameronS/hotel_analytics/rotation"
	"github.com/CameronS/hotel_analytics/routes"
	"github.com/CameronS/hotel_analytics/transform"
	"github.com/CameronS/hotel_analytics/utils"
)

// PipelineRunner связывает все стадии конвейера отчетов
type PipelineRunner struct {
	config       config.PipelineConfig
	logger       *utils.ReportLogger
	extractor    *extractors.CSVExtractor
	transformer  *transform.Transformer
	rotationProc *rotation.RotationProcessor
	assembler    *report.Assembler
	renderer     *report.Renderer
}

// NewPipelineRunner создает новый экземпляр PipelineRunner
func NewPipelineRunner(cfg config.PipelineConfig) *PipelineRunner {
	// Инициализируем логгер
	logger := utils.NewReportLogger(cfg.EnableDetailedLogging)
	logger.Info("Инициализация конвейера отчетов")

	rotationProc := rotation.NewRotationProcessor(logger)
	rotationProc.SetConfig(rotation.RotationConfig{
		VeryLowEdge:          cfg.RotationBands.VeryLow,
		LowEdge:              cfg.RotationBands.Low,
		ModerateEdge:         cfg.RotationBands.Moderate,
		MinActionsForCallout: cfg.MinActionsForCallout,
		CalloutSize:          cfg.CalloutSize,
	})

	return &PipelineRunner{
		config:       cfg,
		logger:       logger,
		extractor:    extractors.NewCSVExtractor(logger),
		transformer:  transform.NewTransformer(cfg, logger),
		rotationProc: rotationProc,
		assembler:    report.NewAssembler(logger),
		renderer:     report.NewRenderer(logger),
	}
}

// Execute выполняет полный прогон конвейера: извлечение, преобразование,
// оценка ротации, сборка и запись отчета. Возвращает каталог отчета и
// список созданных файлов. Каталог создается только после того, как вся
// аналитика успешно посчитана.
func (r *PipelineRunner) Execute(hskPath, usagePath, outBase string, topN int, now time.Time) (string, []string, error) {
	startTime := time.Now()
	r.logger.LogPipelineStart(hskPath, usagePath)

	if topN < 1 {
		topN = 1
	}

	// 1. Фаза извлечения данных
	extracted, err := r.extractor.Extract(hskPath, usagePath)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка в фазе Extract: %w", err)
	}

	// 2. Фаза преобразования данных
	transformed, err := r.transformer.Transform(extracted, topN)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка в фазе Transform: %w", err)
	}

	// 3. Оценка ротации комнат по пользователям
	rotationResult := r.rotationProc.Process(transformed.HousekeepingFacts)

	// 4. Сборка полезной нагрузки отчета
	outDirName := "report_" + now.Format("20060102_150405")
	payload := r.assembler.Assemble(transformed, rotationResult, outDirName, topN, now)

	// 5. Запись артефактов отчета
	outDir := filepath.Join(outBase, outDirName)
	files, err := r.renderer.Render(payload, outDir)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка при записи отчета: %w", err)
	}

	r.logger.LogPipelineComplete(startTime,
		len(transformed.HousekeepingFacts), len(transformed.RoomUsageFacts), outDir)
	return outDir, files, nil
}

// RunOnce выполняет один прогон конвейера и печатает созданные файлы
func RunOnce(hskPath, usagePath, outBase string, topN int, anonymize bool) {
	cfg := config.GetConfig()
	cfg.AnonymizeNames = anonymize

	runner := NewPipelineRunner(cfg)

	outDir, files, err := runner.Execute(hskPath, usagePath, outBase, topN, time.Now())
	if err != nil {
		log.Fatalf("Ошибка при выполнении конвейера: %v", err)
	}

	fmt.Println("Отчет сгенерирован:", outDir)
	for _, f := range files {
		fmt.Println("  -", f)
	}
}

// RunServe поднимает сервер предпросмотра отчетов с автообновлением.
// Новая выгрузка в watchDir перегенерирует отчет с ней в роли журнала
// уборки и обновляет открытые вкладки.
func RunServe(addr, outBase, watchDir, usagePath string, topN int) {
	cfg := config.GetConfig()
	runner := NewPipelineRunner(cfg)
	logger := runner.logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем сервер...")
		cancel()
	}()

	hub := routes.NewLiveHub(logger)

	if watchDir != "" {
		go func() {
			err := hub.WatchExports(ctx, watchDir, func(path string) error {
				if usagePath == "" {
					logger.Info("Журнал использования не задан, пересборка пропущена")
					return nil
				}
				_, _, err := runner.Execute(path, usagePath, outBase, topN, time.Now())
				return err
			})
			if err != nil {
				logger.Error("Наблюдатель каталога выгрузок завершился: %v", err)
			}
		}()
	}

	// Создаем маршрутизатор
	router := mux.NewRouter()
	routes.SetupRoutes(router, outBase, hub, logger)

	server := &http.Server{Addr: addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("Сервер предпросмотра запущен на %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Ошибка сервера предпросмотра: %v", err)
	}
}

// RunPull выполняет выгрузку экспорта: однократно или по расписанию
func RunPull(exportsDir string, interval time.Duration, once bool, instanceID string) {
	cfg := config.GetConfig()
	fetchCfg := config.GetFetchConfig()
	if exportsDir != "" {
		fetchCfg.ExportsDir = exportsDir
	}
	if interval > 0 {
		fetchCfg.PullInterval = interval
	}

	logger := utils.NewReportLogger(cfg.EnableDetailedLogging)
	fetcher := fetch.NewFetcher(fetchCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем выгрузку...")
		cancel()
	}()

	if once {
		var path string
		var err error
		if instanceID != "" {
			// instanceID уже известен (например, из curl) - браузер не нужен
			path, err = fetcher.PullExport(ctx, instanceID)
		} else {
			path, err = fetcher.Pull(ctx)
		}
		if err != nil {
			log.Fatalf("Ошибка при выгрузке экспорта: %v", err)
		}
		fmt.Println("Выгрузка сохранена:", path)
		return
	}

	scheduler := fetch.NewPullScheduler(fetcher, logger, fetchCfg.PullInterval)
	scheduler.Start(ctx)
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "report", "Режим работы: report, serve или pull")
	hskPtr := flag.String("hsk", "", "Путь к CSV журнала изменений статусов уборки")
	usagePtr := flag.String("usage", "", "Путь к CSV журнала использования комнат")
	outPtr := flag.String("out", "reports", "Базовый каталог для отчетов")
	topPtr := flag.Int("top", 10, "Количество строк в top-N таблицах и графиках")
	anonPtr := flag.Bool("anon", false, "Анонимизировать имена в колонках с именами")
	addrPtr := flag.String("addr", ":8090", "Адрес сервера предпросмотра (только для режима serve)")
	watchPtr := flag.String("watch", "", "Каталог выгрузок для отслеживания (только для режима serve)")
	exportsPtr := flag.String("exports", "exports", "Каталог для сохранения выгрузок (только для режима pull)")
	intervalPtr := flag.Duration("interval", 0, "Интервал между выгрузками (только для режима pull)")
	oncePtr := flag.Bool("once", false, "Выполнить одну выгрузку и выйти (только для режима pull)")
	instancePtr := flag.String("instance", "", "Известный instanceID отчета (только для режима pull)")

	flag.Parse()

	log.Println("Запуск конвейера отчетов в режиме:", *modePtr)

	switch *modePtr {
	case "report":
		if *hskPtr == "" || *usagePtr == "" {
			log.Println("Для режима report обязательны параметры -hsk и -usage")
			os.Exit(1)
		}
		RunOnce(*hskPtr, *usagePtr, *outPtr, *topPtr, *anonPtr)
	case "serve":
		RunServe(*addrPtr, *outPtr, *watchPtr, *usagePtr, *topPtr)
	case "pull":
		RunPull(*exportsPtr, *intervalPtr, *oncePtr, *instancePtr)
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: report, serve, pull")
		os.Exit(1)
	}

	log.Println("Конвейер отчетов завершил работу")
}
