package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// ReportLogger представляет логгер для конвейера отчетов
type ReportLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
}

// NewReportLogger создает новый экземпляр логгера конвейера
func NewReportLogger(verbose bool) *ReportLogger {
	// Создаем или открываем лог-файл для записи
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("report_log_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Не удалось открыть или создать файл лога: %v", err)
	}

	// Инициализируем логгеры для разных уровней
	infoLogger := log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger := log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger := log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return &ReportLogger{
		infoLogger:  infoLogger,
		errorLogger: errorLogger,
		debugLogger: debugLogger,
		isVerbose:   verbose,
	}
}

// Info логирует информационное сообщение
func (l *ReportLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("INFO:", msg)
}

// Error логирует сообщение об ошибке
func (l *ReportLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("ERROR:", msg)
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ReportLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)

	// Также выводим в стандартный вывод
	log.Println("DEBUG:", msg)
}

// LogPipelineStart логирует начало обработки
func (l *ReportLogger) LogPipelineStart(hskPath, usagePath string) {
	l.Info("Начало обработки: журнал уборки %q, журнал использования %q", hskPath, usagePath)
}

// LogPipelineComplete логирует завершение обработки
func (l *ReportLogger) LogPipelineComplete(startTime time.Time, hskRows, usageRows int, outDir string) {
	duration := time.Since(startTime)
	l.Info("Обработка завершена. Длительность: %v", duration)
	l.Info("Обработано: %d строк журнала уборки, %d строк использования. Отчет: %s",
		hskRows, usageRows, outDir)
}
