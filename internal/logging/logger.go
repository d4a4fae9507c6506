package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из строки конфигурации ("debug", "INFO", ...)
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("неизвестный уровень логирования %q", s)
}

// Logger представляет систему логирования компонента.
// Консоль и файл фильтруются по отдельным уровням.
type Logger struct {
	component       string
	consoleLogger   *log.Logger
	fileLogger      *log.Logger
	file            *os.File
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

// Логгер по умолчанию пишет только в консоль
var defaultLogger = &Logger{
	consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
	minConsoleLevel: INFO,
	minFileLevel:    TRACE,
}

// NewLogger создаёт логгер компонента.
// Если dir не пуст, все уровни дополнительно пишутся в файл dir/<component>_<время>.log.
func NewLogger(component, dir string) (*Logger, error) {
	l := &Logger{
		component:       component,
		consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
		minConsoleLevel: INFO,
		minFileLevel:    TRACE,
	}

	if dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	l.file = file
	l.fileLogger = log.New(file, "", log.LstdFlags)
	return l, nil
}

// NewWriterLogger создаёт логгер, пишущий в произвольный writer (используется в тестах)
func NewWriterLogger(component string, w io.Writer, level LogLevel) *Logger {
	return &Logger{
		component:       component,
		consoleLogger:   log.New(w, "", 0),
		minConsoleLevel: level,
		minFileLevel:    level,
	}
}

// SetLevel задаёт минимальный уровень для консоли
func (l *Logger) SetLevel(level LogLevel) {
	l.minConsoleLevel = level
}

// Close закрывает файл логов, если он открыт
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileLogger = nil
	return err
}

func (l *Logger) Trace(format string, args ...interface{}) { l.log(TRACE, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }

// log внутренняя функция для логирования
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}

	message := fmt.Sprintf(format, args...)
	if l.component != "" {
		message = fmt.Sprintf("[%s] [%s] %s", level.String(), l.component, message)
	} else {
		message = fmt.Sprintf("[%s] %s", level.String(), message)
	}

	if l.fileLogger != nil && level >= l.minFileLevel {
		l.fileLogger.Println(message)
	}
	if level >= l.minConsoleLevel {
		l.consoleLogger.Println(message)
	}
}

// InitDefaultLogger заменяет логгер по умолчанию логгером компонента
func InitDefaultLogger(component, dir string) error {
	l, err := NewLogger(component, dir)
	if err != nil {
		return err
	}
	defaultLogger = l
	return nil
}

// SetDefaultLevel задаёт уровень логгера по умолчанию
func SetDefaultLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// CloseDefaultLogger закрывает логгер по умолчанию
func CloseDefaultLogger() {
	_ = defaultLogger.Close()
}

// Trace логирует сообщение уровня TRACE
func Trace(format string, args ...interface{}) { defaultLogger.log(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) { defaultLogger.log(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) { defaultLogger.log(INFO, format, args...) }

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) { defaultLogger.log(WARN, format, args...) }

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) { defaultLogger.log(ERROR, format, args...) }
