package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	AppLogger   = "app"
	AuditLogger = "audit"
)

var (
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex

	config *LogConfig
)

// Init sets the configuration used by every logger created afterwards.
// Loggers created before Init keep their previous settings.
func Init(cfg *LogConfig) error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg

	if cfg.Output == "file" || cfg.Output == "both" {
		if err := os.MkdirAll(cfg.LogPath, 0o755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}
	return nil
}

// GetLogger returns the logger registered under name, creating it on first use.
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		config = DefaultConfig()
	}

	if l, ok := loggers[name]; ok {
		return l
	}

	l := createLogger(name)
	loggers[name] = l
	return l
}

func App() *logrus.Logger   { return GetLogger(AppLogger) }
func Audit() *logrus.Logger { return GetLogger(AuditLogger) }

func createLogger(name string) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if config.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(config.LogPath, name+".log"),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	l.SetOutput(io.MultiWriter(writers...))
	l.SetReportCaller(name == AppLogger && level >= logrus.DebugLevel)

	return l
}
