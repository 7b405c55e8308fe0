package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	logger = newLogger(os.Stdout)

	errorLogPath string
	errorLogOnce sync.Once

	debugLogPath string
	debugLogOnce sync.Once
	debugLogging bool
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

func setupLogging(debug bool) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.Warnf("could not create log directory: %v", err)
	}
	ts := time.Now().Format("20060102-150405")

	errorLogPath = filepath.Join(logDir, fmt.Sprintf("error-%s.log", ts))
	errorLogOnce = sync.Once{}
	logger.SetOutput(os.Stdout)

	setDebugLogging(debug)
}

// openErrorLog tees output into the error log file the first time a
// warning or error is written.
func openErrorLog() {
	if errorLogPath == "" {
		return
	}
	errorLogOnce.Do(func() {
		if f, err := os.Create(errorLogPath); err == nil {
			logger.SetOutput(io.MultiWriter(logger.Out, f))
		}
	})
}

func logError(format string, v ...interface{}) {
	openErrorLog()
	logger.Errorf(format, v...)
}

func logWarn(format string, v ...interface{}) {
	openErrorLog()
	logger.Warnf(format, v...)
}

func logInfo(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

func logDebug(format string, v ...interface{}) {
	if !debugLogging {
		return
	}
	if debugLogPath != "" {
		debugLogOnce.Do(func() {
			if f, err := os.Create(debugLogPath); err == nil {
				logger.AddHook(&fileHook{w: f, levels: []logrus.Level{logrus.DebugLevel}})
			}
		})
	}
	logger.Debugf(format, v...)
}

func setDebugLogging(enabled bool) {
	debugLogging = enabled
	if enabled {
		logDir := "logs"
		if err := os.MkdirAll(logDir, 0755); err != nil {
			logger.Warnf("could not create log directory: %v", err)
		}
		ts := time.Now().Format("20060102-150405")
		debugLogPath = filepath.Join(logDir, fmt.Sprintf("debug-%s.log", ts))
		debugLogOnce = sync.Once{}
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// fileHook copies entries of the given levels to w.
type fileHook struct {
	mu     sync.Mutex
	w      io.Writer
	levels []logrus.Level
}

func (h *fileHook) Levels() []logrus.Level { return h.levels }

func (h *fileHook) Fire(e *logrus.Entry) error {
	b, err := e.Bytes()
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(b)
	return err
}
