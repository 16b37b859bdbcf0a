// Package logging provides the per-session debug log used by every Nebula
// component. All entries go to ~/.nebula/logs/<session-id>-nebula.log.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes leveled, component-tagged entries to the session log. A nil
// *Logger is valid and drops everything.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	// sessionID names the log file shared by every component of the process.
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is the directory where log files are stored.
	// When empty it defaults to ~/.nebula/logs.
	logDir string

	initOnce sync.Once
	initErr  error

	// mirror receives a copy of every entry when set (see SetMirror).
	mirror   io.Writer
	mirrorMu sync.RWMutex
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			logDir = filepath.Join(homeDir, ".nebula", "logs")
		}
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
	})
	return initErr
}

// SetMirror copies every subsequent log entry to w. Pass nil to stop mirroring.
// The CLI uses this for --verbose.
func SetMirror(w io.Writer) {
	mirrorMu.Lock()
	defer mirrorMu.Unlock()
	mirror = w
}

// NewLogger creates a new logger for a specific component.
//
// If the log directory cannot be created or the log file cannot be opened,
// it returns a fallback logger that writes to stderr along with the error.
// Callers can check the error to detect fallback mode.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-nebula.log", sessID))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return newFallbackLogger(component, fmt.Errorf("failed to open log file: %w", err)), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

// MustLogger is NewLogger for callers that accept the stderr fallback silently.
func MustLogger(component string) *Logger {
	l, _ := NewLogger(component)
	return l
}

// Discard returns a logger that drops everything. Used when a component is
// constructed without a logger.
func Discard(component string) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    log.New(io.Discard, "", 0),
	}
}

// NewWriterLogger returns a logger that writes entries to w.
func NewWriterLogger(component string, w io.Writer) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    log.New(w, "", 0),
	}
}

func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags|log.Lshortfile)
	logger.Printf("WARNING: Failed to initialize file logging: %v", err)
	logger.Printf("Falling back to stderr logging")

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    logger,
	}
}

// level tags an entry. Nothing is filtered by level.
type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// entry renders "[timestamp] [component] [LEVEL] message".
func (l *Logger) entry(lvl level, message string) string {
	return fmt.Sprintf("[%s] [%s] [%s] %s", time.Now().Format(timestampLayout), l.component, lvl, message)
}

func (l *Logger) write(lvl level, format string, v ...any) {
	if l == nil {
		return
	}
	line := l.entry(lvl, fmt.Sprintf(format, v...))

	l.mu.Lock()
	l.logger.Println(line)
	l.mu.Unlock()

	mirrorMu.RLock()
	w := mirror
	mirrorMu.RUnlock()
	if w != nil {
		fmt.Fprintln(w, line)
	}
}

// Printf is Infof, for callers that expect a log.Logger-like method.
func (l *Logger) Printf(format string, v ...any) { l.write(levelInfo, format, v...) }

// Debugf logs at DEBUG.
func (l *Logger) Debugf(format string, v ...any) { l.write(levelDebug, format, v...) }

// Infof logs at INFO.
func (l *Logger) Infof(format string, v ...any) { l.write(levelInfo, format, v...) }

// Warnf logs at WARN. Remote and storage failures that never reach the
// user are written here.
func (l *Logger) Warnf(format string, v ...any) { l.write(levelWarn, format, v...) }

// Errorf logs at ERROR.
func (l *Logger) Errorf(format string, v ...any) { l.write(levelError, format, v...) }

// SessionID returns the session the logger writes under.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, empty for non-file loggers.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetSessionID returns the process-wide session ID, creating it on first use.
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the log directory, creating it if needed.
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
