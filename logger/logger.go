package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	levelNames = map[Level]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
	}

	levelColors = map[Level]string{
		DEBUG: "\033[36m", // Cyan
		INFO:  "\033[32m", // Green
		WARN:  "\033[33m", // Yellow
		ERROR: "\033[31m", // Red
	}

	resetColor = "\033[0m"
)

// Logger writes levelled lines to the console and, optionally, a daily file.
type Logger struct {
	mu       sync.Mutex
	level    Level
	console  io.Writer
	useColor bool
	extra    []io.Writer
	file     *dailyFile
}

var (
	stdMu  sync.RWMutex
	std    *Logger
	closer func()
)

// Config describes how the logger should be initialised.
type Config struct {
	Level    Level
	LogDir   string
	MaxSize  int64 // bytes before the day's file rolls over
	MaxAge   int   // days of files to keep
	UseColor bool
}

// ParseLevel maps a config string onto a level. Unknown names fall back to INFO.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Initialize installs the global logger. With a LogDir it also writes
// frtu-YYYY-MM-DD.log files there and prunes old ones every hour.
func Initialize(cfg Config) error {
	l := &Logger{
		level:    cfg.Level,
		console:  os.Stdout,
		useColor: cfg.UseColor,
	}

	var stop func()
	if cfg.LogDir != "" {
		f, err := openDailyFile(cfg.LogDir, cfg.MaxSize)
		if err != nil {
			return err
		}
		l.file = f

		done := make(chan struct{})
		go pruneLoop(cfg.LogDir, cfg.MaxAge, done)
		stop = func() {
			close(done)
			f.Close()
		}
	}

	install(l, stop)
	return nil
}

// SetOutput replaces the global logger with one writing plain lines to
// writers. Used by tests and one-shot commands.
func SetOutput(level Level, writers ...io.Writer) {
	install(&Logger{level: level, extra: writers}, nil)
}

// Close flushes and closes the log file, if any.
func Close() {
	install(nil, nil)
}

func install(l *Logger, stop func()) {
	stdMu.Lock()
	prev := closer
	std, closer = l, stop
	stdMu.Unlock()
	if prev != nil {
		prev()
	}
}

func current() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

func (l *Logger) log(level Level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	line := fmt.Sprintf("%s [%s] %s\n", time.Now().Format("2006-01-02 15:04:05.000"), levelNames[level], message)

	if l.console != nil {
		if l.useColor {
			io.WriteString(l.console, colorize(level, line))
		} else {
			io.WriteString(l.console, line)
		}
	}
	if l.file != nil {
		if _, err := io.WriteString(l.file, line); err != nil {
			fmt.Fprintf(os.Stderr, "logger: write file: %v\n", err)
		}
	}
	for _, w := range l.extra {
		io.WriteString(w, line)
	}
}

func colorize(level Level, line string) string {
	body := strings.TrimSuffix(line, "\n")
	return levelColors[level] + body + resetColor + "\n"
}

func logf(level Level, format string, args ...interface{}) {
	if l := current(); l != nil {
		l.log(level, fmt.Sprintf(format, args...))
		return
	}
	log.Printf("["+levelNames[level]+"] "+format, args...)
}

func Debug(format string, args ...interface{}) { logf(DEBUG, format, args...) }

func Info(format string, args ...interface{}) { logf(INFO, format, args...) }

func Warn(format string, args ...interface{}) { logf(WARN, format, args...) }

func Error(format string, args ...interface{}) { logf(ERROR, format, args...) }

// SetLevel updates the global logging level.
func SetLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.level = level
		l.mu.Unlock()
	}
}

// GetLevel returns the current global logging level.
func GetLevel() Level {
	if l := current(); l != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.level
	}
	return INFO
}

// WithFields attaches structured fields to the log entry.
func WithFields(fields map[string]interface{}) *Entry {
	return &Entry{fields: fields}
}

// Entry is a structured log line under construction. Fields render sorted
// by key after the message.
type Entry struct {
	fields map[string]interface{}
}

func (e *Entry) Debug(format string, args ...interface{}) { e.Log(DEBUG, format, args...) }

func (e *Entry) Info(format string, args ...interface{}) { e.Log(INFO, format, args...) }

func (e *Entry) Warn(format string, args ...interface{}) { e.Log(WARN, format, args...) }

func (e *Entry) Error(format string, args ...interface{}) { e.Log(ERROR, format, args...) }

// Log emits the entry at an explicit level.
func (e *Entry) Log(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if len(e.fields) > 0 {
		keys := make([]string, 0, len(e.fields))
		for k := range e.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.fields[k]))
		}
		message = message + " | " + strings.Join(parts, ", ")
	}
	logf(level, "%s", message)
}
