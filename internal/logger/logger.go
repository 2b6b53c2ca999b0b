package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the verbosity level
type LogLevel int

const (
	LogLevelQuiet LogLevel = iota
	LogLevelNormal
	LogLevelVerbose
	LogLevelDebug
)

// ParseLevel maps a CLI level name to a LogLevel, defaulting to normal
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "quiet":
		return LogLevelQuiet
	case "verbose":
		return LogLevelVerbose
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelNormal
	}
}

// Options configures the global logger
type Options struct {
	Level   LogLevel
	File    string
	NoColor bool
	Writer  io.Writer
}

// Logger handles all logging for the DTO generator
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	colors bool
	zl     *zap.Logger
	closer io.Closer
}

var defaultLogger = newLogger(Options{Level: LogLevelNormal, Writer: os.Stdout})

// Init replaces the global logger. The returned closer flushes and closes the log file, if any.
func Init(opts Options) (io.Closer, error) {
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	l := newLogger(opts)

	old := defaultLogger
	defaultLogger = l
	_ = old.zl.Sync()

	return l, nil
}

func newLogger(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	colors := !opts.NoColor && detectColorSupport(w)

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.TimeKey = ""
	consoleCfg.ConsoleSeparator = " "
	consoleCfg.EncodeLevel = bracketLevelEncoder(colors)

	// zap filters nothing; verbosity is decided by LogLevel before a record is built
	enabled := zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(w), enabled)

	l := &Logger{level: opts.Level, colors: colors}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotator), enabled))
		l.closer = rotator
	}

	l.zl = zap.New(core)
	return l
}

// Close flushes buffered entries and closes the log file
func (l *Logger) Close() error {
	_ = l.zl.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func bracketLevelEncoder(colors bool) zapcore.LevelEncoder {
	return func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		text := "[" + lvl.CapitalString() + "]"
		if colors {
			text = colorFor(lvl) + text + ColorReset
		}
		enc.AppendString(text)
	}
}

// ANSI color codes for terminal output
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorGray    = "\033[90m"
)

func colorFor(lvl zapcore.Level) string {
	switch lvl {
	case zapcore.DebugLevel:
		return ColorGray
	case zapcore.InfoLevel:
		return ColorCyan
	case zapcore.WarnLevel:
		return ColorYellow
	default:
		return ColorRed
	}
}

// detectColorSupport checks NO_COLOR and whether the writer is a terminal
func detectColorSupport(w io.Writer) bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (l *Logger) colorize(text, color string) string {
	if l.colors {
		return color + text + ColorReset
	}
	return text
}

func (l *Logger) enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level >= level
}

// SetLevel sets the global log level
func SetLevel(level LogLevel) {
	defaultLogger.mu.Lock()
	defaultLogger.level = level
	defaultLogger.mu.Unlock()
}

// Info logs informational messages (always shown unless quiet)
func Info(format string, args ...any) {
	if defaultLogger.enabled(LogLevelNormal) {
		defaultLogger.zl.Info(fmt.Sprintf(format, args...))
	}
}

// Success logs success messages
func Success(format string, args ...any) {
	if defaultLogger.enabled(LogLevelNormal) {
		defaultLogger.zl.Info(defaultLogger.colorize("✓ ", ColorGreen)+fmt.Sprintf(format, args...), zap.Bool("success", true))
	}
}

// Warning logs warning messages
func Warning(format string, args ...any) {
	if defaultLogger.enabled(LogLevelNormal) {
		defaultLogger.zl.Warn(fmt.Sprintf(format, args...))
	}
}

// Error logs error messages (always shown)
func Error(format string, args ...any) {
	defaultLogger.zl.Error(fmt.Sprintf(format, args...))
}

// Verbose logs detailed information (only in verbose mode)
func Verbose(format string, args ...any) {
	if defaultLogger.enabled(LogLevelVerbose) {
		defaultLogger.zl.Debug(fmt.Sprintf(format, args...))
	}
}

// Debug logs debug information with the caller (only in debug mode)
func Debug(format string, args ...any) {
	if defaultLogger.enabled(LogLevelDebug) {
		defaultLogger.zl.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1)).Debug(fmt.Sprintf(format, args...))
	}
}

// Section prints a section header
func Section(title string) {
	if defaultLogger.enabled(LogLevelNormal) {
		line := strings.Repeat("━", len(title)+4)
		defaultLogger.zl.Info(defaultLogger.colorize(line+"  "+title, ColorBlue))
	}
}

// Step logs a step in the process
func Step(step int, total int, description string) {
	if defaultLogger.enabled(LogLevelNormal) {
		stepText := defaultLogger.colorize(fmt.Sprintf("[%d/%d]", step, total), ColorCyan)
		defaultLogger.zl.Info(stepText+" "+description, zap.Int("step", step), zap.Int("total", total))
	}
}

// Progress logs elapsed time for an operation
func Progress(start time.Time, format string, args ...any) {
	if defaultLogger.enabled(LogLevelVerbose) {
		defaultLogger.zl.Debug(fmt.Sprintf(format, args...), zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	}
}

// Stats logs statistics with keys in sorted order
func Stats(title string, stats map[string]any) {
	if !defaultLogger.enabled(LogLevelVerbose) {
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, stats[k]))
	}
	defaultLogger.zl.Debug(title, fields...)
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return defaultLogger.enabled(LogLevelDebug)
}

// IsVerboseEnabled returns true if verbose logging is enabled
func IsVerboseEnabled() bool {
	return defaultLogger.enabled(LogLevelVerbose)
}

// Fatal logs a fatal error and exits
func Fatal(format string, args ...any) {
	Error(format, args...)
	_ = defaultLogger.Close()
	os.Exit(1)
}
