// Package log is the process-wide logger: a detailed file log plus short
// coloured console lines for successes and failures.
package log

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var (
	Logger        = zap.NewNop() // file log, every level
	consoleLogger = zap.NewNop() // SUCCESS and ERROR lines
	mu            sync.Mutex
	closers       []io.Closer
)

// Options configures Init.
type Options struct {
	// Dir holds app.log. Empty disables the file log.
	Dir string
	// Level is the minimum file log level (debug, info, warn, error).
	Level string
	// Console receives the short lines; nil means stderr.
	Console io.Writer
}

// Init replaces the loggers. It may be called again, e.g. after flags are
// parsed.
func Init(opts Options) error {
	level := zapcore.DebugLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	file := zap.NewNop()
	var closer io.Closer
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		w, err := openLogFile(filepath.Join(opts.Dir, "app.log"))
		if err != nil {
			return err
		}
		closer = w
		file = zap.New(zapcore.NewCore(newFileEncoder(), zapcore.AddSync(w), level))
	}

	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeLevel = plainLevelEncoder
	if isTerminal(out) {
		consoleConfig.EncodeLevel = colorLevelEncoder
	}
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncodeCaller = nil
	consoleConfig.CallerKey = zapcore.OmitKey
	consoleConfig.StacktraceKey = zapcore.OmitKey
	console := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleConfig),
		zapcore.AddSync(out),
		zapcore.InfoLevel,
	))

	mu.Lock()
	defer mu.Unlock()
	Logger.Sync()
	for _, c := range closers {
		c.Close()
	}
	closers = nil
	if closer != nil {
		closers = append(closers, closer)
	}
	Logger, consoleLogger = file, console
	return nil
}

// Sync flushes the file log.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	return Logger.Sync()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRenderID returns a fresh id to tie the log lines of one render together.
func NewRenderID() string {
	return uuid.NewString()
}

// RenderLogger is Logger tagged with a render id.
func RenderLogger(renderID string) *zap.Logger {
	return Logger.With(zap.String("render_id", renderID))
}

// GenerateRequestID returns a short random id for an outbound API call.
func GenerateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// LogRequest records an outbound API call in the file log.
func LogRequest(requestID, method, target string, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("target", target),
	}, fields...)
	Logger.Info("API request", all...)
}

// LogResponse records the outcome of an API call; failures also reach the
// console.
func LogResponse(requestID string, statusCode int, durationMs int64, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
	}, fields...)

	if statusCode >= 200 && statusCode < 300 {
		Logger.Info("API response", all...)
		return
	}
	Logger.Error("API response", all...)
	if target := fieldString(fields, "target"); target != "" {
		consoleLogger.Error(fmt.Sprintf("✗ API request failed [%d] %s", statusCode, target))
	} else {
		consoleLogger.Error(fmt.Sprintf("✗ API request failed [%d]", statusCode))
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func levelName(level zapcore.Level) (string, string) {
	switch level {
	case zapcore.DebugLevel:
		return "DEBUG", colorCyan
	case zapcore.InfoLevel:
		return "SUCCESS", colorGreen // console INFO lines are successes
	case zapcore.WarnLevel:
		return "WARN", colorYellow
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		return level.CapitalString(), colorRed
	default:
		return level.CapitalString(), colorWhite
	}
}

func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name, color := levelName(level)
	enc.AppendString(color + name + colorReset)
}

func plainLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name, _ := levelName(level)
	enc.AppendString(name)
}

func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
}

// LogSuccess writes to the file log and prints a ✓ line.
func LogSuccess(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
	if ms := durationMs(fields); ms > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, ms))
	} else {
		consoleLogger.Info("✓ " + message)
	}
}

// LogError writes to the file log and prints a ✗ line.
func LogError(message string, fields ...zap.Field) {
	Logger.Error(message, fields...)
	if ms := durationMs(fields); ms > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, ms))
	} else {
		consoleLogger.Error("✗ " + message)
	}
}

func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
}

func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
}

func durationMs(fields []zap.Field) int64 {
	for _, f := range fields {
		if f.Key == "duration_ms" && f.Type == zapcore.Int64Type {
			return f.Integer
		}
	}
	return 0
}

func fieldString(fields []zap.Field, key string) string {
	for _, f := range fields {
		if f.Key == key && f.Type == zapcore.StringType {
			return f.String
		}
	}
	return ""
}

// MaxLogFileSize is the size at which app.log is truncated.
const MaxLogFileSize = 50 * 1024 * 1024

type truncatingWriter struct {
	mu   sync.Mutex
	file *os.File
	path string
}

func openLogFile(path string) (*truncatingWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if info, err := os.Stat(path); err == nil && info.Size() > MaxLogFileSize {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &truncatingWriter{file: f, path: path}, nil
}

func (w *truncatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if info, err := w.file.Stat(); err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()
		f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
		w.file = f
	}
	return w.file.Write(p)
}

func (w *truncatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func (w *truncatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// fileEncoder writes "time     LEVEL message\t{json fields}". Fields added
// with Logger.With are kept in the embedded map encoder.
type fileEncoder struct {
	*zapcore.MapObjectEncoder
}

func newFileEncoder() *fileEncoder {
	return &fileEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (e *fileEncoder) Clone() zapcore.Encoder {
	c := newFileEncoder()
	for k, v := range e.Fields {
		c.Fields[k] = v
	}
	return c
}

var bufferPool = buffer.NewPool()

func (e *fileEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufferPool.Get()
	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	all := e.Clone().(*fileEncoder)
	for _, f := range fields {
		f.AddTo(all)
	}
	if len(all.Fields) > 0 {
		data, err := json.Marshal(all.Fields)
		if err == nil {
			buf.AppendString("\t")
			buf.AppendBytes(data)
		}
	}
	buf.AppendString("\n")
	return buf, nil
}
