// Package logging provides the leveled logger used across mcbpcore.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel mirrors syslog-ish severities, ordered least to most verbose.
type LogLevel int32

const (
	Silent LogLevel = iota
	Fatal
	Error
	Warn
	Info
	Timing
	Debug
	Trace
)

func (t LogLevel) String() string {
	switch t {
	case Silent:
		return "Silent"
	case Fatal:
		return "Fatal"
	case Error:
		return "Error"
	case Warn:
		return "Warn"
	case Info:
		return "Info"
	case Timing:
		return "Timing"
	case Debug:
		return "Debug"
	case Trace:
		return "Trace"
	default:
		return "Info"
	}
}

// Level parses a level name, defaulting to Info on anything unrecognized.
func Level(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "SILENT":
		return Silent
	case "FATAL":
		return Fatal
	case "ERROR":
		return Error
	case "WARN", "WARNING":
		return Warn
	case "INFO":
		return Info
	case "TIMING":
		return Timing
	case "DEBUG":
		return Debug
	case "TRACE":
		return Trace
	default:
		return Info
	}
}

// Ender stops a running timer and logs the elapsed duration.
type Ender interface {
	End()
}

// Logger is the interface every package in mcbpcore logs through.
type Logger interface {
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Tracef(format string, v ...interface{})
	Timer(format string, v ...interface{}) Ender
	LazyDebug(fn func() string)
	LazyTrace(fn func() string)
}

var baseLevel = int32(Info)

// SetLevel sets the process-wide base level for every named logger that
// has not been overridden with SetModuleLevel.
func SetLevel(l LogLevel) {
	atomic.StoreInt32(&baseLevel, int32(l))
}

func currentLevel() LogLevel {
	return LogLevel(atomic.LoadInt32(&baseLevel))
}

var (
	moduleMu     sync.RWMutex
	moduleLevels = make(map[string]LogLevel)
	loggers      = make(map[string]*zapLogger)

	base *zap.Logger
)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		l = zap.NewNop()
	}
	base = l
}

// SetModuleLevel overrides the level for a single named logger (module is
// the string passed to Get), leaving every other module at baseLevel.
func SetModuleLevel(module string, l LogLevel) {
	moduleMu.Lock()
	moduleLevels[module] = l
	moduleMu.Unlock()
}

// ClearModuleLevel removes a per-module override.
func ClearModuleLevel(module string) {
	moduleMu.Lock()
	delete(moduleLevels, module)
	moduleMu.Unlock()
}

type zapLogger struct {
	name  string
	sugar *zap.SugaredLogger
}

// Get returns the Logger for a named component (e.g. "worker", "conn"),
// creating and caching it on first use.
func Get(name string) Logger {
	moduleMu.RLock()
	lg, ok := loggers[name]
	moduleMu.RUnlock()
	if ok {
		return lg
	}

	moduleMu.Lock()
	defer moduleMu.Unlock()
	if lg, ok = loggers[name]; ok {
		return lg
	}
	lg = &zapLogger{name: name, sugar: base.Sugar().Named(name)}
	loggers[name] = lg
	return lg
}

func (z *zapLogger) level() LogLevel {
	moduleMu.RLock()
	l, ok := moduleLevels[z.name]
	moduleMu.RUnlock()
	if ok {
		return l
	}
	return currentLevel()
}

func (z *zapLogger) enabled(at LogLevel) bool { return z.level() >= at }

func (z *zapLogger) Warnf(format string, v ...interface{}) {
	if z.enabled(Warn) {
		z.sugar.Warnf(format, v...)
	}
}

func (z *zapLogger) Errorf(format string, v ...interface{}) {
	if z.enabled(Error) {
		z.sugar.Errorf(format, v...)
	}
}

func (z *zapLogger) Fatalf(format string, v ...interface{}) {
	if z.enabled(Fatal) {
		z.sugar.Errorf(format, v...)
	}
}

func (z *zapLogger) Infof(format string, v ...interface{}) {
	if z.enabled(Info) {
		z.sugar.Infof(format, v...)
	}
}

func (z *zapLogger) Debugf(format string, v ...interface{}) {
	if z.enabled(Debug) {
		z.sugar.Debugf(format, v...)
	}
}

func (z *zapLogger) Tracef(format string, v ...interface{}) {
	if z.enabled(Trace) {
		z.sugar.Debugf(format, v...)
	}
}

func (z *zapLogger) LazyDebug(fn func() string) {
	if z.enabled(Debug) {
		z.sugar.Debugf("%s", fn())
	}
}

func (z *zapLogger) LazyTrace(fn func() string) {
	if z.enabled(Trace) {
		z.sugar.Debugf("%s", fn())
	}
}

type stopClock struct {
	comment string
	start   time.Time
	log     *zapLogger
}

func (z *zapLogger) Timer(format string, v ...interface{}) Ender {
	if !z.enabled(Timing) {
		return noopEnder{}
	}
	return &stopClock{comment: fmt.Sprintf(format, v...), start: time.Now(), log: z}
}

func (c *stopClock) End() {
	elapsed := time.Since(c.start)
	c.log.sugar.Infof("%.1f μs - %s", float64(elapsed.Nanoseconds())/1000, c.comment)
}

type noopEnder struct{}

func (noopEnder) End() {}
