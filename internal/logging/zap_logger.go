package logging

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
)

type ctxKey string

// TraceIDKey is the context key carrying the per-request trace id.
const TraceIDKey ctxKey = "trace_id"

// Logger is the structured logging interface handed to the rest of the
// application. Every call takes a context so the trace id travels with
// the request.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Warn(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
	Fatal(ctx context.Context, msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

// ZapLoggerComponent builds and owns the zap logger.
type ZapLoggerComponent struct {
	*core.BaseComponent
	config    *Config
	zapLogger *zap.Logger
}

func NewZapLoggerComponent(cfg *Config) *ZapLoggerComponent {
	return &ZapLoggerComponent{
		BaseComponent: core.NewBaseComponent(consts.COMP_LOGGING),
		config:        cfg,
	}
}

func (lc *ZapLoggerComponent) Start(ctx context.Context) error {
	if err := lc.BaseComponent.Start(ctx); err != nil {
		return err
	}

	encoder := lc.buildEncoder()
	writeSyncer, err := lc.buildWriteSyncer()
	if err != nil {
		return fmt.Errorf("failed to create write syncer: %w", err)
	}
	level := parseLevel(lc.config.Level)

	zc := zapcore.NewCore(encoder, writeSyncer, level)
	lc.zapLogger = zap.New(zc, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	SetGlobalLogger(lc)
	lc.zapLogger.Info("logger started",
		zap.String("level", lc.config.Level),
		zap.String("format", lc.config.Format),
		zap.String("output", lc.config.Output),
	)
	return nil
}

func (lc *ZapLoggerComponent) Stop(ctx context.Context) error {
	if lc.zapLogger != nil {
		_ = lc.zapLogger.Sync()
	}
	return lc.BaseComponent.Stop(ctx)
}

func (lc *ZapLoggerComponent) HealthCheck() error {
	if err := lc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	if lc.zapLogger == nil {
		return fmt.Errorf("zap logger is not initialized")
	}
	return nil
}

func (lc *ZapLoggerComponent) buildEncoder() zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if lc.config.Format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func (lc *ZapLoggerComponent) buildWriteSyncer() (zapcore.WriteSyncer, error) {
	switch strings.ToLower(lc.config.Output) {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	default:
		// anything else is a file path
		if lc.config.Rotate.Enabled {
			lumber := &lumberjack.Logger{
				Filename:   lc.config.Output,
				MaxSize:    lc.config.Rotate.MaxSizeMB,
				MaxAge:     lc.config.Rotate.MaxAgeDays,
				MaxBackups: lc.config.Rotate.MaxBackups,
				Compress:   lc.config.Rotate.Compress,
				LocalTime:  true,
			}
			return zapcore.AddSync(lumber), nil
		}
		file, err := os.OpenFile(lc.config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return zapcore.AddSync(file), nil
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (lc *ZapLoggerComponent) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.DebugLevel, msg, fields...)
}

func (lc *ZapLoggerComponent) Info(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.InfoLevel, msg, fields...)
}

func (lc *ZapLoggerComponent) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.WarnLevel, msg, fields...)
}

func (lc *ZapLoggerComponent) Error(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (lc *ZapLoggerComponent) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.FatalLevel, msg, fields...)
	os.Exit(1)
}

func (lc *ZapLoggerComponent) With(fields ...zap.Field) Logger {
	return &ZapLoggerComponent{
		BaseComponent: lc.BaseComponent,
		config:        lc.config,
		zapLogger:     lc.zapLogger.With(fields...),
	}
}

func (lc *ZapLoggerComponent) Sync() error {
	if lc.zapLogger != nil {
		return lc.zapLogger.Sync()
	}
	return nil
}

func (lc *ZapLoggerComponent) logWithContext(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	if lc.zapLogger == nil {
		return
	}
	traceID := traceIDFrom(ctx)
	allFields := append([]zap.Field{zap.String(string(TraceIDKey), traceID)}, fields...)

	switch level {
	case zapcore.DebugLevel:
		lc.zapLogger.Debug(msg, allFields...)
	case zapcore.InfoLevel:
		lc.zapLogger.Info(msg, allFields...)
	case zapcore.WarnLevel:
		lc.zapLogger.Warn(msg, allFields...)
	case zapcore.ErrorLevel:
		lc.zapLogger.Error(msg, allFields...)
	case zapcore.FatalLevel:
		lc.zapLogger.Fatal(msg, allFields...)
	}
}

// WithTraceID stores a trace id in the context for downstream log calls.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func traceIDFrom(ctx context.Context) string {
	if ctx != nil {
		if v := ctx.Value(TraceIDKey); v != nil {
			if id, ok := v.(string); ok && id != "" {
				return id
			}
		}
	}
	return uuid.New().String()
}

// GetZapLogger exposes the raw zap.Logger (nil before Start).
func (lc *ZapLoggerComponent) GetZapLogger() *zap.Logger {
	return lc.zapLogger
}
