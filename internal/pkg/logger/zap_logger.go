package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

type ZapLogger struct {
	logger *zap.Logger
}

func jsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// fileCore writes JSON lines to a rotated file.
func fileCore(logFilePath string) zapcore.Core {
	rotator := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	return zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotator), zap.InfoLevel)
}

func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	var consoleEncoder zapcore.Encoder
	if isProd {
		consoleEncoder = jsonEncoder()
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel)

	core := zapcore.NewTee(fileCore(logFilePath), consoleCore)

	// Skip 1 so the caller of the wrapper is reported.
	return &ZapLogger{logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}
}

// NewIsolatedLogger writes only to its own file. The realtime channel uses it
// so socket churn stays out of the main log.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	return &ZapLogger{logger: zap.New(fileCore(logFilePath), zap.AddCaller(), zap.AddCallerSkip(1))}
}

// NewNopLogger discards everything.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func fields(module string, details map[string]interface{}) []zap.Field {
	if details == nil {
		details = make(map[string]interface{})
	}
	return []zap.Field{zap.String("module", module), zap.Any("details", details)}
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.logger.Debug(message, fields(module, details)...)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.logger.Info(message, fields(module, details)...)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.logger.Warn(message, fields(module, details)...)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	fs := fields(module, details)
	if err, ok := details["error"].(error); ok {
		fs = append(fs, zap.Error(err))
	}
	l.logger.Error(message, fs...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
