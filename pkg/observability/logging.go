package observability

import (
	"os"
	"strings"

	"portal/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func InitLogger(level string, fileConf config.Log) *zap.SugaredLogger {
	logConfig := zap.NewProductionEncoderConfig()
	logConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	atomic := zap.NewAtomicLevelAt(DetermineLogLevel(level))
	encoder := zapcore.NewJSONEncoder(logConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), atomic),
	}

	// Дополнительно пишем в файл с ротацией, если он указан
	if fileConf.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   fileConf.File,
			MaxSize:    fileConf.MaxSizeMB,
			MaxBackups: fileConf.MaxBackups,
			MaxAge:     fileConf.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), atomic))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	return logger.Sugar()
}

func DetermineLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
