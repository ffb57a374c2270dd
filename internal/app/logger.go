package app

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a JSON file logger. The TUI owns the terminal, so
// nothing is ever written to stdout or stderr.
func NewLogger(path string) *zap.Logger {
	if path == "" {
		path = DefaultLogPath()
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.MessageKey = "message"

	level := zap.InfoLevel
	if strings.TrimSpace(os.Getenv("SECRAG_DEBUG")) == "1" {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(rotator),
		level,
	)
	return zap.New(core)
}

func DefaultLogPath() string {
	return filepath.Join(DefaultConfigDir(), "secrag.log")
}
