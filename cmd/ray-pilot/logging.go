package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/ray-pilot/config"
)

const (
	logDir      = "logs"
	logFileName = "ray-pilot.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// logPath resolves where logs go. The terminal belongs to the renderer in
// interactive mode, so logs are redirected to a file there.
func logPath(cfg config.LoggingConfig, interactive bool) string {
	switch {
	case cfg.File != "":
		return cfg.File
	case interactive:
		return filepath.Join(logDir, logFileName)
	default:
		return "stderr"
	}
}

// rotateLog renames path aside when it exceeds maxLogSize
func rotateLog(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return nil
	}
	ext := filepath.Ext(path)
	rotated := fmt.Sprintf("%s_%s%s", path[:len(path)-len(ext)], time.Now().Format("20060102_150405"), ext)
	return os.Rename(path, rotated)
}

func newLogger(cfg config.LoggingConfig, interactive bool) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	out := logPath(cfg, interactive)
	if out != "stderr" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		if err := rotateLog(out); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	} else if cfg.Format != "json" {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.OutputPaths = []string{out}
	zapCfg.ErrorOutputPaths = []string{out}

	return zapCfg.Build()
}
