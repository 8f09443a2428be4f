package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"brt/internal/paths"
)

// FileName is the log file created in the cache directory.
const FileName = "brt.log"

// ParseLevel maps a --log-level value to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q (debug, info, warn, error)", s)
	}
	return lvl, nil
}

// New builds a JSON logger writing to path at the given level. An empty path
// uses ~/.cache/brt/brt.log; the terminal belongs to the UI.
func New(level zapcore.Level, path string) (*zap.Logger, error) {
	if path == "" {
		dir, err := paths.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log directory: %w", err)
		}
		path = filepath.Join(dir, FileName)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(f),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core, zap.AddCaller()), nil
}
