package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SigmaX-ai/illex/internal/config"
)

// setupLogger builds a zap.Logger from explicit cores rather than zap's
// Config convenience wrapper, since illexd needs two independent sinks
// (console and, optionally, a timestamped file) active at once: a
// console core always runs, and a file core is layered on top with
// zapcore.NewTee when logCfg.ToFile is set. verbose widens the level to
// debug and swaps the console encoder to zap's human-readable,
// colorized form; the file sink always stays JSON regardless of
// verbosity, since it's meant for later grep/jq, not a terminal.
func setupLogger(verbose bool, logCfg *config.LoggingConfig) (*zap.Logger, error) {
	level := resolveLevel(logCfg)
	if verbose {
		level = zapcore.DebugLevel
	}

	consoleCfg := zap.NewProductionEncoderConfig()
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.Encoder(zapcore.NewJSONEncoder(consoleCfg))
	if verbose {
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(consoleCfg)
	}

	core := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level)

	if logCfg != nil && logCfg.ToFile {
		fc, err := openFileCore(logCfg, level)
		if err != nil {
			return nil, err
		}
		core = zapcore.NewTee(core, fc)
	}

	return zap.New(core, zap.AddCaller()), nil
}

// resolveLevel reads logCfg.Level, falling back to info on an unset or
// malformed value.
func resolveLevel(logCfg *config.LoggingConfig) zapcore.Level {
	if logCfg == nil || logCfg.Level == "" {
		return zapcore.InfoLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(logCfg.Level)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// openFileCore opens a fresh, timestamped log file under logCfg.Directory
// and wraps it in a JSON-encoding core at the given level.
func openFileCore(logCfg *config.LoggingConfig, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(logCfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", logCfg.Directory, err)
	}
	name := fmt.Sprintf("illexd-%s.log", time.Now().Format("20060102-150405"))
	f, err := os.OpenFile(filepath.Join(logCfg.Directory, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level), nil
}
