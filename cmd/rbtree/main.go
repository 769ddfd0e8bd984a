package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/xlog"
)

const lifecycleTimeout = 15 * time.Second

func newLogger(cfg *config) xlog.XLogger {
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerStdOutWriter(),
	}
	if cfg != nil && cfg.LogFile != "" {
		opts = append(opts, xlog.WithXLoggerFileWriter(&xlog.FileCoreConfig{
			FilePath: filepath.Dir(cfg.LogFile),
			Filename: filepath.Base(cfg.LogFile),
		}))
	}
	return xlog.NewXLogger(opts...)
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig(os.LookupEnv)
	logger := newLogger(cfg)
	defer func() {
		_ = logger.Close()
	}()
	if err != nil {
		logger.ErrorStack(err, "[rbtree] invalid configuration")
		return 2
	}

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	}))
	if err != nil {
		logger.Error(err, "[rbtree] unable to set GOMAXPROCS")
	} else {
		defer undo()
	}

	logger.Banner(demoBanner{cfg: cfg})
	logger.Info("[rbtree] demo starting", zap.String("level", logger.Level()))
	// Flush the buffered console before the demo writes to stdout directly.
	_ = logger.Sync()

	app := newApp(cfg, os.Stdout, logger)
	if err = app.Err(); err != nil {
		logger.ErrorStack(err, "[rbtree] unable to build app")
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer cancel()
	code := 0
	if err = app.Start(startCtx); err != nil {
		logger.ErrorStack(err, "[rbtree] demo failed")
		code = 1
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer stopCancel()
	if err = app.Stop(stopCtx); err != nil {
		logger.ErrorStack(err, "[rbtree] demo stop failed")
		code = 1
	}
	return code
}
