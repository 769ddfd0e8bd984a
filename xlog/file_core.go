package xlog

import (
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
)

var _ xLogCore = (*fileCore)(nil)

type fileCore struct {
	*commonCore
	out *singleLog
}

func (fc *fileCore) close() error {
	return fc.out.Close()
}

type FileCoreConfig struct {
	FilePath string `json:"filePath" yaml:"filePath"`
	Filename string `json:"filename" yaml:"filename"`
}

func newFileCore(cfg *FileCoreConfig) xLogCoreConstructor {
	return func(
		lvlEnabler zapcore.LevelEnabler,
		encoder LogEncoderType,
		lvlEnc zapcore.LevelEncoder,
		tsEnc zapcore.TimeEncoder,
	) xLogCore {
		if cfg == nil {
			cfg = &FileCoreConfig{
				Filename: filepath.Base(os.Args[0]) + "_xlog.log",
				FilePath: os.TempDir(),
			}
		}
		out := &singleLog{
			filename: cfg.Filename,
			filePath: cfg.FilePath,
		}
		return &fileCore{
			commonCore: newCommonCore(lvlEnabler, encoder, zapcore.Lock(out), lvlEnc, tsEnc),
			out:        out,
		}
	}
}
