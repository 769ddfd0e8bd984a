package xlog

import (
	"go.uber.org/zap/zapcore"
)

var _ xLogCore = (*consoleCore)(nil)

type consoleCore struct {
	*commonCore
}

func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) xLogCore {
	return &consoleCore{
		commonCore: newCommonCore(lvlEnabler, encoder, getOutWriterByType(StdOut), lvlEnc, tsEnc),
	}
}
