package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger prints the fx container events of a flat app (no modules,
// no replace or decorate) through an XLogger.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) hook(name string, function, caller string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("function", function),
		zap.String("caller", caller),
	)
	if err != nil {
		l.logger.Error(err, "[fx] "+name+" hook failed", fields...)
		return
	}
	l.logger.Debug("[fx] "+name+" hook", fields...)
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "[fx] logger initialization failed")
			return
		}
		l.logger.Debug("[fx] logger initialized", zap.String("constructor", e.ConstructorName))
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "[fx] supply failed",
				zap.String("type", e.TypeName),
				zap.Strings("stacktrace", e.StackTrace),
			)
			return
		}
		l.logger.Debug("[fx] supplied", zap.String("type", e.TypeName))
	case *fxevent.Provided:
		for _, typ := range e.OutputTypeNames {
			l.logger.Debug("[fx] provided",
				zap.String("type", typ),
				zap.String("constructor", e.ConstructorName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "[fx] provide failed",
				zap.String("constructor", e.ConstructorName),
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Invoking:
		l.logger.Debug("[fx] invoking", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "[fx] invoke failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.OnStartExecuting:
		l.hook("start executing", e.FunctionName, e.CallerName, nil)
	case *fxevent.OnStartExecuted:
		l.hook("start executed", e.FunctionName, e.CallerName, e.Err, zap.Duration("runtime", e.Runtime))
	case *fxevent.OnStopExecuting:
		l.hook("stop executing", e.FunctionName, e.CallerName, nil)
	case *fxevent.OnStopExecuted:
		l.hook("stop executed", e.FunctionName, e.CallerName, e.Err, zap.Duration("runtime", e.Runtime))
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "[fx] start failed")
			return
		}
		l.logger.Debug("[fx] started")
	case *fxevent.RollingBack:
		l.logger.Warn("[fx] start failed, rolling back", zap.NamedError("cause", e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "[fx] rollback failed")
		}
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "[fx] stop failed")
			return
		}
		l.logger.Debug("[fx] stopped")
	default:
	}
}

// NewFxXLogger routes the fx lifecycle events into the given logger
// under the "fx" component name.
func NewFxXLogger(logger XLogger) *FxXLogger {
	if logger == nil {
		return &FxXLogger{}
	}
	return &FxXLogger{logger: logger.Named("fx")}
}
