package observe

import (
	"context"

	"go.uber.org/zap"
)

// LogObserver logs attempt lifecycle events through a zap logger. Attempts
// log at Debug, retries and terminal failures at Warn.
type LogObserver struct {
	Logger *zap.Logger
}

// NewLogObserver creates a LogObserver. A nil logger falls back to a no-op.
func NewLogObserver(l *zap.Logger) *LogObserver {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogObserver{Logger: l}
}

func (o *LogObserver) OnStart(_ context.Context, policy string) {
	o.Logger.Debug("call started", zap.String("policy", policy))
}

func (o *LogObserver) OnAttempt(_ context.Context, policy string, a Attempt) {
	if a.Err == nil {
		o.Logger.Debug("attempt succeeded",
			zap.String("policy", policy),
			zap.Int("attempt", a.Number))
		return
	}
	o.Logger.Warn("attempt failed",
		zap.String("policy", policy),
		zap.Int("attempt", a.Number),
		zap.Stringer("category", a.Category),
		zap.Duration("next_delay", a.Delay),
		zap.Error(a.Err))
}

func (o *LogObserver) OnSuccess(_ context.Context, res Result) {
	o.Logger.Debug("call succeeded",
		zap.String("policy", res.Policy),
		zap.Int("attempts", len(res.Attempts)),
		zap.Duration("elapsed", res.End.Sub(res.Start)))
}

func (o *LogObserver) OnFailure(_ context.Context, res Result) {
	o.Logger.Warn("call failed",
		zap.String("policy", res.Policy),
		zap.Int("attempts", len(res.Attempts)),
		zap.Duration("elapsed", res.End.Sub(res.Start)),
		zap.Error(res.Err))
}
