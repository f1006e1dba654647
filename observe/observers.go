package observe

import "context"

// BaseObserver implements Observer with no-op methods.
//
// Users can embed BaseObserver to implement only the callbacks they need.
type BaseObserver struct{}

func (BaseObserver) OnStart(context.Context, string)           {}
func (BaseObserver) OnAttempt(context.Context, string, Attempt) {}
func (BaseObserver) OnSuccess(context.Context, Result)          {}
func (BaseObserver) OnFailure(context.Context, Result)          {}

// NoopObserver implements Observer with no-op methods.
type NoopObserver struct{}

func (NoopObserver) OnStart(context.Context, string)           {}
func (NoopObserver) OnAttempt(context.Context, string, Attempt) {}
func (NoopObserver) OnSuccess(context.Context, Result)          {}
func (NoopObserver) OnFailure(context.Context, Result)          {}

// MultiObserver fans out events to multiple observers.
type MultiObserver struct {
	Observers []Observer
}

func (m MultiObserver) OnStart(ctx context.Context, policy string) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnStart(ctx, policy)
		}
	}
}

func (m MultiObserver) OnAttempt(ctx context.Context, policy string, a Attempt) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnAttempt(ctx, policy, a)
		}
	}
}

func (m MultiObserver) OnSuccess(ctx context.Context, res Result) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnSuccess(ctx, res)
		}
	}
}

func (m MultiObserver) OnFailure(ctx context.Context, res Result) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnFailure(ctx, res)
		}
	}
}
