package hflow

import (
	"context"
	"log/slog"
	"time"
)

// Middleware is a function that wraps a step to add functionality, such as
// logging.
type Middleware func(Step) Step

// AsyncMiddleware is the [Middleware] of asynchronous steps.
type AsyncMiddleware func(AsyncStep) AsyncStep

// MidFunc is a step built by a middleware around the step Next.
type MidFunc struct {
	Name string
	Next Step
	Fn   func(*Context) (Outcome, error)
}

// Run executes the function.
func (m *MidFunc) Run(c *Context) (Outcome, error) {
	return m.Fn(c)
}

// String returns the middleware name around the wrapped step.
func (m *MidFunc) String() string {
	return m.Name + "(" + stepString(m.Next) + ")"
}

// AsyncMidFunc is an asynchronous step built by a middleware around the
// step Next.
type AsyncMidFunc struct {
	Name string
	Next AsyncStep
	Fn   func(context.Context, *Context) *Promise[Outcome]
}

// RunAsync executes the function.
func (m *AsyncMidFunc) RunAsync(ctx context.Context, c *Context) *Promise[Outcome] {
	return m.Fn(ctx, c)
}

// String returns the middleware name around the wrapped step.
func (m *AsyncMidFunc) String() string {
	return m.Name + "(" + stepString(m.Next) + ")"
}

// LoggerMiddleware returns a middleware that logs step execution using the provided slog.Logger.
// A nil logger logs to slog.Default().
func LoggerMiddleware(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next Step) Step {
		return &MidFunc{
			Name: "Logger",
			Next: next,
			Fn: func(c *Context) (Outcome, error) {
				start := time.Now()
				l.Info("start", "step", next.String(), "id", c.ID)
				o, err := next.Run(c)
				if err != nil {
					l.Error("failed", "step", next.String(), "id", c.ID, "duration", time.Since(start), "err", err)
					return o, err
				}
				l.Info("done", "step", next.String(), "id", c.ID, "duration", time.Since(start),
					"cancelled", o.IsCancelled())
				return o, nil
			},
		}
	}
}

// AsyncLoggerMiddleware is the [LoggerMiddleware] of asynchronous steps.
// The step is awaited before its completion is logged.
func AsyncLoggerMiddleware(l *slog.Logger) AsyncMiddleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next AsyncStep) AsyncStep {
		return &AsyncMidFunc{
			Name: "Logger",
			Next: next,
			Fn: func(ctx context.Context, c *Context) *Promise[Outcome] {
				start := time.Now()
				l.InfoContext(ctx, "start", "step", next.String(), "id", c.ID)
				p := next.RunAsync(ctx, c)
				return Go(ctx, func(ctx context.Context) (Outcome, error) {
					o, err := p.Await(ctx)
					if err != nil {
						l.ErrorContext(ctx, "failed", "step", next.String(), "id", c.ID,
							"duration", time.Since(start), "err", err)
						return o, err
					}
					l.InfoContext(ctx, "done", "step", next.String(), "id", c.ID,
						"duration", time.Since(start), "cancelled", o.IsCancelled())
					return o, nil
				})
			},
		}
	}
}

// RecoverMiddleware returns a middleware that turns a panic of the wrapped
// step into a *RecoveredPanic error.
func RecoverMiddleware() Middleware {
	return func(next Step) Step {
		return &MidFunc{
			Name: "Recover",
			Next: next,
			Fn: func(c *Context) (o Outcome, err error) {
				defer capturePanic(&err)
				return next.Run(c)
			},
		}
	}
}
