package hflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Chain composes fns left to right: each function receives the output of
// the previous one. The first error stops the chain. Chain() is the
// identity.
func Chain[T any](fns ...func(T) (T, error)) func(T) (T, error) {
	return func(v T) (T, error) {
		var err error
		for _, fn := range fns {
			if v, err = fn(v); err != nil {
				return v, err
			}
		}
		return v, nil
	}
}

// FlowPromise composes asynchronous fns left to right. Each function is
// awaited before the next one starts, and receives the value the previous
// one resolved to. The first rejection rejects the whole. With no
// functions, the composed function resolves to the zero value.
func FlowPromise[T any](fns ...func(context.Context, T) *Promise[T]) func(context.Context, T) *Promise[T] {
	if len(fns) == 0 {
		return func(context.Context, T) *Promise[T] {
			var zero T
			return Resolve(zero)
		}
	}
	return func(ctx context.Context, v T) *Promise[T] {
		return Go(ctx, func(ctx context.Context) (T, error) {
			var err error
			for _, fn := range fns {
				if v, err = fn(ctx, v).Await(ctx); err != nil {
					return v, err
				}
			}
			return v, nil
		})
	}
}

// guard skips s once the chain is cancelled. Nil steps are skipped too.
func guard(s Step) func(Outcome) (Outcome, error) {
	return func(o Outcome) (Outcome, error) {
		if o.IsCancelled() || isNil(s) {
			return o, nil
		}
		return s.Run(o.Context())
	}
}

func guardAsync(s AsyncStep) func(context.Context, Outcome) *Promise[Outcome] {
	return func(ctx context.Context, o Outcome) *Promise[Outcome] {
		if o.IsCancelled() || isNil(s) {
			return Resolve(o)
		}
		return s.RunAsync(ctx, o.Context())
	}
}

// StepSource provides the steps of a flow for one invocation.
type StepSource interface {
	Resolve(args ...any) []Step
}

// Steps is a fixed list of steps.
type Steps []Step

// Resolve returns the list.
func (s Steps) Resolve(...any) []Step {
	return s
}

// StepsFunc builds the steps of a flow from its invocation arguments.
type StepsFunc func(args ...any) []Step

// Resolve calls f(args...).
func (f StepsFunc) Resolve(args ...any) []Step {
	return f(args...)
}

// AsyncStepSource provides the steps of an asynchronous flow for one
// invocation.
type AsyncStepSource interface {
	Resolve(args ...any) []AsyncStep
}

// AsyncSteps is a fixed list of asynchronous steps.
type AsyncSteps []AsyncStep

// Resolve returns the list.
func (s AsyncSteps) Resolve(...any) []AsyncStep {
	return s
}

// AsyncStepsFunc builds the steps of an asynchronous flow from its
// invocation arguments.
type AsyncStepsFunc func(args ...any) []AsyncStep

// Resolve calls f(args...).
func (f AsyncStepsFunc) Resolve(args ...any) []AsyncStep {
	return f(args...)
}

// FlowOption configures a flow.
type FlowOption func(*flowConfig)

type flowConfig struct {
	returnArgs bool
	returnOnly string
	strict     bool
	logger     *slog.Logger
	ids        IDGenerator
	mid        []Middleware
	asyncMid   []AsyncMiddleware
}

func newFlowConfig(opts []FlowOption) flowConfig {
	cfg := flowConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.ids == nil {
		cfg.ids = UUIDGenerator{}
	}
	return cfg
}

// WithReturnArgs makes the flow return the whole *Context instead of the
// results.
func WithReturnArgs() FlowOption {
	return func(c *flowConfig) { c.returnArgs = true }
}

// WithReturnOnly makes the flow return only the result recorded under key.
func WithReturnOnly(key string) FlowOption {
	return func(c *flowConfig) { c.returnOnly = key }
}

// WithLogger sets the logger of the flow. The default is slog.Default().
func WithLogger(l *slog.Logger) FlowOption {
	return func(c *flowConfig) { c.logger = l }
}

// WithIDGenerator sets the generator of execution IDs.
func WithIDGenerator(g IDGenerator) FlowOption {
	return func(c *flowConfig) { c.ids = g }
}

// WithMiddleware wraps every step of a synchronous flow. The first
// middleware is the outermost.
func WithMiddleware(mid ...Middleware) FlowOption {
	return func(c *flowConfig) { c.mid = append(c.mid, mid...) }
}

// WithAsyncMiddleware wraps every step of an asynchronous flow. The first
// middleware is the outermost.
func WithAsyncMiddleware(mid ...AsyncMiddleware) FlowOption {
	return func(c *flowConfig) { c.asyncMid = append(c.asyncMid, mid...) }
}

// WithStrict makes the flow validate its steps on every invocation and
// fail instead of skipping nil or non callable steps.
func WithStrict() FlowOption {
	return func(c *flowConfig) { c.strict = true }
}

// shape turns the final outcome into the value returned by a flow.
func (cfg *flowConfig) shape(o Outcome) any {
	switch c := o.Context(); {
	case c == nil:
		return nil
	case cfg.returnArgs:
		return c
	case cfg.returnOnly != "":
		return c.Results[cfg.returnOnly]
	case c.Results == nil:
		return Results{}
	default:
		return c.Results
	}
}

// Flow is a synchronous chain of steps.
type Flow struct {
	src StepSource
	cfg flowConfig
}

// New creates a synchronous flow running the steps of src.
func New(src StepSource, opts ...FlowOption) *Flow {
	return &Flow{src: src, cfg: newFlowConfig(opts)}
}

// HFlow creates a synchronous flow and returns its Run method.
func HFlow(src StepSource, opts ...FlowOption) func(args ...any) (any, error) {
	return New(src, opts...).Run
}

// Exec runs the flow and returns its final outcome.
func (f *Flow) Exec(args ...any) (Outcome, error) {
	c := NewContext(f.cfg.ids.ID(), args...)
	steps := f.steps(c.Args())
	if f.cfg.strict {
		if err := Validate(steps); err != nil {
			return Cancel(), err
		}
	}
	guarded := make([]func(Outcome) (Outcome, error), len(steps))
	for i, s := range steps {
		if !isNil(s) {
			for _, m := range slices.Backward(f.cfg.mid) {
				s = m(s)
			}
		}
		guarded[i] = guard(s)
	}
	return Chain(guarded...)(Continue(c))
}

// Run runs the flow with args. It returns nil when a step cancelled the
// chain, the *Context with [WithReturnArgs], the result named by
// [WithReturnOnly], and the [Results] otherwise. Step errors are returned
// unmodified.
func (f *Flow) Run(args ...any) (any, error) {
	o, err := f.Exec(args...)
	if err != nil {
		return nil, err
	}
	return f.cfg.shape(o), nil
}

// Validate checks the steps the flow would run for args.
func (f *Flow) Validate(args ...any) error {
	return Validate(f.steps(args))
}

func (f *Flow) steps(args []any) []Step {
	if f.src == nil {
		return nil
	}
	return f.src.Resolve(args...)
}

func (f *Flow) String() string {
	return describe("Flow", f.src)
}

// AsyncFlow is a chain of asynchronous steps run one after the other.
type AsyncFlow struct {
	src AsyncStepSource
	cfg flowConfig
}

// NewAsync creates an asynchronous flow running the steps of src.
func NewAsync(src AsyncStepSource, opts ...FlowOption) *AsyncFlow {
	return &AsyncFlow{src: src, cfg: newFlowConfig(opts)}
}

// HFlowPromise creates an asynchronous flow and returns its Run method.
func HFlowPromise(src AsyncStepSource, opts ...FlowOption) func(ctx context.Context, args ...any) *Promise[any] {
	return NewAsync(src, opts...).Run
}

// Exec starts the flow and returns the promise of its final outcome.
func (f *AsyncFlow) Exec(ctx context.Context, args ...any) *Promise[Outcome] {
	return f.exec(ctx, NewContext(f.cfg.ids.ID(), args...))
}

func (f *AsyncFlow) exec(ctx context.Context, c *Context) *Promise[Outcome] {
	steps := f.steps(c.Args())
	if f.cfg.strict {
		if err := ValidateAsync(steps); err != nil {
			return Reject[Outcome](err)
		}
	}
	guarded := make([]func(context.Context, Outcome) *Promise[Outcome], len(steps))
	for i, s := range steps {
		if !isNil(s) {
			for _, m := range slices.Backward(f.cfg.asyncMid) {
				s = m(s)
			}
		}
		guarded[i] = guardAsync(s)
	}
	return FlowPromise(guarded...)(ctx, Continue(c))
}

// Run starts the flow with args. The promise resolves to the same values
// as [Flow.Run]. A failing step is logged and rejects the promise with its
// original error; the steps after it do not run.
func (f *AsyncFlow) Run(ctx context.Context, args ...any) *Promise[any] {
	c := NewContext(f.cfg.ids.ID(), args...)
	return Go(ctx, func(ctx context.Context) (any, error) {
		o, err := f.exec(ctx, c).Await(ctx)
		if err != nil {
			f.cfg.logger.ErrorContext(ctx, "flow failed", "flow", f.String(), "id", c.ID, "err", err)
			return nil, err
		}
		return f.cfg.shape(o), nil
	})
}

// Validate checks the steps the flow would run for args.
func (f *AsyncFlow) Validate(args ...any) error {
	return ValidateAsync(f.steps(args))
}

func (f *AsyncFlow) steps(args []any) []AsyncStep {
	if f.src == nil {
		return nil
	}
	return f.src.Resolve(args...)
}

func (f *AsyncFlow) String() string {
	return describe("AsyncFlow", f.src)
}

func describe(kind string, src any) string {
	var names []string
	switch s := src.(type) {
	case Steps:
		for _, step := range s {
			names = append(names, stepString(step))
		}
	case AsyncSteps:
		for _, step := range s {
			names = append(names, stepString(step))
		}
	case nil:
	default:
		return kind + "(<lazy>)"
	}
	var buf strings.Builder
	buf.WriteString(kind)
	if len(names) > 0 {
		buf.WriteString("(")
		buf.WriteString(strings.Join(names, ", "))
		buf.WriteString(")")
	}
	return buf.String()
}

func stepString(s fmt.Stringer) string {
	if isNil(s) {
		return "<nil>"
	}
	return s.String()
}
