package hflow

import (
	"context"
	"fmt"
	"reflect"
	"slices"
)

// Step is the unit of work of a synchronous flow. It takes the live context
// and returns the outcome handed to the next step.
type Step interface {
	Run(*Context) (Outcome, error)
	fmt.Stringer
}

type typ struct{}

var (
	_ Step      = (*hof)(nil)
	_ Step      = StepFunc(nil)
	_ Step      = (*MidFunc)(nil)
	_ AsyncStep = (*asyncHof)(nil)
	_ AsyncStep = AsyncStepFunc(nil)
	_ AsyncStep = (*AsyncMidFunc)(nil)
	_ Awaiter   = (*Promise[typ])(nil)
)

// StepFunc is an adapter to allow the use of ordinary functions as steps.
type StepFunc func(*Context) (Outcome, error)

// Run calls f(c).
func (f StepFunc) Run(c *Context) (Outcome, error) {
	return f(c)
}

func (f StepFunc) String() string {
	return "StepFunc"
}

// ArgSource provides the arguments a wrapped function is called with.
type ArgSource interface {
	Resolve(*Context) []any
}

// Args is a fixed list of arguments, passed positionally.
type Args []any

// Resolve returns a copy of the list.
func (a Args) Resolve(*Context) []any {
	return slices.Clone(a)
}

// ArgsFunc computes the arguments from the live context. A returned []any
// is spread over the parameters, any other value is the single argument.
type ArgsFunc func(*Context) any

// Resolve calls f(c).
func (f ArgsFunc) Resolve(c *Context) []any {
	v := f(c)
	if args, ok := v.([]any); ok {
		return args
	}
	return []any{v}
}

func resolveArgs(src ArgSource, c *Context) []any {
	if src == nil {
		return nil
	}
	return src.Resolve(c)
}

// StepOption configures a wrapped step.
type StepOption func(*stepConfig)

type stepConfig struct {
	cancelable bool
	resultName string
	cancelWhen func(any) bool
}

func newStepConfig(opts []StepOption) stepConfig {
	cfg := stepConfig{
		cancelable: true,
		cancelWhen: Falsy,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cancelWhen == nil {
		cfg.cancelWhen = Falsy
	}
	return cfg
}

// WithCancelable sets whether a "no result" value cancels the chain.
// Steps are cancelable by default.
func WithCancelable(cancelable bool) StepOption {
	return func(c *stepConfig) { c.cancelable = cancelable }
}

// WithResultName records the step result under name instead of the
// function name.
func WithResultName(name string) StepOption {
	return func(c *stepConfig) { c.resultName = name }
}

// WithCancelWhen replaces [Falsy] as the test deciding whether a result
// cancels the chain. It has no effect on steps that are not cancelable.
func WithCancelWhen(pred func(any) bool) StepOption {
	return func(c *stepConfig) { c.cancelWhen = pred }
}

// hof is the step built by Wrap.
type hof struct {
	fn   reflect.Value
	name string
	key  string
	args ArgSource
	cfg  stepConfig
}

func newHof(fn any, args ArgSource, opts []StepOption) hof {
	cfg := newStepConfig(opts)
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		v = reflect.Value{}
	}
	name := FuncName(fn)
	return hof{
		fn:   v,
		name: name,
		key:  resultKey(cfg.resultName, name),
		args: args,
		cfg:  cfg,
	}
}

// Wrap adapts fn into a step. When run, the step calls fn with the
// arguments from args and records the returned value in the context
// results. A cancelable step whose result is falsy cancels the chain
// instead.
//
// fn may take a leading context.Context, which receives
// context.Background(), and may return a trailing error, which is returned
// by the step unmodified. If fn is not a function the step passes the
// context through; [Validate] reports such steps.
func Wrap(fn any, args ArgSource, opts ...StepOption) Step {
	h := newHof(fn, args, opts)
	return &h
}

// Run executes the step.
func (h *hof) Run(c *Context) (Outcome, error) {
	if !h.fn.IsValid() {
		return Continue(c), nil
	}
	v, err := call(context.Background(), h.fn, resolveArgs(h.args, c))
	if err != nil {
		return Cancel(), err
	}
	return h.record(c, v)
}

func (h *hof) record(c *Context, v any) (Outcome, error) {
	if h.cfg.cancelable && h.cfg.cancelWhen(v) {
		return Cancel(), nil
	}
	if err := c.Results.Merge(Results{h.key: v}); err != nil {
		return Cancel(), err
	}
	return Continue(c), nil
}

func (h *hof) callable() bool {
	return h.fn.IsValid()
}

func (h *hof) String() string {
	return "Wrap(" + h.label() + ")"
}

func (h *hof) label() string {
	switch {
	case !h.fn.IsValid():
		return "<nil>"
	case h.name == "":
		return "<anonymous>"
	default:
		return h.name
	}
}

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[context.Context]()
)

// call invokes fn with args. Missing parameters get zero values, extra
// arguments are dropped unless fn is variadic.
func call(ctx context.Context, fn reflect.Value, args []any) (any, error) {
	t := fn.Type()
	first := 0
	in := make([]reflect.Value, 0, t.NumIn()+len(args))
	if t.NumIn() > 0 && t.In(0) == contextType {
		in = append(in, reflect.ValueOf(&ctx).Elem())
		first = 1
	}
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	pos := 0
	for i := first; i < fixed; i++ {
		var a any
		if pos < len(args) {
			a = args[pos]
		}
		v, err := argValue(a, t.In(i), pos)
		if err != nil {
			return nil, err
		}
		in = append(in, v)
		pos++
	}
	if t.IsVariadic() {
		elem := t.In(t.NumIn() - 1).Elem()
		for ; pos < len(args); pos++ {
			v, err := argValue(args[pos], elem, pos)
			if err != nil {
				return nil, err
			}
			in = append(in, v)
		}
	}
	return returned(t, fn.Call(in))
}

func argValue(a any, want reflect.Type, pos int) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(want), nil
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if isNumber(v.Kind()) && isNumber(want.Kind()) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: argument %d: %s is not assignable to %s", ErrArgument, pos, v.Type(), want)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// returned folds the values returned by a call into one value and an error.
func returned(t reflect.Type, out []reflect.Value) (any, error) {
	n := len(out)
	if n > 0 && t.Out(n-1) == errorType {
		n--
		if e := out[n]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
	}
	switch n {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vals := make([]any, n)
		for i := range n {
			vals[i] = out[i].Interface()
		}
		return vals, nil
	}
}
