package hflow

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func inc(n int) int { return n + 1 }

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == "duration" {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	ids := &StaticID{}
	flow := HFlow(Steps{
		Wrap(inc, Args{1}),
		Wrap(func() bool { return false }, nil),
	}, WithMiddleware(LoggerMiddleware(testLogger(&buf))), WithIDGenerator(ids))

	if _, err := flow(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`level=INFO msg=start step=Wrap(inc) id=00000000-0000-0000-0000-000000000001`,
		`level=INFO msg=done step=Wrap(inc) id=00000000-0000-0000-0000-000000000001 cancelled=false`,
		`level=INFO msg=start step=Wrap(<anonymous>) id=00000000-0000-0000-0000-000000000001`,
		`level=INFO msg=done step=Wrap(<anonymous>) id=00000000-0000-0000-0000-000000000001 cancelled=true`,
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got logs:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestLoggerMiddlewareFailure(t *testing.T) {
	var buf bytes.Buffer
	flow := HFlow(Steps{
		Wrap(func() (int, error) { return 0, context.Canceled }, nil),
	}, WithMiddleware(LoggerMiddleware(testLogger(&buf))))

	if _, err := flow(); err != context.Canceled {
		t.Fatalf("got %v, want %v", err, context.Canceled)
	}
	if !strings.Contains(buf.String(), `level=ERROR msg=failed`) {
		t.Fatalf("failure not logged: %s", buf.String())
	}
}

func TestAsyncLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	flow := HFlowPromise(AsyncSteps{
		WrapAsync(inc, Args{1}),
	}, WithAsyncMiddleware(AsyncLoggerMiddleware(testLogger(&buf))))

	got, err := flow(t.Context()).Await(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if got.(Results)["inc"] != 2 {
		t.Fatalf("got %v", got)
	}
	logs := buf.String()
	for _, msg := range []string{"msg=start step=WrapAsync(inc)", "msg=done step=WrapAsync(inc)"} {
		if !strings.Contains(logs, msg) {
			t.Fatalf("missing %q in logs:\n%s", msg, logs)
		}
	}
}

func TestLoggerMiddlewareNilLogger(t *testing.T) {
	flow := HFlow(Steps{Wrap(inc, Args{1})}, WithMiddleware(LoggerMiddleware(nil)))
	got, err := flow()
	if err != nil {
		t.Fatal(err)
	}
	if got.(Results)["inc"] != 2 {
		t.Fatalf("got %v", got)
	}

	async := HFlowPromise(AsyncSteps{WrapAsync(inc, Args{1})}, WithAsyncMiddleware(AsyncLoggerMiddleware(nil)))
	got, err = async(t.Context()).Await(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if got.(Results)["inc"] != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var calls []string
	tag := func(name string) Middleware {
		return func(next Step) Step {
			return &MidFunc{
				Name: name,
				Next: next,
				Fn: func(c *Context) (Outcome, error) {
					calls = append(calls, name)
					return next.Run(c)
				},
			}
		}
	}
	flow := HFlow(Steps{Wrap(inc, Args{1}), Wrap(inc, Args{2})}, WithMiddleware(tag("outer"), tag("inner")))

	// middleware is applied anew on every run
	for range 2 {
		calls = nil
		if _, err := flow(); err != nil {
			t.Fatal(err)
		}
		if got, want := strings.Join(calls, ","), "outer,inner,outer,inner"; got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	}
}

func TestRecoverMiddleware(t *testing.T) {
	flow := HFlow(Steps{
		Wrap(func() int { panic("kaput") }, nil),
	}, WithMiddleware(RecoverMiddleware()))

	_, err := flow()
	rp, ok := err.(*RecoveredPanic)
	if !ok {
		t.Fatalf("got %v, want a *RecoveredPanic", err)
	}
	if rp.Value != "kaput" {
		t.Fatalf("got %v", rp.Value)
	}
}
