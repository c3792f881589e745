package hflow

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Context is the state threaded through the steps of one flow invocation.
// The arguments are fixed at creation, the results only grow.
type Context struct {
	// ID identifies the flow invocation that owns the context.
	ID uuid.UUID
	// Results holds the values recorded by the steps that already ran.
	Results Results

	args []any
}

// NewContext creates a context for the given invocation arguments.
// The arguments are copied.
func NewContext(id uuid.UUID, args ...any) *Context {
	return &Context{
		ID:      id,
		Results: Results{},
		args:    slices.Clone(args),
	}
}

// Args returns a copy of the invocation arguments.
func (c *Context) Args() []any {
	return slices.Clone(c.args)
}

// Arg returns the i-th invocation argument, or nil if there is none.
func (c *Context) Arg(i int) any {
	if i < 0 || i >= len(c.args) {
		return nil
	}
	return c.args[i]
}

// NumArgs returns the number of invocation arguments.
func (c *Context) NumArgs() int {
	return len(c.args)
}

func (c *Context) String() string {
	if c == nil {
		return "none"
	}
	return fmt.Sprintf("Context{ID: %s, Args: %v, Results: %v}", c.ID, c.args, c.Results)
}

// Outcome is what a step hands to the next one: either the context to
// continue with, or a cancellation of the rest of the chain.
type Outcome struct {
	ctx *Context
}

// Continue returns an outcome that carries c to the next step.
// A nil context is the same as [Cancel].
func Continue(c *Context) Outcome {
	return Outcome{ctx: c}
}

// Cancel returns an outcome that skips every remaining step.
func Cancel() Outcome {
	return Outcome{}
}

// IsCancelled reports whether the chain was cancelled.
func (o Outcome) IsCancelled() bool {
	return o.ctx == nil
}

// Context returns the carried context, nil when cancelled.
func (o Outcome) Context() *Context {
	return o.ctx
}

func (o Outcome) String() string {
	if o.IsCancelled() {
		return "Cancelled"
	}
	return fmt.Sprintf("Continue(%v)", o.ctx)
}
