// Package hflow chains ordinary functions into a single callable flow.
// Each step of a flow receives a shared [Context] holding the invocation
// arguments and the results recorded by the steps that ran before it.
//
// # Key Features
//
//   - **Wrapping**: Turn any function into a step with [Wrap] or [WrapAsync].
//   - **Result recording**: Each step stores its return value in the shared results under its own name.
//   - **Cancellation**: A step returning a falsy value stops the rest of the chain.
//   - **Async flows**: [HFlowPromise] awaits every step before starting the next one.
//   - **Middleware**: Intercept the execution of steps, for logging for example.
//
// # Core Concepts
//
//   - **Step**: The unit of work in a flow. It takes a [Context] and returns an [Outcome].
//   - **Outcome**: Either Continue(context) or Cancelled. Composition dispatches on it.
//   - **Flow**: A list of steps composed left to right into one function.
//   - **Promise**: The handle of an asynchronous computation, see [Go] and [Promise.Await].
//   - **Results**: The string keyed map where steps record their values. Later writes win, nested maps are merged.
//
// # Example
//
//	func inc(n int) int { return n + 1 }
//
//	flow := hflow.HFlow(hflow.Steps{
//		hflow.Wrap(inc, hflow.ArgsFunc(func(c *hflow.Context) any { return c.Arg(0) })),
//	})
//	res, err := flow(5) // res is hflow.Results{"inc": 6}
package hflow
