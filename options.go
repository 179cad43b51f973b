package slotz

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Option configures the render pipeline of a Binding or Registry. Pipeline
// stages run on the owner executor between the currency check and the
// apply, so they only ever see results that are still current. A stage
// error turns the load into a failure: the fallback image renders and the
// caller's completion callback receives the error.
//
// Instance configuration (clock, executor, metrics, indicator) is handled
// via chainable methods before the first Load.
type Option func(pipz.Chainable[*Render]) pipz.Chainable[*Render]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline(terminal pipz.Chainable[*Render], opts []Option) pipz.Chainable[*Render] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithMiddleware wraps the pipeline with a sequence of processors.
// Processors execute in order, with the delivery terminal last.
//
// Example:
//
//	slotz.New(slot, fetcher,
//	    slotz.WithMiddleware(
//	        slotz.UseEffect("log", logFn),
//	        slotz.UseApply("downscale", downscaleFn),
//	    ),
//	)
func WithMiddleware(processors ...pipz.Chainable[*Render]) Option {
	return func(p pipz.Chainable[*Render]) pipz.Chainable[*Render] {
		all := make([]pipz.Chainable[*Render], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// WithErrorHandler adds error observation to the pipeline. Errors are
// passed to the handler for logging or alerting, but still propagate and
// still fail the load. Use for observability, not recovery.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Render]]) Option {
	return func(p pipz.Chainable[*Render]) pipz.Chainable[*Render] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// UseTransform creates a stage that transforms the render. Cannot fail.
func UseTransform(name string, fn func(context.Context, *Render) *Render) pipz.Chainable[*Render] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a stage that can transform the render and fail. Use for
// image post-processing that may produce errors.
func UseApply(name string, fn func(context.Context, *Render) (*Render, error)) pipz.Chainable[*Render] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a stage that performs a side effect. The render passes
// through unchanged.
func UseEffect(name string, fn func(context.Context, *Render) error) pipz.Chainable[*Render] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseFilter wraps a stage with a condition. When the condition returns
// false the render passes through unchanged.
func UseFilter(name string, condition func(context.Context, *Render) bool, processor pipz.Chainable[*Render]) pipz.Chainable[*Render] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}
