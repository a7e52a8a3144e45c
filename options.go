/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package gqlmeter

import (
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/golang/glog"

	"github.com/hypermodeinc/gqlmeter/clock"
	"github.com/hypermodeinc/gqlmeter/pipeline"
)

// Sink callbacks receive a measurement category's natural argument plus the
// finished Measurement. Sinks run synchronously on the request's own control
// flow; whatever they raise propagates to the engine's error boundary.
type (
	ContextSink      func(rc *pipeline.RequestContext, m clock.Measurement)
	ParsingSink      func(rc *pipeline.RequestContext, source string, m clock.Measurement)
	ValidationSink   func(rc *pipeline.RequestContext, doc *ast.QueryDocument, m clock.Measurement)
	ExecutionSink    func(rc *pipeline.RequestContext, args pipeline.ExecuteArgs, m clock.Measurement)
	SubscriptionSink func(rc *pipeline.RequestContext, args pipeline.ExecuteArgs, m clock.Measurement)
	ResolverSink     func(rc *pipeline.RequestContext, info pipeline.FieldInfo, m clock.Measurement)
)

type sinkSet struct {
	contextBuilding ContextSink
	parsing         ParsingSink
	validation      ValidationSink
	execution       ExecutionSink
	subscription    SubscriptionSink
	resolver        ResolverSink
}

type config struct {
	sinks             sinkSet
	skipIntrospection bool
	clock             clock.Clock
}

// An Option overrides one piece of a Meter's defaults. Sink options given a
// nil callback disable the category outright: no hook is registered for it
// and the clock is never read on its behalf.
type Option func(*config)

func WithContextSink(s ContextSink) Option {
	return func(c *config) { c.sinks.contextBuilding = s }
}

func WithParsingSink(s ParsingSink) Option {
	return func(c *config) { c.sinks.parsing = s }
}

func WithValidationSink(s ValidationSink) Option {
	return func(c *config) { c.sinks.validation = s }
}

func WithExecutionSink(s ExecutionSink) Option {
	return func(c *config) { c.sinks.execution = s }
}

func WithSubscriptionSink(s SubscriptionSink) Option {
	return func(c *config) { c.sinks.subscription = s }
}

func WithResolverSink(s ResolverSink) Option {
	return func(c *config) { c.sinks.resolver = s }
}

// WithSkipIntrospection suppresses measurement of requests whose operation
// text classifies as an introspection query. Classification happens during
// the parse phase and gates every phase after it, and parsing itself.
func WithSkipIntrospection(skip bool) Option {
	return func(c *config) { c.skipIntrospection = skip }
}

// WithClock substitutes the time source, which tests use to make elapsed
// time deterministic and to count clock reads.
func WithClock(clk clock.Clock) Option {
	return func(c *config) { c.clock = clk }
}

func label(rc *pipeline.RequestContext) string {
	if rc == nil {
		return "-"
	}
	return rc.ID
}

// defaultConfig builds the sinks a Meter starts from. Each Meter gets its
// own set; there is no process-wide mutable default.
func defaultConfig() config {
	return config{
		clock: clock.System(),
		sinks: sinkSet{
			contextBuilding: func(rc *pipeline.RequestContext, m clock.Measurement) {
				glog.Infof("gqlmeter: context building took %.3fms [request %s]", m.Ms, label(rc))
			},
			parsing: func(rc *pipeline.RequestContext, source string, m clock.Measurement) {
				glog.Infof("gqlmeter: parsing took %.3fms [request %s]", m.Ms, label(rc))
			},
			validation: func(rc *pipeline.RequestContext, doc *ast.QueryDocument, m clock.Measurement) {
				glog.Infof("gqlmeter: validation took %.3fms [request %s]", m.Ms, label(rc))
			},
			execution: func(rc *pipeline.RequestContext, args pipeline.ExecuteArgs, m clock.Measurement) {
				glog.Infof("gqlmeter: execution of %q took %.3fms [request %s]",
					args.OperationName, m.Ms, label(rc))
			},
			subscription: func(rc *pipeline.RequestContext, args pipeline.ExecuteArgs, m clock.Measurement) {
				glog.Infof("gqlmeter: subscription of %q took %.3fms [request %s]",
					args.OperationName, m.Ms, label(rc))
			},
			resolver: func(rc *pipeline.RequestContext, info pipeline.FieldInfo, m clock.Measurement) {
				glog.Infof("gqlmeter: resolver %s.%s took %.3fms [request %s]",
					info.TypeName, info.FieldName, m.Ms, label(rc))
			},
		},
	}
}
