/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package gqlmeter measures the wall-clock duration of each phase of a
// GraphQL request pipeline (context building, parsing, validation,
// execution, subscription, per-field resolution) and reports it to
// configurable sinks. It never changes what the pipeline returns: results,
// errors and their sync/async shape pass through untouched.
//
// A Meter plugs into an engine in two ways. Engines with per-phase and
// per-resolver lifecycle hooks drive the callbacks returned by Hooks.
// Engines without a native per-resolver hook for a mode, subscriptions in
// the integrations this was built for, instead have their schema's field
// resolvers rewritten once via InstrumentSchema.
package gqlmeter

import (
	"github.com/dgraph-io/gqlparser/v2/ast"

	"github.com/hypermodeinc/gqlmeter/clock"
	"github.com/hypermodeinc/gqlmeter/pipeline"
	"github.com/hypermodeinc/gqlmeter/resolve"
)

// A Meter owns the sink configuration and clock of one pipeline instance.
// It holds no per-request state: every start marker lives in the closure
// that will report it, so concurrent requests and concurrently evaluated
// fields need no locking.
type Meter struct {
	cfg config
}

// New returns a Meter with opts merged over the defaults. Categories whose
// sink is explicitly set to nil are disabled end to end.
func New(opts ...Option) *Meter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = clock.System()
	}
	return &Meter{cfg: cfg}
}

// Hooks returns the lifecycle hooks the engine should drive. Disabled
// categories come back as nil fields, not as registered no-ops: a disabled
// category costs nothing, not even a clock read.
//
// The parse hook is also present when skip-introspection is on with parsing
// measurement disabled, because classification during the parse phase is
// what gates every later phase; it reads no clock in that case.
func (m *Meter) Hooks() *pipeline.Hooks {
	s := m.cfg.sinks
	h := &pipeline.Hooks{}

	if s.contextBuilding != nil {
		h.OnContextBuild = m.onContextBuild
	}
	if s.parsing != nil || m.cfg.skipIntrospection {
		h.OnParse = m.onParse
	}
	if s.validation != nil {
		h.OnValidate = m.onValidate
	}
	if s.execution != nil {
		h.OnExecute = m.operationBracket(func(rc *pipeline.RequestContext,
			args pipeline.ExecuteArgs, elapsed clock.Measurement) {
			s.execution(rc, args, elapsed)
		})
	}
	if s.subscription != nil {
		h.OnSubscribe = m.operationBracket(func(rc *pipeline.RequestContext,
			args pipeline.ExecuteArgs, elapsed clock.Measurement) {
			s.subscription(rc, args, elapsed)
		})
	}
	if s.resolver != nil && (s.execution != nil || s.subscription != nil) {
		h.OnResolve = m.onResolve
	}
	return h
}

func suppressed(rc *pipeline.RequestContext) bool {
	return rc != nil && rc.IsIntrospection
}

func (m *Meter) onContextBuild(rc *pipeline.RequestContext) func() {
	if suppressed(rc) {
		return nil
	}
	start := m.cfg.clock.Mark()
	return func() {
		m.cfg.sinks.contextBuilding(rc, m.cfg.clock.Elapsed(start))
	}
}

// ClassifyOperation marks rc as introspection when skip-introspection is
// configured and the raw operation text classifies as an introspection
// query, and reports whether the request is suppressed. The parse hook runs
// this itself; engine adapters without a bracketed parse phase call it once
// per request before driving the other hooks.
func (m *Meter) ClassifyOperation(rc *pipeline.RequestContext, source string) bool {
	if rc == nil || !m.cfg.skipIntrospection {
		return false
	}
	if !rc.IsIntrospection && isIntrospectionQuery(source) {
		rc.IsIntrospection = true
	}
	return rc.IsIntrospection
}

// onParse classifies the raw operation text before deciding to start a
// timer, so an introspection request never measures parsing either.
func (m *Meter) onParse(rc *pipeline.RequestContext, source string) func(*ast.QueryDocument) {
	if suppressed(rc) {
		return nil
	}
	if m.ClassifyOperation(rc, source) {
		return nil
	}
	if m.cfg.sinks.parsing == nil {
		return nil
	}
	start := m.cfg.clock.Mark()
	return func(doc *ast.QueryDocument) {
		m.cfg.sinks.parsing(rc, source, m.cfg.clock.Elapsed(start))
	}
}

func (m *Meter) onValidate(rc *pipeline.RequestContext, doc *ast.QueryDocument) func() {
	if suppressed(rc) {
		return nil
	}
	start := m.cfg.clock.Mark()
	return func() {
		m.cfg.sinks.validation(rc, doc, m.cfg.clock.Elapsed(start))
	}
}

// operationBracket is the single registration body shared by the execution
// and subscription phases; only the sink differs.
func (m *Meter) operationBracket(sink func(*pipeline.RequestContext,
	pipeline.ExecuteArgs, clock.Measurement)) func(*pipeline.RequestContext,
	pipeline.ExecuteArgs) func() {

	return func(rc *pipeline.RequestContext, args pipeline.ExecuteArgs) func() {
		if suppressed(rc) {
			return nil
		}
		start := m.cfg.clock.Mark()
		return func() {
			sink(rc, args, m.cfg.clock.Elapsed(start))
		}
	}
}

// onResolve is the native per-resolver dispatcher. The engine's hook fires
// the returned callback exactly once after the resolver settles, so this
// path never looks at resolver outcomes.
func (m *Meter) onResolve(rc *pipeline.RequestContext, info pipeline.FieldInfo) func() {
	if suppressed(rc) {
		return nil
	}
	start := m.cfg.clock.Mark()
	return func() {
		m.cfg.sinks.resolver(rc, info, m.cfg.clock.Elapsed(start))
	}
}

// InstrumentSchema rewrites every field resolver reachable through s with a
// timing wrapper. It serves the mode where no native per-resolver hook
// exists, subscriptions here, and therefore measures only subscription
// requests so that requests covered by the Hooks dispatcher are not
// measured twice. Call it whenever the engine makes a (new) schema
// available. No-op unless both the resolver and subscription sinks are
// configured.
func (m *Meter) InstrumentSchema(s resolve.FieldWalker) {
	if m.cfg.sinks.resolver == nil || m.cfg.sinks.subscription == nil {
		return
	}
	resolve.WrapSchema(s, m.subscriptionFieldHook)
}

func (m *Meter) subscriptionFieldHook(inv *resolve.Invocation) resolve.AfterFunc {
	rc := pipeline.FromContext(inv.Ctx)
	if rc == nil || rc.Kind != pipeline.KindSubscription || rc.IsIntrospection {
		return nil
	}
	start := m.cfg.clock.Mark()
	info := inv.Info
	return func(o *resolve.Outcome) {
		m.cfg.sinks.resolver(rc, info, m.cfg.clock.Elapsed(start))
	}
}
