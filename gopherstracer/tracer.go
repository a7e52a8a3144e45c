/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package gopherstracer plugs a Meter into graph-gophers/graphql-go, whose
// tracer contract is the native hook shape this library expects: a
// before-call that returns the finish callback. The engine brackets the
// whole query with TraceQuery, so that maps onto the execution category;
// validation and per-field resolution map directly.
package gopherstracer

import (
	"context"

	qerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"

	"github.com/hypermodeinc/gqlmeter"
	"github.com/hypermodeinc/gqlmeter/pipeline"
)

var _ interface {
	tracer.Tracer
	tracer.ValidationTracer
} = (*Tracer)(nil)

// A Tracer adapts a Meter to the graph-gophers tracer interfaces.
type Tracer struct {
	meter *gqlmeter.Meter
	hooks *pipeline.Hooks
}

// New returns a tracer driving m. Register it with the engine's
// graphql.Tracer option.
func New(m *gqlmeter.Meter) *Tracer {
	return &Tracer{meter: m, hooks: m.Hooks()}
}

// TraceQuery brackets one request. The engine calls it before parsing and
// invokes the finish callback after execution, so the raw query text is
// classified here, ahead of every measured phase.
func (t *Tracer) TraceQuery(ctx context.Context, queryString, operationName string,
	variables map[string]interface{},
	varTypes map[string]*introspection.Type) (context.Context, func([]*qerrors.QueryError)) {

	rc := pipeline.FromContext(ctx)
	if rc == nil {
		rc = pipeline.NewRequestContext(pipeline.KindQuery)
		ctx = pipeline.NewContext(ctx, rc)
	}
	t.meter.ClassifyOperation(rc, queryString)

	var after func()
	if t.hooks.OnExecute != nil {
		after = t.hooks.OnExecute(rc, pipeline.ExecuteArgs{
			OperationName: operationName,
			Variables:     variables,
		})
	}
	return ctx, func(errs []*qerrors.QueryError) {
		if after != nil {
			after()
		}
	}
}

// TraceValidation brackets the validation phase. The engine hands over no
// parsed document here, so the validation sink sees a nil document.
func (t *Tracer) TraceValidation(ctx context.Context) func([]*qerrors.QueryError) {
	rc := pipeline.FromContext(ctx)

	var after func()
	if t.hooks.OnValidate != nil {
		after = t.hooks.OnValidate(rc, nil)
	}
	return func(errs []*qerrors.QueryError) {
		if after != nil {
			after()
		}
	}
}

// TraceField brackets one resolver invocation through the native
// dispatcher.
func (t *Tracer) TraceField(ctx context.Context, label, typeName, fieldName string,
	trivial bool, args map[string]interface{}) (context.Context, func(*qerrors.QueryError)) {

	rc := pipeline.FromContext(ctx)

	var after func()
	if t.hooks.OnResolve != nil {
		after = t.hooks.OnResolve(rc, pipeline.FieldInfo{
			TypeName:  typeName,
			FieldName: fieldName,
		})
	}
	return ctx, func(err *qerrors.QueryError) {
		if after != nil {
			after()
		}
	}
}
