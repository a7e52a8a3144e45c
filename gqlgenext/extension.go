/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package gqlgenext plugs a Meter into a gqlgen server as a handler
// extension. gqlgen parses and validates before extensions see the
// operation, so those categories are not bracketed here; the adapter wires
// what the engine exposes: the operation run (execution or subscription,
// by operation kind) and every field resolution.
package gqlgenext

import (
	"context"
	"sync"

	"github.com/dgraph-io/gqlgen/graphql"
	"github.com/dgraph-io/gqlparser/v2/ast"

	"github.com/hypermodeinc/gqlmeter"
	"github.com/hypermodeinc/gqlmeter/pipeline"
)

var _ interface {
	graphql.HandlerExtension
	graphql.OperationInterceptor
	graphql.FieldInterceptor
} = (*Extension)(nil)

// An Extension adapts a Meter to gqlgen's handler extension interfaces.
type Extension struct {
	meter *gqlmeter.Meter
	hooks *pipeline.Hooks
}

// New returns an extension driving m. Register it with srv.Use.
func New(m *gqlmeter.Meter) *Extension {
	return &Extension{meter: m, hooks: m.Hooks()}
}

func (e *Extension) ExtensionName() string {
	return "TimingInstrumentation"
}

func (e *Extension) Validate(graphql.ExecutableSchema) error {
	return nil
}

func operationKind(oc *graphql.OperationContext) pipeline.OperationKind {
	if oc == nil || oc.Operation == nil {
		return pipeline.KindUnknown
	}
	switch oc.Operation.Operation {
	case ast.Query:
		return pipeline.KindQuery
	case ast.Mutation:
		return pipeline.KindMutation
	case ast.Subscription:
		return pipeline.KindSubscription
	}
	return pipeline.KindUnknown
}

// InterceptOperation brackets the operation run. Subscriptions produce one
// response handler invocation per event, so the after callback is guarded
// to fire once, when the first result is delivered.
func (e *Extension) InterceptOperation(ctx context.Context,
	next graphql.OperationHandler) graphql.ResponseHandler {

	oc := graphql.GetOperationContext(ctx)
	kind := operationKind(oc)

	rc := pipeline.FromContext(ctx)
	if rc == nil {
		rc = pipeline.NewRequestContext(kind)
		ctx = pipeline.NewContext(ctx, rc)
	} else {
		rc.Kind = kind
	}
	if oc != nil {
		e.meter.ClassifyOperation(rc, oc.RawQuery)
	}

	var after func()
	args := pipeline.ExecuteArgs{}
	if oc != nil {
		args.OperationName = oc.OperationName
		args.Variables = oc.Variables
	}
	switch {
	case kind == pipeline.KindSubscription && e.hooks.OnSubscribe != nil:
		after = e.hooks.OnSubscribe(rc, args)
	case kind != pipeline.KindSubscription && e.hooks.OnExecute != nil:
		after = e.hooks.OnExecute(rc, args)
	}

	handler := next(ctx)
	if after == nil {
		return handler
	}

	var once sync.Once
	return func(ctx context.Context) *graphql.Response {
		resp := handler(ctx)
		once.Do(after)
		return resp
	}
}

// InterceptField feeds the native resolver dispatcher. gqlgen settles the
// resolver before returning from next, sync or async alike, so the after
// callback fires exactly once per invocation.
func (e *Extension) InterceptField(ctx context.Context,
	next graphql.Resolver) (interface{}, error) {

	var after func()
	if e.hooks.OnResolve != nil {
		if fc := graphql.GetFieldContext(ctx); fc != nil {
			after = e.hooks.OnResolve(pipeline.FromContext(ctx), pipeline.FieldInfo{
				TypeName:  fc.Object,
				FieldName: fc.Field.Name,
			})
		}
	}

	res, err := next(ctx)
	if after != nil {
		after()
	}
	return res, err
}
