/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package pipeline defines the narrow contracts between a GraphQL request
// pipeline and the timing instrumentation layered on top of it. The engine
// owns request execution; this package only names the points where the two
// meet: a typed per-request state record, the lifecycle hook registration
// surface, and the deferred-value abstraction for asynchronous resolvers.
package pipeline

import (
	"context"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/google/uuid"
)

// OperationKind tells the instrumentation which top-level operation a
// request runs. The engine sets it once it has routed the request.
type OperationKind int

const (
	KindUnknown OperationKind = iota
	KindQuery
	KindMutation
	KindSubscription
)

func (k OperationKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindMutation:
		return "mutation"
	case KindSubscription:
		return "subscription"
	}
	return "unknown"
}

// A RequestContext is the per-request state shared between the engine and
// the instrumentation. IsIntrospection is written at most once, during
// parsing, and is read-only afterwards, so it needs no locking beyond
// ordinary request-scoped passing.
type RequestContext struct {
	ID   string
	Kind OperationKind

	// IsIntrospection suppresses measurement of every phase after parsing
	// when the request was classified as an introspection query.
	IsIntrospection bool
}

// NewRequestContext returns request state with a fresh ID.
func NewRequestContext(kind OperationKind) *RequestContext {
	return &RequestContext{ID: uuid.New().String(), Kind: kind}
}

type requestCtxKey struct{}

// NewContext attaches rc to ctx so that schema-level resolver wrappers,
// which only see the context, can reach the request state.
func NewContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, rc)
}

// FromContext returns the request state attached by NewContext, or nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestCtxKey{}).(*RequestContext)
	return rc
}

// ExecuteArgs is the natural argument of the execution and subscription
// phases: what the engine is about to run.
type ExecuteArgs struct {
	OperationName string
	Variables     map[string]interface{}
	Document      *ast.QueryDocument
}

// FieldInfo is the static metadata of one resolver invocation.
type FieldInfo struct {
	TypeName  string
	FieldName string
}

// Hooks is the lifecycle hook surface an engine drives. A nil field means
// the phase is not instrumented at all; the engine must not call it. Every
// non-nil before hook returns the after callback to invoke exactly once
// when the phase completes, or nil when this particular request is not
// measured.
type Hooks struct {
	OnContextBuild func(rc *RequestContext) func()
	OnParse        func(rc *RequestContext, source string) func(doc *ast.QueryDocument)
	OnValidate     func(rc *RequestContext, doc *ast.QueryDocument) func()
	OnExecute      func(rc *RequestContext, args ExecuteArgs) func()
	OnSubscribe    func(rc *RequestContext, args ExecuteArgs) func()
	OnResolve      func(rc *RequestContext, info FieldInfo) func()
}
