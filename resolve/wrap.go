/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package resolve wraps schema field resolvers so that an observer can run
// around every invocation without changing what downstream consumers see:
// the original resolver runs exactly once, values and errors propagate
// unmodified unless a hook explicitly substitutes them, and deferred
// results keep their settle timing.
package resolve

import (
	"context"

	"github.com/hypermodeinc/gqlmeter/pipeline"
)

// A Resolver produces the value of one field.
type Resolver func(ctx context.Context, root interface{},
	args map[string]interface{}, info pipeline.FieldInfo) (interface{}, error)

// An Invocation is one resolver call as seen by a BeforeFunc. The hook may
// swap the resolver used for this call only.
type Invocation struct {
	Ctx  context.Context
	Root interface{}
	Args map[string]interface{}
	Info pipeline.FieldInfo

	resolver Resolver
}

// Resolver returns the function that will run for this invocation.
func (inv *Invocation) Resolver() Resolver {
	return inv.resolver
}

// ReplaceResolver substitutes the resolver for this invocation.
func (inv *Invocation) ReplaceResolver(r Resolver) {
	if r == nil {
		panic("resolve: replacement resolver must not be nil")
	}
	inv.resolver = r
}

// An Outcome is the settled result of one resolver invocation: a value or
// an error. An after hook may substitute it before downstream consumers
// observe it.
type Outcome struct {
	value interface{}
	err   error
}

// Value returns the outcome as the resolver contract's return pair.
func (o *Outcome) Value() (interface{}, error) {
	return o.value, o.err
}

// Err reports the error half of the outcome, nil on success.
func (o *Outcome) Err() error {
	return o.err
}

// Replace substitutes the outcome downstream consumers will observe. The
// timing instrumentation never calls this; it exists for other hooks
// layered on the same wrapping mechanism.
func (o *Outcome) Replace(value interface{}, err error) {
	o.value = value
	o.err = err
}

// An AfterFunc observes (and may replace) the settled outcome of an
// invocation its BeforeFunc was called for.
type AfterFunc func(o *Outcome)

// A BeforeFunc runs ahead of every wrapped resolver call. Returning nil
// skips observation for this call entirely: the resolver then runs with
// zero added overhead.
type BeforeFunc func(inv *Invocation) AfterFunc

// Wrap returns a resolver with the same external contract as r that
// additionally drives before around every invocation. A nil before returns
// r unchanged.
func Wrap(r Resolver, before BeforeFunc) Resolver {
	if before == nil || r == nil {
		return r
	}

	return func(ctx context.Context, root interface{},
		args map[string]interface{}, info pipeline.FieldInfo) (interface{}, error) {

		inv := &Invocation{Ctx: ctx, Root: root, Args: args, Info: info, resolver: r}
		after := before(inv)
		if after == nil {
			return inv.resolver(ctx, root, args, info)
		}

		value, err := inv.resolver(ctx, root, args, info)

		// The capability check is a type assertion against the pipeline's
		// deferred abstraction; nil, primitives and functions all land on
		// the immediate path.
		if d, ok := value.(pipeline.Deferred); ok && err == nil {
			return d.Then(
				func(v interface{}) (interface{}, error) {
					o := &Outcome{value: v}
					after(o)
					return o.Value()
				},
				func(settledErr error) (interface{}, error) {
					o := &Outcome{err: settledErr}
					after(o)
					return o.Value()
				},
			), nil
		}

		o := &Outcome{value: value, err: err}
		after(o)
		return o.Value()
	}
}

// A FieldWalker is the schema side of resolver wrapping. The schema
// representation itself stays with the engine; all this layer needs is a
// visit of every field resolver with the chance to replace it.
type FieldWalker interface {
	WalkFieldResolvers(visit func(typeName, fieldName string, r Resolver) Resolver)
}

// WrapSchema replaces every field resolver in s with its wrapped version.
// It is installed once, when the engine makes a schema available, and from
// then on fires for every field resolution of every request.
func WrapSchema(s FieldWalker, before BeforeFunc) {
	if s == nil || before == nil {
		return
	}
	s.WalkFieldResolvers(func(typeName, fieldName string, r Resolver) Resolver {
		return Wrap(r, before)
	})
}
