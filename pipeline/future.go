/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package pipeline

import "sync"

// Deferred is the pipeline's asynchronous resolver result: a value that is
// not ready when the resolver returns. Detecting one is a plain type
// assertion against this interface, never structural probing of arbitrary
// values.
type Deferred interface {
	// Then registers continuations to run when the value settles. Exactly
	// one of onValue/onErr runs, on the settling goroutine, in the order
	// continuations were registered. A nil continuation passes the outcome
	// through unchanged. The returned Deferred settles with the
	// continuation's outcome, so a continuation can substitute the value
	// (or error) its consumers observe.
	Then(onValue func(interface{}) (interface{}, error),
		onErr func(error) (interface{}, error)) Deferred
}

// A Future is the concrete Deferred used by engines that evaluate fields
// asynchronously. It settles at most once.
type Future struct {
	mu      sync.Mutex
	settled bool
	value   interface{}
	err     error
	done    chan struct{}
	conts   []func(interface{}, error)
}

// NewFuture returns an unsettled future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Complete settles the future with a value. Settling twice panics: a
// deferred resolver result has exactly one outcome.
func (f *Future) Complete(value interface{}) {
	f.settle(value, nil)
}

// Fail settles the future with an error.
func (f *Future) Fail(err error) {
	f.settle(nil, err)
}

func (f *Future) settle(value interface{}, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		panic("pipeline: future settled twice")
	}
	f.settled = true
	f.value = value
	f.err = err
	conts := f.conts
	f.conts = nil
	close(f.done)
	f.mu.Unlock()

	for _, c := range conts {
		c(value, err)
	}
}

// Then implements Deferred.
func (f *Future) Then(onValue func(interface{}) (interface{}, error),
	onErr func(error) (interface{}, error)) Deferred {

	child := NewFuture()
	cont := func(value interface{}, err error) {
		if err != nil {
			if onErr == nil {
				child.Fail(err)
				return
			}
			child.settle(onErr(err))
			return
		}
		if onValue == nil {
			child.Complete(value)
			return
		}
		child.settle(onValue(value))
	}

	f.mu.Lock()
	if !f.settled {
		f.conts = append(f.conts, cont)
		f.mu.Unlock()
		return child
	}
	value, err := f.value, f.err
	f.mu.Unlock()

	cont(value, err)
	return child
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future settles and returns its outcome.
func (f *Future) Result() (interface{}, error) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}
