/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package pipeline

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFutureThenRunsOnSettle(t *testing.T) {
	f := NewFuture()
	var got interface{}
	f.Then(func(v interface{}) (interface{}, error) {
		got = v
		return v, nil
	}, nil)

	f.Complete(42)
	require.Equal(t, 42, got)

	v, err := f.Result()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestFutureThenAfterSettleRunsImmediately(t *testing.T) {
	f := NewFuture()
	f.Complete("done")

	ran := false
	f.Then(func(v interface{}) (interface{}, error) {
		ran = true
		return v, nil
	}, nil)
	require.True(t, ran)
}

func TestFutureContinuationsRunInRegistrationOrder(t *testing.T) {
	f := NewFuture()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		f.Then(func(v interface{}) (interface{}, error) {
			order = append(order, i)
			return v, nil
		}, nil)
	}
	f.Complete(nil)
	require.Equal(t, []int{0, 1, 2}, order)
}

func TestFutureThenSubstitutesOutcomeForChild(t *testing.T) {
	f := NewFuture()
	child := f.Then(func(v interface{}) (interface{}, error) {
		return v.(int) + 1, nil
	}, nil)
	f.Complete(1)

	v, err := child.(*Future).Result()
	require.NoError(t, err)
	require.Equal(t, 2, v)

	// The original future still holds its own outcome.
	v, err = f.Result()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestFutureErrorContinuation(t *testing.T) {
	boom := errors.New("boom")
	f := NewFuture()

	var seen error
	child := f.Then(nil, func(err error) (interface{}, error) {
		seen = err
		return nil, err
	})
	f.Fail(boom)

	require.Same(t, boom, seen)
	_, err := child.(*Future).Result()
	require.Same(t, boom, err)
}

func TestFutureNilContinuationsPassThrough(t *testing.T) {
	f := NewFuture()
	child := f.Then(nil, nil)
	f.Complete("v")
	v, err := child.(*Future).Result()
	require.NoError(t, err)
	require.Equal(t, "v", v)
}

func TestFutureSettlingTwicePanics(t *testing.T) {
	f := NewFuture()
	f.Complete(1)
	require.Panics(t, func() { f.Complete(2) })
}
