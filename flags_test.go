/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package gqlmeter

import (
	"testing"

	"github.com/dgraph-io/ristretto/v2/z"
	"github.com/stretchr/testify/require"
)

func superFlag(t *testing.T, s string) *z.SuperFlag {
	t.Helper()
	return z.NewSuperFlag(s).MergeAndCheckDefault(FlagDefaults)
}

func TestFromSuperFlagDefaults(t *testing.T) {
	opts, err := FromSuperFlag(superFlag(t, FlagDefaults))
	require.NoError(t, err)

	m := New(opts...)
	h := m.Hooks()
	require.NotNil(t, h.OnContextBuild)
	require.NotNil(t, h.OnParse)
	require.NotNil(t, h.OnValidate)
	require.NotNil(t, h.OnExecute)
	require.NotNil(t, h.OnSubscribe)
	require.NotNil(t, h.OnResolve)
	require.False(t, m.cfg.skipIntrospection)
}

func TestFromSuperFlagDisabled(t *testing.T) {
	opts, err := FromSuperFlag(superFlag(t, "enabled=false;"))
	require.NoError(t, err)

	h := New(opts...).Hooks()
	require.Nil(t, h.OnContextBuild)
	require.Nil(t, h.OnParse)
	require.Nil(t, h.OnValidate)
	require.Nil(t, h.OnExecute)
	require.Nil(t, h.OnSubscribe)
	require.Nil(t, h.OnResolve)
}

func TestFromSuperFlagCategoryList(t *testing.T) {
	opts, err := FromSuperFlag(superFlag(t, "categories=parsing,execution,resolver;"))
	require.NoError(t, err)

	h := New(opts...).Hooks()
	require.Nil(t, h.OnContextBuild)
	require.NotNil(t, h.OnParse)
	require.Nil(t, h.OnValidate)
	require.NotNil(t, h.OnExecute)
	require.Nil(t, h.OnSubscribe)
	require.NotNil(t, h.OnResolve)
}

func TestFromSuperFlagSkipIntrospection(t *testing.T) {
	opts, err := FromSuperFlag(superFlag(t, "skip-introspection=true;"))
	require.NoError(t, err)
	require.True(t, New(opts...).cfg.skipIntrospection)
}

func TestFromSuperFlagRejectsUnknownCategory(t *testing.T) {
	_, err := FromSuperFlag(superFlag(t, "categories=parsing,bogus;"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bogus")
}
