/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestContextRoundTrip(t *testing.T) {
	rc := NewRequestContext(KindSubscription)
	require.NotEmpty(t, rc.ID)
	require.Equal(t, KindSubscription, rc.Kind)
	require.False(t, rc.IsIntrospection)

	ctx := NewContext(context.Background(), rc)
	require.Same(t, rc, FromContext(ctx))
}

func TestFromContextWithoutRequestState(t *testing.T) {
	require.Nil(t, FromContext(context.Background()))
}

func TestOperationKindString(t *testing.T) {
	require.Equal(t, "query", KindQuery.String())
	require.Equal(t, "mutation", KindMutation.String())
	require.Equal(t, "subscription", KindSubscription.String())
	require.Equal(t, "unknown", KindUnknown.String())
}
