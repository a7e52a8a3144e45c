/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package gqlmeter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The leading part of the introspection document GraphQL clients send.
const clientIntrospectionQuery = `
  query IntrospectionQuery {
    __schema {
      queryType { name }
      mutationType { name }
      subscriptionType { name }
      types {
        ...FullType
      }
    }
  }
  fragment FullType on __Type {
    kind
    name
    fields(includeDeprecated: true) {
      name
    }
  }`

func TestIsIntrospectionQuery(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   bool
	}{
		{"client introspection document", clientIntrospectionQuery, true},
		{"anonymous schema query", `{ __schema { types { name } } }`, true},
		{"type query", `query { __type(name: "Author") { name } }`, true},
		{"typename only", `{ __typename }`, true},
		{"aliased introspection field", `{ s: __schema { types { name } } }`, true},
		{"named query with variables", `query Q($d: Boolean!) { __type(name: "T") @include(if: $d) { name } }`, true},
		{"multiple introspection fields", `{ __schema { types { name } } __type(name: "T") { name } }`, true},
		{"operation directive", `query Q @cached { __schema { types { name } } }`, true},
		{"comments ignored", "# look\n{ __schema { types { name } } }", true},

		{"plain query", `{ getAuthor(id: "0x1") { name } }`, false},
		{"mixed fields", `{ __schema { types { name } } getAuthor { name } }`, false},
		{"introspection-named argument", `{ getAuthor(name: "__schema") { name } }`, false},
		{"double underscore deeper down", `{ getAuthor { __typename } }`, false},
		{"mutation", `mutation { addAuthor(input: {name: "a"}) { author { name } } }`, false},
		{"subscription", `subscription { newPost { id } }`, false},
		{"top level fragment spread", `{ ...f } fragment f on Query { __schema { types { name } } }`, false},
		{"fragment definition first", `fragment f on Query { __schema { types { name } } } query { ...f }`, false},
		{"empty", ``, false},
		{"garbage", `%%%not graphql%%%`, false},
		{"unbalanced braces", `{ __schema {`, false},
		{"empty selection set", `query Q { }`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, isIntrospectionQuery(tc.source))
		})
	}
}
