/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package gqlmeter

import (
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/lexer"
)

// isIntrospectionQuery classifies raw operation text by lexing it, not by a
// full parse: the document counts as introspection when its first operation
// is a query whose every top-level field (after aliases) is one of the
// reserved "__" fields. Anything the lexer rejects, and any document using
// fragments at the top level, classifies as an ordinary operation. The
// classifier never panics on arbitrary input.
func isIntrospectionQuery(source string) bool {
	lex := lexer.New(&ast.Source{Input: source})
	next := func() (lexer.Token, bool) {
		for {
			tok, err := lex.ReadToken()
			if err != nil {
				return lexer.Token{}, false
			}
			if tok.Kind == lexer.Comment {
				continue
			}
			return tok, true
		}
	}

	tok, ok := next()
	if !ok {
		return false
	}

	// Operation header: an optional "query" keyword with optional name,
	// variable definitions and directives. Mutations, subscriptions and
	// documents opening with fragment definitions are never introspection.
	if tok.Kind == lexer.Name {
		if tok.Value != "query" {
			return false
		}
		if tok, ok = next(); !ok {
			return false
		}
		if tok.Kind == lexer.Name {
			if tok, ok = next(); !ok {
				return false
			}
		}
		if tok.Kind == lexer.ParenL {
			if tok, ok = skipBalanced(next, lexer.ParenL, lexer.ParenR); !ok {
				return false
			}
		}
		for tok.Kind == lexer.At {
			if tok, ok = next(); !ok || tok.Kind != lexer.Name {
				return false
			}
			if tok, ok = next(); !ok {
				return false
			}
			if tok.Kind == lexer.ParenL {
				if tok, ok = skipBalanced(next, lexer.ParenL, lexer.ParenR); !ok {
					return false
				}
			}
		}
	}
	if tok.Kind != lexer.BraceL {
		return false
	}

	depth := 1
	parens := 0
	sawField := false
	afterAt := false
	pending := "" // a Name seen at the top level, field unless an alias

	for {
		tok, ok = next()
		if !ok || tok.Kind == lexer.EOF {
			return false
		}

		if pending != "" {
			if tok.Kind == lexer.Colon {
				// The pending name was an alias; the field name follows.
				pending = ""
				continue
			}
			if !strings.HasPrefix(pending, "__") {
				return false
			}
			sawField = true
			pending = ""
		}

		switch tok.Kind {
		case lexer.BraceL:
			depth++
		case lexer.BraceR:
			depth--
			if depth == 0 {
				return sawField
			}
		case lexer.ParenL:
			parens++
		case lexer.ParenR:
			parens--
		case lexer.Spread:
			if depth == 1 && parens == 0 {
				return false
			}
		case lexer.At:
			afterAt = true
			continue
		case lexer.Name:
			if afterAt {
				break
			}
			if depth == 1 && parens == 0 {
				pending = tok.Value
			}
		}
		afterAt = false
	}
}

// skipBalanced consumes tokens until the open kind seen once is balanced by
// its closing kind, then returns the following token.
func skipBalanced(next func() (lexer.Token, bool), open, closing lexer.Type) (lexer.Token, bool) {
	depth := 1
	for depth > 0 {
		tok, ok := next()
		if !ok || tok.Kind == lexer.EOF {
			return lexer.Token{}, false
		}
		switch tok.Kind {
		case open:
			depth++
		case closing:
			depth--
		}
	}
	return next()
}
