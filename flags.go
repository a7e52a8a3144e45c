/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package gqlmeter

import (
	"strings"

	"github.com/dgraph-io/ristretto/v2/z"
	"github.com/pkg/errors"
)

// FlagDefaults is the SuperFlag default for flag-driven configuration, in
// the same shape as the server's other option strings.
const FlagDefaults = `enabled=true; skip-introspection=false; categories=all;`

var allCategories = []string{
	"context-building", "parsing", "validation", "execution", "subscription", "resolver",
}

// FromSuperFlag turns a parsed timing SuperFlag into options for New.
// Categories absent from a non-"all" categories list are disabled; custom
// sink options can still be appended after these.
//
//	sf := z.NewSuperFlag(flagValue).MergeAndCheckDefault(gqlmeter.FlagDefaults)
//	opts, err := gqlmeter.FromSuperFlag(sf)
func FromSuperFlag(sf *z.SuperFlag) ([]Option, error) {
	var opts []Option

	if !sf.GetBool("enabled") {
		return disableAll(), nil
	}

	opts = append(opts, WithSkipIntrospection(sf.GetBool("skip-introspection")))

	cats := strings.TrimSpace(sf.GetString("categories"))
	if cats == "all" || cats == "" {
		return opts, nil
	}

	enabled := make(map[string]bool)
	for _, c := range strings.Split(cats, ",") {
		c = strings.TrimSpace(c)
		if !validCategory(c) {
			return nil, errors.Errorf("unknown timing category %q", c)
		}
		enabled[c] = true
	}
	for _, c := range allCategories {
		if !enabled[c] {
			opts = append(opts, disableCategory(c))
		}
	}
	return opts, nil
}

func validCategory(c string) bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func disableCategory(c string) Option {
	switch c {
	case "context-building":
		return WithContextSink(nil)
	case "parsing":
		return WithParsingSink(nil)
	case "validation":
		return WithValidationSink(nil)
	case "execution":
		return WithExecutionSink(nil)
	case "subscription":
		return WithSubscriptionSink(nil)
	case "resolver":
		return WithResolverSink(nil)
	}
	panic("gqlmeter: unreachable category " + c)
}

func disableAll() []Option {
	opts := make([]Option, 0, len(allCategories))
	for _, c := range allCategories {
		opts = append(opts, disableCategory(c))
	}
	return opts
}
