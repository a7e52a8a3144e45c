/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package ocsink ships measurement sinks that record phase and resolver
// latencies as OpenCensus stats, for callers that aggregate timings instead
// of logging them. The core stays free of aggregation; this package is one
// pluggable consumer of its measurements.
package ocsink

import (
	"context"
	"net/http"

	ocprom "contrib.go.opencensus.io/exporter/prometheus"
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/hypermodeinc/gqlmeter"
	"github.com/hypermodeinc/gqlmeter/clock"
	"github.com/hypermodeinc/gqlmeter/pipeline"
)

var (
	// LatencyMs measures how long one pipeline phase or resolver took.
	LatencyMs = stats.Float64("gqlmeter_latency",
		"Latency of GraphQL pipeline phases", stats.UnitMilliseconds)

	// KeyCategory carries the measurement category (parsing, execution, ...).
	KeyCategory = tag.MustNewKey("category")
	// KeyField carries "Type.field" for resolver measurements.
	KeyField = tag.MustNewKey("field")

	latencyMsDistribution = view.Distribution(
		0, 0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, 10, 13, 16,
		20, 25, 30, 40, 50, 65, 80, 100, 130, 160, 200, 250, 300, 400, 500,
		650, 800, 1000, 2000, 5000, 10000)

	// LatencyView aggregates LatencyMs by category and field.
	LatencyView = &view.View{
		Name:        LatencyMs.Name(),
		Measure:     LatencyMs,
		Description: LatencyMs.Description(),
		Aggregation: latencyMsDistribution,
		TagKeys:     []tag.Key{KeyCategory, KeyField},
	}
)

// Options returns sink options that record every measurement category to
// LatencyMs. Pass them to gqlmeter.New, optionally followed by overrides
// for categories that need different handling.
func Options() []gqlmeter.Option {
	return []gqlmeter.Option{
		gqlmeter.WithContextSink(func(rc *pipeline.RequestContext, m clock.Measurement) {
			record("context-building", "", m)
		}),
		gqlmeter.WithParsingSink(func(rc *pipeline.RequestContext, source string, m clock.Measurement) {
			record("parsing", "", m)
		}),
		gqlmeter.WithValidationSink(func(rc *pipeline.RequestContext, doc *ast.QueryDocument, m clock.Measurement) {
			record("validation", "", m)
		}),
		gqlmeter.WithExecutionSink(func(rc *pipeline.RequestContext, args pipeline.ExecuteArgs, m clock.Measurement) {
			record("execution", "", m)
		}),
		gqlmeter.WithSubscriptionSink(func(rc *pipeline.RequestContext, args pipeline.ExecuteArgs, m clock.Measurement) {
			record("subscription", "", m)
		}),
		gqlmeter.WithResolverSink(func(rc *pipeline.RequestContext, info pipeline.FieldInfo, m clock.Measurement) {
			record("resolver", info.TypeName+"."+info.FieldName, m)
		}),
	}
}

func record(category, field string, m clock.Measurement) {
	mutators := []tag.Mutator{tag.Upsert(KeyCategory, category)}
	if field != "" {
		mutators = append(mutators, tag.Upsert(KeyField, field))
	}
	if err := stats.RecordWithTags(context.Background(), mutators, LatencyMs.M(m.Ms)); err != nil {
		glog.Errorf("ocsink: failed to record %s latency: %v", category, err)
	}
}

// RegisterPrometheusExporter registers LatencyView and a Prometheus
// exporter for it. The returned exporter is an http.Handler to mount on a
// metrics endpoint.
func RegisterPrometheusExporter(namespace string) (http.Handler, error) {
	if err := view.Register(LatencyView); err != nil {
		return nil, errors.Wrapf(err, "registering latency view")
	}
	pe, err := ocprom.NewExporter(ocprom.Options{
		Namespace: namespace,
		OnError:   func(err error) { glog.Errorf("%v", err) },
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating OpenCensus Prometheus exporter")
	}
	view.RegisterExporter(pe)
	return pe, nil
}
