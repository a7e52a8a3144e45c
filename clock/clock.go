/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package clock provides the monotonic time source used for phase and
// resolver measurements. It wraps the clock, it doesn't own one: callers
// that need deterministic tests supply their own Clock.
package clock

import "time"

// A Marker is an opaque monotonic timestamp captured at the beginning of a
// measured span. It belongs to the closure that will later compute the
// matching Measurement and must not be compared across spans.
type Marker struct {
	t time.Time
}

// A Measurement is the elapsed wall-clock time of one finished span.
// Ms is always Ns divided by 1e6, unrounded.
type Measurement struct {
	Ns int64   `json:"ns"`
	Ms float64 `json:"ms"`
}

// Clock captures start markers and computes elapsed measurements. Both
// methods perform exactly one timestamp read.
type Clock interface {
	Mark() Marker
	Elapsed(m Marker) Measurement
}

type systemClock struct{}

// System returns the process monotonic clock.
func System() Clock {
	return systemClock{}
}

func (systemClock) Mark() Marker {
	return Marker{t: time.Now()}
}

func (systemClock) Elapsed(m Marker) Measurement {
	return Of(time.Since(m.t))
}

// Of converts an elapsed duration into a Measurement. Negative durations
// clamp to zero, a span cannot run backwards.
func Of(d time.Duration) Measurement {
	ns := d.Nanoseconds()
	if ns < 0 {
		ns = 0
	}
	return Measurement{Ns: ns, Ms: float64(ns) / 1e6}
}
