/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package metrics exposes Prometheus collectors for program builds, the
// resolution cache and edit sessions, plus the shared otel tracer.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	programReuseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsincr_program_reuse_total",
		Help: "Program builds by structure reuse state",
	}, []string{"state"})

	programBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tsincr_program_build_seconds",
		Help:    "Program construction time in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	resolutionCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsincr_resolution_cache_total",
		Help: "Module and type reference resolutions by outcome",
	}, []string{"result"})

	textChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsincr_text_changes_total",
		Help: "Text replacements produced by change trackers",
	})
)

// Resolution outcomes.
const (
	ResolutionReused   = "reused"
	ResolutionResolved = "resolved"
	ResolutionAmbient  = "ambient"
	ResolutionMissing  = "unresolved"
)

// RecordBuild counts one program build in the given reuse state.
func RecordBuild(state string, elapsed time.Duration) {
	programReuseTotal.WithLabelValues(state).Inc()
	programBuildSeconds.Observe(elapsed.Seconds())
}

// RecordResolution counts one resolution outcome.
func RecordResolution(result string) {
	resolutionCacheTotal.WithLabelValues(result).Inc()
}

// RecordTextChanges adds n produced replacements.
func RecordTextChanges(n int) {
	textChangesTotal.Add(float64(n))
}

var tracer = otel.Tracer("bennypowers.dev/tsincr")

// StartSpan starts a span named after the operation with the given string
// attributes, given as key/value pairs.
func StartSpan(ctx context.Context, name string, kv ...string) (context.Context, trace.Span) {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
