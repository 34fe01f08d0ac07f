// Package prometheus provides Prometheus collectors for dashauth metrics.
//
// [NewPrometheusExporter] accepts a [dashauth.Client] and exposes an [http.Handler]
// that renders all dashauth counters and histograms in Prometheus text exposition format.
// Counter names are prefixed dashauth_*_total; the single histogram is
// dashauth_elevation_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate client state.
package prometheus
