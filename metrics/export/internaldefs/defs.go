package internaldefs

import (
	dashauth "github.com/bottrapper/dashauth"
)

// CounterDef defines a public type used by dashauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   dashauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by dashauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   dashauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session client.
var CounterDefs = []CounterDef{
	{ID: dashauth.MetricTokenFromCallback, Name: "dashauth_token_from_callback_total", Help: "Sessions established from an OAuth callback token."},
	{ID: dashauth.MetricTokenFromStore, Name: "dashauth_token_from_store_total", Help: "Sessions restored from the persisted token."},
	{ID: dashauth.MetricLoginRedirect, Name: "dashauth_login_redirect_total", Help: "Redirects issued to the identity provider."},
	{ID: dashauth.MetricLogoutExplicit, Name: "dashauth_logout_explicit_total", Help: "User-initiated logouts."},
	{ID: dashauth.MetricLogoutImplicit, Name: "dashauth_logout_implicit_total", Help: "Session teardowns triggered by 401 responses."},
	{ID: dashauth.MetricUnauthorizedResponse, Name: "dashauth_unauthorized_response_total", Help: "401 responses observed by the request pipeline."},
	{ID: dashauth.MetricUserFetchSuccess, Name: "dashauth_user_fetch_success_total", Help: "Successful identity fetches."},
	{ID: dashauth.MetricUserFetchTransient, Name: "dashauth_user_fetch_transient_total", Help: "Identity fetches that failed transiently."},
	{ID: dashauth.MetricElevationGenerated, Name: "dashauth_elevation_generated_total", Help: "Admin-session tokens generated."},
	{ID: dashauth.MetricElevationValidated, Name: "dashauth_elevation_validated_total", Help: "Admin-session tokens confirmed valid by the server."},
	{ID: dashauth.MetricElevationRejected, Name: "dashauth_elevation_rejected_total", Help: "Admin-session tokens rejected and purged."},
	{ID: dashauth.MetricElevationCleared, Name: "dashauth_elevation_cleared_total", Help: "Admin-session tokens cleared locally."},
	{ID: dashauth.MetricElevationSkippedLocal, Name: "dashauth_elevation_skipped_local_total", Help: "Validations answered locally because no token was stored."},
}

// HistogramDefs is an exported constant or variable used by the session client.
var HistogramDefs = []HistogramDef{
	{ID: dashauth.MetricElevationValidateLatency, Name: "dashauth_elevation_validate_latency_seconds", Help: "Elevation validate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
