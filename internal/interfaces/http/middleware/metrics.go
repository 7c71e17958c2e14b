package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentdesk/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttrAPIResource groups requests by the first path segment after the API version.
var AttrAPIResource = attribute.Key("api.resource")

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	Enabled       bool
}

type httpInstruments struct {
	requests  *telemetry.Counter
	latency   *telemetry.Histogram
	bodyBytes *telemetry.Histogram
	inFlight  metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requests, err := telemetry.NewCounter(meter,
		"rentdesk_http_requests_total", "HTTP requests served", "{request}")
	if err != nil {
		return nil, err
	}
	latency, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "rentdesk_http_request_duration_seconds",
		Description: "HTTP request latency in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	bodyBytes, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "rentdesk_http_body_size_bytes",
		Description: "HTTP request and response body sizes in bytes",
		Unit:        "By",
		Boundaries:  []float64{128, 512, 2048, 8192, 32768, 131072, 524288, 2097152, 10485760},
	})
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("rentdesk_http_requests_in_flight",
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return &httpInstruments{requests: requests, latency: latency, bodyBytes: bodyBytes, inFlight: inFlight}, nil
}

// HTTPMetrics returns a Gin middleware recording request counts, latency,
// body sizes and in-flight requests. It is a pass-through when metrics are off.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("rentdesk.http"))
}

// HTTPMetricsWithMeter returns HTTP metrics middleware using an existing meter.
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	inst, err := newHTTPInstruments(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		inst.inFlight.Add(ctx, 1)
		c.Next()
		inst.inFlight.Add(ctx, -1)

		inst.record(ctx, c, time.Since(start))
	}
}

func passThrough(c *gin.Context) { c.Next() }

func (inst *httpInstruments) record(ctx context.Context, c *gin.Context, elapsed time.Duration) {
	route := routePattern(c)
	status := c.Writer.Status()
	attrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(route),
		AttrAPIResource.String(apiResource(route)),
	}

	inst.requests.Inc(ctx, append(attrs,
		telemetry.AttrHTTPStatusCode.Int(status),
		attribute.String("http.status_class", StatusClass(status)),
	)...)
	inst.latency.RecordDuration(ctx, elapsed, attrs...)

	if n := c.Request.ContentLength; n > 0 {
		inst.bodyBytes.Record(ctx, float64(n), append(attrs, attribute.String("direction", "request"))...)
	}
	if n := c.Writer.Size(); n > 0 {
		inst.bodyBytes.Record(ctx, float64(n), append(attrs, attribute.String("direction", "response"))...)
	}
}

// routePattern returns the matched route (e.g. "/api/v1/rooms/:id") so
// path parameters never become label values.
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

// apiResource maps "/api/v1/rooms/:id/images" to "rooms". Routes outside
// the versioned API map to "system".
func apiResource(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" && strings.HasPrefix(parts[1], "v") {
		return parts[2]
	}
	if route == "unknown" {
		return route
	}
	return "system"
}

// StatusClass returns the status class (2xx, 4xx, 5xx) of a status code.
func StatusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
