// Package middleware provides HTTP middleware for the rental API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength is the maximum length for request IDs recorded on spans.
const MaxRequestIDLength = 128

// Span attribute keys set by the tracing middleware.
var (
	AttrRequestID = attribute.Key("rentdesk.request_id")
	AttrSessionID = attribute.Key("rentdesk.session_id")
	AttrOperator  = attribute.Key("rentdesk.operator")
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig starts a server span per request via otelgin, named
// after the matched route (e.g. "GET /api/v1/rooms/:id").
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "rentdesk-backend"
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector tags the current span with the request ID, the
// API resource and, once authenticated, the session and operator.
// It must run after the session middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := requestIDFor(c); id != "" {
				span.SetAttributes(AttrRequestID.String(id))
			}
			span.SetAttributes(AttrAPIResource.String(apiResource(routePattern(c))))
			if session, ok := GetSession(c); ok {
				span.SetAttributes(
					AttrSessionID.String(session.ID.String()),
					AttrOperator.String(session.Username),
				)
			}
		}
		c.Next()
	}
}

// requestIDFor prefers the ID stored by RequestID and falls back to the
// inbound header, truncated to MaxRequestIDLength.
func requestIDFor(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDHeader)
	if len(id) > MaxRequestIDLength {
		return id[:MaxRequestIDLength]
	}
	return id
}

// SpanErrorMarker sets an error status on the request span for 4xx and 5xx
// responses, with the envelope error code when a handler recorded one.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		status := c.Writer.Status()
		if !span.IsRecording() || status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("http.status_class", StatusClass(status)),
		)
		if code := c.GetString(ErrorCodeKey); code != "" {
			span.SetAttributes(attribute.String("rentdesk.error_code", code))
		}
	}
}
