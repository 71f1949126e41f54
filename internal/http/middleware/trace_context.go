package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
)

const (
	HeaderTraceID   = "X-Trace-Id"
	HeaderRequestID = "X-Request-Id"

	maxCorrelationIDLen = 128
)

// AttachTraceContext stores trace and request ids on the request context for
// logging and echoes them in the response headers. An active span's trace id
// wins over a client supplied one; ids that fail validation are replaced.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := correlationID(c.GetHeader(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}

		var traceID string
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else if id := correlationID(c.GetHeader(HeaderTraceID)); id != "" {
			traceID = id
		} else {
			traceID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderTraceID, traceID)
		c.Header(HeaderRequestID, reqID)
		c.Next()
	}
}

// correlationID returns v trimmed, or "" when it is too long or carries
// anything other than letters, digits, '-', '_' or '.'.
func correlationID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxCorrelationIDLen {
		return ""
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return ""
		}
	}
	return v
}
