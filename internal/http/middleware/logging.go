// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds request correlation, panic recovery, and the request
// fields handlers attach for the access log and metrics:
//
//	RequestID -> RedactingLogger -> Recovery -> ... -> handler
//
// Handlers call SetReportID, SetReportSeverity and SetSession once they know
// which report or assistant session a request concerns. The fields are added
// to the request-scoped logger (LoggerFrom) immediately and to the access log
// line and Prometheus breakdowns when the request completes.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// requestIDHeader is the HTTP header used to propagate the correlation ID.
	requestIDHeader = "X-Request-ID"
	// maxQueryLogLength caps the number of bytes of the raw query string logged.
	maxQueryLogLength = 2048

	loggerKey = "logger"
	fieldsKey = "requestFields"
)

// RequestID reuses an incoming X-Request-ID or generates a UUID, stores it in
// the context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// requestFields are the domain identifiers of one request.
type requestFields struct {
	reportID    int64
	severity    string
	sessionKind string
}

func fieldsOf(c *gin.Context) requestFields {
	if v, ok := c.Get(fieldsKey); ok {
		if f, ok := v.(*requestFields); ok {
			return *f
		}
	}
	return requestFields{}
}

func setFields(c *gin.Context, update func(*requestFields), enrich func(zerolog.Context) zerolog.Context) {
	var f *requestFields
	if v, ok := c.Get(fieldsKey); ok {
		f, _ = v.(*requestFields)
	}
	if f == nil {
		f = &requestFields{}
		c.Set(fieldsKey, f)
	}
	update(f)

	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			l := enrich(lg.With()).Logger()
			c.Set(loggerKey, &l)
		}
	}
}

// SetReportID records the report a request reads or changes.
func SetReportID(c *gin.Context, id int64) {
	setFields(c,
		func(f *requestFields) { f.reportID = id },
		func(l zerolog.Context) zerolog.Context { return l.Int64("report_id", id) },
	)
}

// SetReportSeverity marks the request as a report submission with the
// severity the client sent, valid or not.
func SetReportSeverity(c *gin.Context, severity string) {
	severity = strings.TrimSpace(severity)
	if severity == "" {
		severity = "missing"
	}
	setFields(c,
		func(f *requestFields) { f.severity = severity },
		func(l zerolog.Context) zerolog.Context { return l.Str("severity", severity) },
	)
}

// SetSession records the kind of assistant session ("user" or "guest") from a
// session key such as "guest:<id>". The id itself is never logged: a guest id
// is all it takes to read that guest's transcript.
func SetSession(c *gin.Context, sessionKey string) {
	kind, _, _ := strings.Cut(sessionKey, ":")
	if kind != "user" && kind != "guest" {
		kind = "unknown"
	}
	setFields(c,
		func(f *requestFields) { f.sessionKind = kind },
		func(l zerolog.Context) zerolog.Context { return l.Str("session_kind", kind) },
	)
}

// Recovery turns a panic into a JSON 500, logging the stack with the request
// id and whatever request fields were set before the panic.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := c.GetString(requestIDKey)
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", rid).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header("Content-Type", "application/json")
					c.Header(requestIDHeader, rid)
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"request_id": rid,
						"code":       "internal_error",
						"message":    "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger installed by RedactingLogger,
// or the global logger when there is none.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// truncate caps s at max bytes. A max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
