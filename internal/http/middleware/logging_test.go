package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

// logLines splits captured output into decoded JSON objects.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatalf("bad log line %q: %v", ln, err)
		}
		out = append(out, m)
	}
	return out
}

func findLine(lines []map[string]any, msg string) map[string]any {
	for _, l := range lines {
		if l["message"] == msg {
			return l
		}
	}
	return nil
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		if c.GetString(requestIDKey) == "" {
			t.Fatalf("requestID not set in context")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rid", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated %s header", requestIDHeader)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rid", nil)
	req.Header.Set(strings.ToLower(requestIDHeader), "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestSetReportID_EnrichesScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.POST("/reports/:id/clean", func(c *gin.Context) {
		SetReportID(c, 42)
		LoggerFrom(c).Info().Msg("report cleaned")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/reports/42/clean", nil)
	req.Header.Set(requestIDHeader, "rid-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, buf)
	for _, msg := range []string{"report cleaned", "http_request"} {
		l := findLine(lines, msg)
		if l == nil {
			t.Fatalf("no %q line in %s", msg, buf.String())
		}
		if l["report_id"] != float64(42) || l["request_id"] != "rid-42" || l["path"] != "/reports/:id/clean" {
			t.Fatalf("%q line = %v", msg, l)
		}
	}
}

func TestSetReportSeverity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/reports", func(c *gin.Context) {
		SetReportSeverity(c, c.Query("severity"))
		if f := fieldsOf(c); f.severity == "" {
			t.Fatalf("severity not recorded")
		}
		c.Status(http.StatusCreated)
	})

	for _, q := range []string{"?severity=%20high%20", ""} {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/reports"+q, nil))
		l := findLine(logLines(t, buf), "http_request")
		want := "high"
		if q == "" {
			want = "missing"
		}
		if l == nil || l["severity"] != want {
			t.Fatalf("query %q: access line = %v, want severity %q", q, l, want)
		}
	}
}

func TestSetSession_LogsKindNotID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/assistant", func(c *gin.Context) {
		SetSession(c, c.Query("key"))
		c.Status(http.StatusOK)
	})

	cases := map[string]string{
		"guest:tab-7f3a": "guest",
		"user:17":        "user",
		"bogus":          "unknown",
	}
	for key, kind := range cases {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/assistant?key="+key, nil))
		l := findLine(logLines(t, buf), "http_request")
		if l == nil || l["session_kind"] != kind {
			t.Fatalf("key %q: access line = %v, want session_kind %q", key, l, kind)
		}
	}
	if strings.Contains(buf.String(), `"session_id"`) {
		t.Fatalf("session id leaked: %s", buf.String())
	}
}

func TestSetFields_WithoutLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	SetReportID(c, 7)
	SetSession(c, "user:1")
	f := fieldsOf(c)
	if f.reportID != 7 || f.sessionKind != "user" || f.severity != "" {
		t.Fatalf("fields = %+v", f)
	}
	if _, ok := c.Get(loggerKey); ok {
		t.Fatalf("setting fields must not install a logger")
	}
}

func TestRecovery_PanicsToJSON500AndLogsFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}), Recovery())
	r.GET("/reports/:id/photo", func(c *gin.Context) {
		SetReportID(c, 9)
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/9/photo", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from Recovery, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["code"] != "internal_error" || body["request_id"] != w.Header().Get(requestIDHeader) {
		t.Fatalf("unexpected body: %v", body)
	}

	lines := logLines(t, buf)
	p := findLine(lines, "panic recovered")
	if p == nil || p["report_id"] != float64(9) || p["panic"] != "kaboom" {
		t.Fatalf("panic line = %v", p)
	}
	if a := findLine(lines, "http_request"); a == nil || a["level"] != "error" || a["status"] != float64(500) {
		t.Fatalf("access line = %v", a)
	}
}

func TestRecovery_PanicAfterWrite_NoJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic-after-write", func(c *gin.Context) {
		c.String(http.StatusOK, "partial-body")
		panic("late kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic-after-write", nil))

	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("JSON error body written after response started: %q", w.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic log, got:\n%s", buf.String())
	}
}

func TestLoggerFrom_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/use", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("custom")
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/use", nil))

	l := findLine(logLines(t, buf), "custom")
	if l == nil {
		t.Fatalf("expected custom log in fallback")
	}
	if _, ok := l["request_id"]; ok {
		t.Fatalf("fallback logger unexpectedly had request_id")
	}
}

func TestTruncate(t *testing.T) {
	if truncate("hello", 10) != "hello" {
		t.Fatalf("truncate no-op failed")
	}
	if got := truncate("abcdefgh", 5); got != "abcde…" {
		t.Fatalf("truncate result = %q; want %q", got, "abcde…")
	}
	if truncate("abc", 0) != "abc" {
		t.Fatalf("truncate disable failed")
	}
}
