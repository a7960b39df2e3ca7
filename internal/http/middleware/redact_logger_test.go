package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_InfoAndRedactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(1700000000123))
		c.Next()
	})
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Admin-Key", " x-session-id "}}))
	r.GET("/reports/:id", func(c *gin.Context) {
		SetReportID(c, 123)
		c.String(http.StatusOK, "ok")
	})

	q := "email=a.b+tag@example.com&phone=+1-555-123-4567&id=123e4567-e89b-12d3-a456-426614174000"
	req := httptest.NewRequest(http.MethodGet, "/reports/123?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Admin-Key", "shhh")
	req.Header.Set("X-Session-ID", "guest-tab-1")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set(requestIDHeader, "rid-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	l := findLine(logLines(t, buf), "http_request")
	if l == nil {
		t.Fatalf("no access line: %s", buf.String())
	}
	if l["level"] != "info" || l["path"] != "/reports/:id" || l["request_id"] != "rid-1" {
		t.Fatalf("access line = %v", l)
	}
	if l["user_id"] != "1700000000123" || l["report_id"] != float64(123) {
		t.Fatalf("expected user and report ids, got %v", l)
	}

	query, _ := l["query"].(string)
	for _, want := range []string{"[REDACTED:email]", "[REDACTED:phone]", "[REDACTED:id]"} {
		if !strings.Contains(query, want) {
			t.Fatalf("query %q missing %s", query, want)
		}
	}
	if strings.Contains(query, "example.com") {
		t.Fatalf("email leaked in query: %q", query)
	}

	headers, _ := l["headers"].(map[string]any)
	for _, h := range []string{"Authorization", "Cookie", "X-Admin-Key", "X-Session-Id"} {
		if headers[h] != "[REDACTED]" {
			t.Fatalf("%s must be masked: %v", h, headers)
		}
	}
	if got := headers["X-Custom"]; got != "email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]" {
		t.Fatalf("X-Custom = %v", got)
	}
	if strings.Contains(buf.String(), "guest-tab-1") || strings.Contains(buf.String(), "shhh") {
		t.Fatalf("credential leaked: %s", buf.String())
	}
}

func TestRedactingLogger_LevelsAndUnmatchedPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/reports/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/stats", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/leaderboard", func(c *gin.Context) {
		_ = c.Error(errBoom)
		c.Status(http.StatusOK)
	})

	cases := []struct {
		path      string
		wantLevel string
		wantPath  string
	}{
		{"/reports/5", "warn", "/reports/:id"},
		{"/stats", "error", "/stats"},
		{"/leaderboard", "error", "/leaderboard"},
		{"/users/jo@example.com", "warn", "/users/[REDACTED:email]"},
	}
	for _, tc := range cases {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
		l := findLine(logLines(t, buf), "http_request")
		if l == nil || l["level"] != tc.wantLevel || l["path"] != tc.wantPath {
			t.Fatalf("%s: access line = %v", tc.path, l)
		}
		if _, ok := l["user_id"]; ok {
			t.Fatalf("%s: anonymous request logged a user_id", tc.path)
		}
	}
}

type logErr string

func (e logErr) Error() string { return string(e) }

const errBoom = logErr("boom")
