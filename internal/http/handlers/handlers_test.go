package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cleancity-backend/internal/services"
)

func TestServiceFail_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("wrap: %w", &services.ValidationError{Field: "photo", Reason: "required"}), http.StatusBadRequest, ErrCodeValidation},
		{fmt.Errorf("photo: %w", services.ErrCapabilityDenied), http.StatusForbidden, ErrCodeCapabilityDenied},
		{services.ErrReportNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrUserNotFound, http.StatusUnauthorized, ErrCodeUnauthorized},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{services.ErrDuplicateAccount, http.StatusConflict, ErrCodeConflict},
		{services.ErrSubmissionInFlight, http.StatusConflict, ErrCodeConflict},
		{services.ErrComposing, http.StatusConflict, ErrCodeConflict},
		{services.ErrEmptyPrompt, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrTooLong, http.StatusBadRequest, ErrCodeBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeSubmitFailed},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

		serviceFail(c, tc.err, ErrCodeSubmitFailed)

		if w.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.status)
		}
		var body ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tc.code {
			t.Fatalf("%v: code = %q, want %q", tc.err, body.Code, tc.code)
		}
	}
}

func TestAssistantSession_Guest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(Deps{})

	cases := []struct {
		hdr  string
		kept bool
	}{
		{"", false},
		{"abc-123", true},
		{strings.Repeat("x", 65), false},
	}
	for _, tc := range cases {
		hdr, kept := tc.hdr, tc.kept
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/assistant/state", nil)
		if hdr != "" {
			c.Request.Header.Set(HeaderSessionID, hdr)
		}

		sid, user, ok := h.assistantSession(c)
		if !ok || user != nil {
			t.Fatalf("guest session failed: ok=%v user=%v", ok, user)
		}
		echoed := w.Header().Get(HeaderSessionID)
		if echoed == "" || sid != services.GuestSession(echoed) {
			t.Fatalf("sid %q does not match echoed %q", sid, echoed)
		}
		if kept != (echoed == hdr) {
			t.Fatalf("header %q kept=%v, echoed %q", hdr, kept, echoed)
		}
	}
}

func TestNotModified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := time.Unix(0, 42)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if notModified(c, "s", 3, &ts) {
		t.Fatalf("no If-None-Match must not be 304")
	}
	etag := w.Header().Get("ETag")
	if etag != `W/"s:3:42"` {
		t.Fatalf("etag = %q", etag)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("If-None-Match", etag)
	if !notModified(c, "s", 3, &ts) {
		t.Fatalf("matching If-None-Match must be 304")
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	notModified(c, "s", 0, nil)
	if got := w.Header().Get("ETag"); got != `W/"s:0:0"` {
		t.Fatalf("nil timestamp etag = %q", got)
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for raw, want := range map[string]int64{"7": 7, "0": 0, "-1": 0, "x": 0} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		id, ok := pathID(c, "id")
		if want == 0 {
			if ok || w.Code != http.StatusBadRequest {
				t.Fatalf("pathID(%q) should fail with 400, got ok=%v code=%d", raw, ok, w.Code)
			}
			continue
		}
		if !ok || id != want {
			t.Fatalf("pathID(%q) = %d,%v", raw, id, ok)
		}
	}
}

func TestNewPagination(t *testing.T) {
	p := newPagination(2, 10, 25)
	if p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	p = newPagination(3, 10, 25)
	if p.HasNext {
		t.Fatalf("last page must not have next: %+v", p)
	}
}
