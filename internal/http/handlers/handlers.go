// Package handlers exposes the CleanCity REST endpoints.
//
// Handlers are transport-thin: they validate and normalise input, delegate to
// the application services, and translate results and service errors into
// HTTP responses (including conditional responses and idempotent replays).
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/cleancity-backend/internal/auth"
	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/http/middleware"
	"github.com/tbourn/cleancity-backend/internal/municipal"
	"github.com/tbourn/cleancity-backend/internal/services"
	"github.com/tbourn/cleancity-backend/internal/utils"
)

const (
	// HeaderSessionID identifies an anonymous assistant session.
	HeaderSessionID = "X-Session-ID"
	// HeaderReplayed marks a response served from an earlier submission.
	HeaderReplayed = "Idempotency-Replayed"
)

// Deps are the services the handlers delegate to.
type Deps struct {
	Accounts  *services.AccountService
	Reports   *services.ReportService
	Board     *services.LeaderboardService
	Exporter  *services.ExportService
	Assistant *services.AssistantService
	Municipal *municipal.Store

	// MaxPhotoBytes bounds uploaded photos; <= 0 uses the capture default.
	MaxPhotoBytes int64
}

// Handlers groups every HTTP endpoint.
type Handlers struct {
	Deps
}

// New returns handlers bound to d.
func New(d Deps) *Handlers {
	return &Handlers{Deps: d}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination reads the page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.Page(c.Query("page"), c.Query("page_size"))
}

// notModified sets a weak ETag built from (scope, count, latest update) and
// reports whether the request's If-None-Match already matches it.
func notModified(c *gin.Context, scope string, count int64, maxTS *time.Time) bool {
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	etag := fmt.Sprintf(`W/"%s:%d:%d"`, scope, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// currentUser loads the authenticated user, or returns nil for guests. A
// token for a user that no longer exists is treated as unauthorized.
func (h *Handlers) currentUser(c *gin.Context) (*domain.User, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		return nil, true
	}
	u, err := h.Accounts.User(c.Request.Context(), id)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return nil, false
	}
	return u, true
}

// assistantSession resolves the session key: "user:<id>" when authenticated,
// otherwise "guest:<X-Session-ID>". Guests without a header get a fresh id
// echoed back in X-Session-ID.
func (h *Handlers) assistantSession(c *gin.Context) (string, *domain.User, bool) {
	u, ok := h.currentUser(c)
	if !ok {
		return "", nil, false
	}
	if u != nil {
		key := services.UserSession(u.ID)
		middleware.SetSession(c, key)
		return key, u, true
	}
	sid := strings.TrimSpace(c.GetHeader(HeaderSessionID))
	if sid == "" || len(sid) > 64 {
		sid = uuid.NewString()
	}
	c.Header(HeaderSessionID, sid)
	key := services.GuestSession(sid)
	middleware.SetSession(c, key)
	return key, nil, true
}

// serviceFail maps service errors onto the error envelope. fallback is the
// code used for unexpected (500) errors.
func serviceFail(c *gin.Context, err error, fallback string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeValidation, ve.Error())
	case errors.Is(err, services.ErrCapabilityDenied):
		fail(c, http.StatusForbidden, ErrCodeCapabilityDenied, err.Error())
	case errors.Is(err, services.ErrReportNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "report not found")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "user not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrDuplicateAccount),
		errors.Is(err, services.ErrSubmissionInFlight),
		errors.Is(err, services.ErrComposing):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrEmptyPrompt):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, fallback, err.Error())
	}
}
