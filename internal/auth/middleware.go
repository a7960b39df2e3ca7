package auth

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID holds the authenticated user id as a decimal string.
	ContextUserID = "userID"
	// HeaderAdminKey carries the operator key for admin routes.
	HeaderAdminKey = "X-Admin-Key"

	ctxClaims    = "auth.claims"
	requestIDKey = "requestID"
)

// Authenticate reads an optional "Authorization: Bearer" token. Requests
// without one pass through as guests; a present but invalid token is 401.
func Authenticate(m *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := strings.TrimSpace(c.GetHeader("Authorization"))
		if h == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "malformed authorization header")
			return
		}
		claims, err := m.VerifyToken(strings.TrimSpace(raw))
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		c.Set(ctxClaims, claims)
		c.Set(ContextUserID, strconv.FormatInt(claims.UserID, 10))
		c.Next()
	}
}

// RequireUser rejects requests that Authenticate did not identify.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "login required")
			return
		}
		c.Next()
	}
}

// RequireAdmin compares the X-Admin-Key header with key. An empty key
// disables the admin surface entirely.
func RequireAdmin(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(HeaderAdminKey)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			abort(c, http.StatusForbidden, "forbidden", "admin key required")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	s, _ := v.(string)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ClaimsFrom returns the verified token claims, if any.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*Claims)
	return cl, ok
}

func abort(c *gin.Context, status int, code, msg string) {
	rid, _ := c.Get(requestIDKey)
	s, _ := rid.(string)
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": s,
		"code":       code,
		"message":    msg,
	})
}
