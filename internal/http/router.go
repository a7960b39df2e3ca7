// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// authentication, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/cleancity-backend/docs"
	"github.com/tbourn/cleancity-backend/internal/app"
	"github.com/tbourn/cleancity-backend/internal/auth"
	"github.com/tbourn/cleancity-backend/internal/config"
	"github.com/tbourn/cleancity-backend/internal/http/handlers"
	"github.com/tbourn/cleancity-backend/internal/http/middleware"
	"github.com/tbourn/cleancity-backend/internal/repo"
)

// SubmitBucket is the rate-limit bucket for POST /reports.
const SubmitBucket = "submit"

// PermissionsPolicy lets the report page use the camera and geolocation.
const PermissionsPolicy = "geolocation=(self), camera=(self), microphone=(), payment=()"

var (
	corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsHeaders = []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		auth.HeaderAdminKey, handlers.HeaderSessionID, middleware.HeaderIdempotencyKey,
	}
	corsExpose = []string{
		"X-Request-ID", "Content-Length", "ETag",
		handlers.HeaderSessionID, handlers.HeaderReplayed,
	}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the versioned API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (sized for photo uploads)
//  6. Metrics
//  7. Authenticate: optional bearer token
//  8. Idempotency validator (needs the user; before the rate limiter)
//  9. Rate limiter (per user/IP, bypass on replay; submissions use SubmitBucket)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, a *app.App, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{auth.HeaderAdminKey, handlers.HeaderSessionID},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxPhotoBytes + 1<<20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(auth.Authenticate(a.Tokens))

	apiBase := cfg.APIBasePath
	db := a.DB
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scopes: map[string]string{joinPath(apiBase, "/reports"): repo.ScopeReport},
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP()).
		Route(http.MethodPost, joinPath(apiBase, "/reports"), middleware.Bucket{
			Name:  SubmitBucket,
			RPS:   cfg.SubmitRateRPS,
			Burst: cfg.SubmitRateBurst,
		})
	r.Use(rl.Handler())

	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:        cfg.Security.EnableHSTS,
		HSTSMaxAge:        cfg.Security.HSTSMaxAge,
		EnablePolicy:      true,
		PermissionsPolicy: PermissionsPolicy,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = apiBase
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(a.Handlers(cfg.MaxPhotoBytes))

	api := groupWithPrefix(r, apiBase)
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		api.GET("/reports/:id", h.GetReport)
		api.GET("/reports/:id/photo", h.ReportPhoto)
		api.GET("/leaderboard", h.Leaderboard)
		api.GET("/stats", h.Stats)
		api.GET("/municipal/info", h.MunicipalInfo)

		// Guests get a server-issued session id.
		api.GET("/assistant/state", h.AssistantState)
		api.POST("/assistant/open", h.OpenAssistant)
		api.POST("/assistant/close", h.CloseAssistant)
		api.GET("/assistant/messages", h.ListAssistantMessages)
		api.POST("/assistant/messages", h.PostAssistantMessage)
		api.POST("/assistant/actions", h.PostAssistantAction)
	}

	user := api.Group("", auth.RequireUser())
	{
		user.GET("/me", h.Me)
		user.GET("/me/reports", h.MyReports)
		user.GET("/me/share", h.ShareProfile)
		user.POST("/reports", h.SubmitReport)
	}

	admin := api.Group("/admin", auth.RequireAdmin(cfg.Auth.AdminKey), gzip.Gzip(gzip.DefaultCompression))
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.POST("/reports/:id/cleaned", h.MarkCleaned)
		admin.GET("/export", h.Export)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinPath returns the registered full path of route under base.
func joinPath(base, route string) string {
	if base == "" || base == "/" {
		return route
	}
	return base + route
}
