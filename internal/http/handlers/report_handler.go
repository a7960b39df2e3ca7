package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cleancity-backend/internal/auth"
	"github.com/tbourn/cleancity-backend/internal/capture"
	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/http/middleware"
	"github.com/tbourn/cleancity-backend/internal/leaderboard"
	"github.com/tbourn/cleancity-backend/internal/services"
)

// LeaderboardResponse is the top of the board for a period.
type LeaderboardResponse struct {
	Period  leaderboard.Period  `json:"period"`
	Entries []leaderboard.Entry `json:"entries"`
}

// SubmitReport godoc
// @ID          submitReport
// @Summary     Submit a garbage report
// @Description Multipart form with the captured photo and position. Awards points by severity
// @Description and opens a pending municipal record. Supports Idempotency-Key for safe retries.
// @Tags        Reports
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header    string  false  "Idempotency key for safe retries"
// @Param       photo            formData  file    false  "Photo of the site"
// @Param       photo_error      formData  string  false  "denied | unavailable when the camera failed"
// @Param       latitude         formData  number  false  "Latitude"
// @Param       longitude        formData  number  false  "Longitude"
// @Param       location_error   formData  string  false  "denied | unavailable when geolocation failed"
// @Param       garbage_type     formData  string  true   "Garbage type"  Enums(plastic,organic,paper,glass,metal,electronic,hazardous,construction,mixed,other)
// @Param       severity         formData  string  true   "Severity"      Enums(low,medium,high,critical)
// @Param       description      formData  string  false  "Description"
// @Success     201  {object}  services.SubmitResult
// @Success     200  {object}  services.SubmitResult  "Idempotent replay"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Capability denied"
// @Failure     409  {object}  handlers.ErrorResponse  "Submission in progress"
// @Router      /reports [post]
func (h *Handlers) SubmitReport(c *gin.Context) {
	id, _ := auth.UserID(c)
	key, _ := middleware.GetIdempotencyKey(c)
	form := capture.NewForm(c.Request, h.MaxPhotoBytes)
	middleware.SetReportSeverity(c, c.PostForm("severity"))

	res, err := h.Reports.Submit(c.Request.Context(), id, services.SubmitInput{
		GarbageType:    domain.GarbageType(c.PostForm("garbage_type")),
		Severity:       domain.Severity(c.PostForm("severity")),
		Description:    c.PostForm("description"),
		Photo:          form,
		Location:       form,
		IdempotencyKey: key,
	})
	if err != nil {
		serviceFail(c, err, ErrCodeSubmitFailed)
		return
	}
	middleware.SetReportID(c, res.Report.ID)
	if res.Replayed {
		c.Header(HeaderReplayed, "true")
		ok(c, http.StatusOK, res)
		return
	}
	ok(c, http.StatusCreated, res)
}

// GetReport godoc
// @ID          getReport
// @Summary     Get a report
// @Tags        Reports
// @Produce     json
// @Param       id  path  int  true  "Report ID"
// @Success     200  {object}  domain.Report
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /reports/{id} [get]
func (h *Handlers) GetReport(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	middleware.SetReportID(c, id)
	r, err := h.Reports.Get(c.Request.Context(), id)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, r)
}

// ReportPhoto godoc
// @ID          reportPhoto
// @Summary     Report photo bytes
// @Tags        Reports
// @Produce     image/jpeg
// @Param       id  path  int  true  "Report ID"
// @Success     200  {file}    binary
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /reports/{id}/photo [get]
func (h *Handlers) ReportPhoto(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	middleware.SetReportID(c, id)
	data, ct, err := h.Reports.Photo(c.Request.Context(), id)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	// Photos are immutable.
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, ct, data)
}

// Leaderboard godoc
// @ID          leaderboard
// @Summary     Leaderboard
// @Description Top 10 users by points. "week" only ranks users who joined in the last 7 days;
// @Description "all" and "month" rank everyone. Supports weak ETag via If-None-Match.
// @Tags        Community
// @Produce     json
// @Param       period         query   string  false  "all | week | month"  default(all)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.LeaderboardResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /leaderboard [get]
func (h *Handlers) Leaderboard(c *gin.Context) {
	ctx := c.Request.Context()
	period, err := leaderboard.ParsePeriod(c.Query("period"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	// The week window moves with the clock, so only the all-time board is
	// conditionally cacheable.
	if period == leaderboard.PeriodAll {
		if n, maxTS, err := h.Board.Version(ctx); err == nil && notModified(c, "leaderboard", n, maxTS) {
			return
		}
	}

	rows, err := h.Board.Top(ctx, period)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, LeaderboardResponse{Period: period, Entries: rows})
}

// Stats godoc
// @ID          stats
// @Summary     Community counters
// @Tags        Community
// @Produce     json
// @Success     200  {object}  services.Stats
// @Router      /stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	st, err := h.Reports.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// MunicipalInfo godoc
// @ID          municipalInfo
// @Summary     Municipal office directory
// @Tags        Community
// @Produce     json
// @Success     200  {object}  domain.OrgInfo
// @Router      /municipal/info [get]
func (h *Handlers) MunicipalInfo(c *gin.Context) {
	info, err := h.Municipal.OrgInfo(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, info)
}

// MarkCleanedRequest optionally carries an operator note.
type MarkCleanedRequest struct {
	Note string `json:"note" example:"Crew dispatched and site cleared"`
}

// Dashboard godoc
// @ID          adminDashboard
// @Summary     Municipal dashboard
// @Description Every municipal record with pending and completed counts.
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Key  header  string  true  "Operator key"
// @Success     200  {object}  municipal.Dashboard
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/dashboard [get]
func (h *Handlers) Dashboard(c *gin.Context) {
	d, err := h.Municipal.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, d)
}

// MarkCleaned godoc
// @ID          markCleaned
// @Summary     Mark a report cleaned
// @Description Moves a pending report to cleaned and notes it on the municipal record.
// @Description Already-cleaned reports are returned unchanged.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       X-Admin-Key  header  string                         true   "Operator key"
// @Param       id           path    int                            true   "Report ID"
// @Param       body         body    handlers.MarkCleanedRequest  false  "Optional note"
// @Success     200  {object}  domain.Report
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/reports/{id}/cleaned [post]
func (h *Handlers) MarkCleaned(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	middleware.SetReportID(c, id)
	var req MarkCleanedRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	r, err := h.Reports.MarkCleaned(c.Request.Context(), id, req.Note)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, r)
}

// Export godoc
// @ID          adminExport
// @Summary     Export users and reports
// @Description Downloads a JSON snapshot. Passwords and photo bytes are never included.
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Key  header  string  true  "Operator key"
// @Success     200  {object}  services.Snapshot
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/export [get]
func (h *Handlers) Export(c *gin.Context) {
	snap, err := h.Exporter.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+services.ExportFilename)
	c.IndentedJSON(http.StatusOK, snap)
}
