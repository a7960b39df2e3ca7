package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cleancity-backend/internal/auth"
	"github.com/tbourn/cleancity-backend/internal/domain"
	"github.com/tbourn/cleancity-backend/internal/services"
)

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Name     string `json:"name"     example:"Ada Lovelace"`
	Email    string `json:"email"    example:"ada@example.com"`
	Password string `json:"password" example:"password123"`
	Phone    string `json:"phone"    example:"+1234567890"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email"    example:"john@example.com"`
	Password string `json:"password" example:"password123"`
}

// MyReportsResponse lists the caller's municipal records.
type MyReportsResponse struct {
	Reports []domain.MunicipalRecord `json:"reports"`
}

// Register godoc
// @ID          register
// @Summary     Register an account
// @Description Creates a user with zero points and returns a bearer token.
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RegisterRequest  true  "Registration form"
// @Success     201  {object}  services.Session
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	s, err := h.Accounts.Register(c.Request.Context(), services.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Phone: req.Phone,
	})
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusCreated, s)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  services.Session
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	s, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, s)
}

// Me godoc
// @ID          me
// @Summary     Current user profile
// @Description Returns the caller with their all-time leaderboard rank.
// @Tags        Accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  services.Profile
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	id, _ := auth.UserID(c)
	p, err := h.Accounts.Profile(c.Request.Context(), id)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}

// MyReports godoc
// @ID          myReports
// @Summary     The caller's reports
// @Description Municipal records submitted by the caller, in submission order.
// @Tags        Accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.MyReportsResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me/reports [get]
func (h *Handlers) MyReports(c *gin.Context) {
	id, _ := auth.UserID(c)
	recs, err := h.Reports.ListByUser(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, MyReportsResponse{Reports: recs})
}

// ShareProfile godoc
// @ID          shareProfile
// @Summary     Share the caller's contribution
// @Description Builds a share link for facebook or twitter; other networks fall back to clipboard text.
// @Tags        Accounts
// @Produce     json
// @Security    BearerAuth
// @Param       network  query  string  false  "facebook | twitter"  default(twitter)
// @Success     200  {object}  capture.ShareLink
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me/share [get]
func (h *Handlers) ShareProfile(c *gin.Context) {
	id, _ := auth.UserID(c)
	link, err := h.Accounts.ShareProfile(c.Request.Context(), id, c.DefaultQuery("network", "twitter"))
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, link)
}
