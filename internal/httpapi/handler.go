// Package httpapi exposes the ledger, roster, report, and auth services over
// gin. Handlers bind input, call one service operation, and map the error
// taxonomy onto HTTP statuses.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rollcall/internal/apperr"
	"rollcall/internal/auth"
	"rollcall/internal/ledger"
	"rollcall/internal/report"
	"rollcall/internal/roster"
)

// Handler carries the wired services and cookie settings.
type Handler struct {
	auth         *auth.Service
	roster       *roster.Service
	ledger       *ledger.Service
	reports      *report.Service
	cookieName   string
	cookieSecure bool
}

// New creates a handler over the wired services.
func New(authSvc *auth.Service, rosterSvc *roster.Service, ledgerSvc *ledger.Service,
	reportSvc *report.Service, cookieName string, cookieSecure bool) *Handler {
	return &Handler{
		auth:         authSvc,
		roster:       rosterSvc,
		ledger:       ledgerSvc,
		reports:      reportSvc,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

// Routes registers the API surface on the router.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)
	api.GET("/auth/check", h.checkAuth)

	authed := api.Group("", auth.RequireAuth(h.auth, h.cookieName))

	authed.POST("/auth/change-password", h.changePassword)

	authed.GET("/students", h.listStudents)
	authed.POST("/students", h.createStudent)
	authed.GET("/students/stats/overview", h.studentStats)
	authed.GET("/students/:id", h.getStudent)
	authed.PUT("/students/:id", h.updateStudent)
	authed.DELETE("/students/:id", h.deactivateStudent)

	authed.POST("/attendance/mark", h.markAttendance)
	authed.GET("/attendance/date/:date", h.attendanceByDate)
	authed.GET("/attendance/student/:id", h.studentHistory)
	authed.GET("/attendance/stats/overview", h.overviewStats)
	authed.GET("/attendance/stats/students", h.studentSummaries)
	authed.DELETE("/attendance/:id", h.deleteAttendance)

	authed.GET("/reports/daily/:date", h.dailyReport)
	authed.GET("/reports/monthly/:year/:month", h.monthlyReport)
	authed.GET("/reports/export/daily/:date", h.exportDaily)
	authed.GET("/reports/export/monthly/:year/:month", h.exportMonthly)
	authed.GET("/reports/trends", h.trends)
}

// respondErr maps the error taxonomy to HTTP statuses.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
