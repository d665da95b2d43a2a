package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall/internal/auth"
	"rollcall/internal/ledger"
	"rollcall/internal/report"
)

func (h *Handler) markAttendance(c *gin.Context) {
	var req struct {
		Date    string        `json:"attendance_date"`
		Records []ledger.Mark `json:"attendance_records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attendance date and records are required"})
		return
	}
	adminID, ok := auth.AdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	result, err := h.ledger.MarkAttendance(c.Request.Context(), req.Date, req.Records, adminID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "attendance marked",
		"date":    result.Date,
		"marked":  result.Marked,
	})
}

func (h *Handler) attendanceByDate(c *gin.Context) {
	rep, err := h.reports.Daily(c.Request.Context(), c.Param("date"), c.Query("batch"), c.Query("course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) studentHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	from, to := c.Query("start_date"), c.Query("end_date")

	// History works for inactive students too; only aggregates exclude them.
	student, err := h.roster.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	records, err := h.ledger.History(c.Request.Context(), id, from, to)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"student":    student,
		"attendance": records,
		"summary":    report.Summarize(records),
		"period":     gin.H{"start_date": from, "end_date": to},
	})
}

func (h *Handler) overviewStats(c *gin.Context) {
	stats, err := h.reports.OverviewStats(c.Request.Context(), report.Filter{
		Date:   c.Query("date"),
		From:   c.Query("start_date"),
		To:     c.Query("end_date"),
		Batch:  c.Query("batch"),
		Course: c.Query("course"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) studentSummaries(c *gin.Context) {
	summaries, err := h.reports.StudentSummaries(c.Request.Context(), report.Filter{
		From:   c.Query("start_date"),
		To:     c.Query("end_date"),
		Batch:  c.Query("batch"),
		Course: c.Query("course"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": summaries, "count": len(summaries)})
}

func (h *Handler) deleteAttendance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.DeleteRecord(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "attendance record deleted"})
}
