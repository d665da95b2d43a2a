package httpapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) dailyReport(c *gin.Context) {
	rep, err := h.reports.Daily(c.Request.Context(), c.Param("date"), c.Query("batch"), c.Query("course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) monthlyReport(c *gin.Context) {
	year := queryIntParam(c, "year")
	month := queryIntParam(c, "month")
	rep, err := h.reports.Monthly(c.Request.Context(), year, month, c.Query("batch"), c.Query("course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) exportDaily(c *gin.Context) {
	date := c.Param("date")
	rep, err := h.reports.Daily(c.Request.Context(), date, c.Query("batch"), c.Query("course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	format := exportFormat(c)
	var buf bytes.Buffer
	if err := report.WriteDaily(&buf, rep, format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	serveAttachment(c, &buf, fmt.Sprintf("daily_attendance_%s.%s", date, format), format)
}

func (h *Handler) exportMonthly(c *gin.Context) {
	year := queryIntParam(c, "year")
	month := queryIntParam(c, "month")
	rep, err := h.reports.Monthly(c.Request.Context(), year, month, c.Query("batch"), c.Query("course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	format := exportFormat(c)
	var buf bytes.Buffer
	if err := report.WriteMonthly(&buf, rep, format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	serveAttachment(c, &buf, fmt.Sprintf("attendance_report_%d_%02d.%s", year, month, format), format)
}

func (h *Handler) trends(c *gin.Context) {
	days := queryInt(c, "days", 0)
	trends, err := h.reports.Trends(c.Request.Context(), days, c.Query("batch"), c.Query("course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

func exportFormat(c *gin.Context) string {
	if c.Query("format") == report.FormatXLSX {
		return report.FormatXLSX
	}
	return report.FormatCSV
}

func serveAttachment(c *gin.Context, buf *bytes.Buffer, filename, format string) {
	contentType := "text/csv"
	if format == report.FormatXLSX {
		contentType = xlsxContentType
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// queryIntParam parses a numeric path segment, 0 on garbage; the service
// rejects out-of-range values with a proper message.
func queryIntParam(c *gin.Context, name string) int {
	v := 0
	fmt.Sscanf(c.Param(name), "%d", &v)
	return v
}
