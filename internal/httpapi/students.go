package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rollcall/internal/ledger"
	"rollcall/internal/roster"
)

type studentRequest struct {
	RollNumber    string  `json:"roll_number"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Course        *string `json:"course"`
	Batch         *string `json:"batch"`
	AdmissionDate string  `json:"admission_date"`
	Status        string  `json:"status"`
}

func (r studentRequest) toStudent(c *gin.Context) (roster.Student, bool) {
	s := roster.Student{
		RollNumber: r.RollNumber,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Course:     r.Course,
		Batch:      r.Batch,
		Status:     r.Status,
	}
	if r.AdmissionDate != "" {
		day, err := time.Parse(ledger.DateLayout, r.AdmissionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "admission_date must be YYYY-MM-DD"})
			return roster.Student{}, false
		}
		s.AdmissionDate = &day
	}
	return s, true
}

func (h *Handler) listStudents(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context(), roster.Filter{
		Batch:  c.Query("batch"),
		Course: c.Query("course"),
		Status: c.Query("status"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students, "count": len(students)})
}

func (h *Handler) getStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.roster.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *Handler) createStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in, ok := req.toStudent(c)
	if !ok {
		return
	}
	student, err := h.roster.Create(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

func (h *Handler) updateStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in, ok := req.toStudent(c)
	if !ok {
		return
	}
	in.ID = id
	student, err := h.roster.Update(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *Handler) deactivateStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roster.Deactivate(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "student deactivated"})
}

func (h *Handler) studentStats(c *gin.Context) {
	stats, err := h.roster.Overview(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
