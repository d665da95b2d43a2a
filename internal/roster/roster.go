// Package roster manages student identity records. Students are never hard
// deleted; deactivation keeps their attendance history linked.
package roster

import "time"

// Lifecycle states for a student.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Student is one roster entry. RollNumber is the immutable business key.
type Student struct {
	ID            int64      `json:"id"`
	RollNumber    string     `json:"roll_number"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         *string    `json:"email,omitempty"`
	Phone         *string    `json:"phone,omitempty"`
	Course        *string    `json:"course,omitempty"`
	Batch         *string    `json:"batch,omitempty"`
	AdmissionDate *time.Time `json:"admission_date,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Filter narrows roster listings.
type Filter struct {
	Batch  string
	Course string
	Status string
}

// GroupCount is a count bucketed by batch or course label.
type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarises the active roster for the dashboard.
type Stats struct {
	Total    int          `json:"total"`
	ByBatch  []GroupCount `json:"by_batch"`
	ByCourse []GroupCount `json:"by_course"`
}
