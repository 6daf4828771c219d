package store

import (
	"strings"
	"time"
)

// Status is the report lifecycle state. The set is closed; anything else is
// rejected at the parse boundary and never reaches the database.
type Status string

const (
	StatusPending            Status = "pending"
	StatusUnderInvestigation Status = "under_investigation"
	StatusResolved           Status = "resolved"
	StatusRejected           Status = "rejected"
)

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusUnderInvestigation, StatusResolved, StatusRejected:
		return s, true
	}
	return "", false
}

type IncidentType string

const (
	TypeAccident        IncidentType = "accident"
	TypeFire            IncidentType = "fire"
	TypeMedical         IncidentType = "medical"
	TypeCrime           IncidentType = "crime"
	TypeNaturalDisaster IncidentType = "natural_disaster"
	TypeOther           IncidentType = "other"
)

func ParseIncidentType(raw string) (IncidentType, bool) {
	t := IncidentType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TypeAccident, TypeFire, TypeMedical, TypeCrime, TypeNaturalDisaster, TypeOther:
		return t, true
	}
	return "", false
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type Report struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        IncidentType `json:"type"`
	Location    Location     `json:"location"`
	Status      Status       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// StatusAuditEntry is one row of the append-only per-report trail. Rows are
// never updated or deleted, and they survive deletion of the report itself.
type StatusAuditEntry struct {
	ID         int64     `json:"id"`
	ReportID   string    `json:"report_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type MediaRef struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	URL       string    `json:"url"`
	MediaType string    `json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportFilter narrows ListReports. OwnerID is the visibility restriction and
// is applied before any other clause; empty fields mean no constraint.
type ReportFilter struct {
	OwnerID string
	Search  string
	Status  string
	Type    string
	Limit   int
	Offset  int
}
