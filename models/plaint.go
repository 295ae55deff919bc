package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaintStatus represents the status of a plaint
type PlaintStatus string

const (
	StatusDraft     PlaintStatus = "draft"
	StatusSubmitted PlaintStatus = "submitted"
	StatusGenerated PlaintStatus = "generated"
	StatusArchived  PlaintStatus = "archived"
)

// DefaultSuitType is used when the intake leaves the suit title empty
const DefaultSuitType = "CIVIL SUIT FOR BREACH OF CONTRACT"

// PlaintFilename is the download name of every rendered plaint
const PlaintFilename = "Civil_Plaint_Breach_of_Contract.pdf"

// Plaint represents a plaint entity
type Plaint struct {
	ID         uuid.UUID    `json:"id"`
	AdvocateID uuid.UUID    `json:"advocate_id"`
	Status     PlaintStatus `json:"status"`

	CaseRecord CaseRecord `json:"case_record"`

	// Filled in once the record passes validation
	CourtFee *float64 `json:"court_fee,omitempty"`

	GeneratedContent *string    `json:"generated_content,omitempty"`
	DocumentFileID   *uuid.UUID `json:"document_file_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// EditableStatuses are the statuses in which a case record may change
var EditableStatuses = []PlaintStatus{StatusDraft, StatusGenerated}

// Editable reports whether the case record may still change
func (p *Plaint) Editable() bool {
	for _, s := range EditableStatuses {
		if p.Status == s {
			return true
		}
	}
	return false
}
