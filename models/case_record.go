package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component.
// It marshals to and from JSON as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the date portion of t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps from clients that send them
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Display formats the date the way it appears in a pleading (DD-MM-YYYY).
// A zero date renders as an empty string.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02-01-2006")
}

// Party identifies a plaintiff or defendant
type Party struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Occupation string `json:"occupation,omitempty"`
	Address    string `json:"address"`
}

// Advocate identifies the advocate filing the plaint
type Advocate struct {
	Name            string `json:"name"`
	EnrolmentNumber string `json:"enrolment_number"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// Contract holds the terms of the contract in dispute
type Contract struct {
	Type          string `json:"type"`
	AgreementDate Date   `json:"agreement_date"`
	TotalAmount   string `json:"total_amount"`
	AdvancePaid   string `json:"advance_paid,omitempty"`
	BreachDate    Date   `json:"breach_date"`
}

// PropertySchedule describes immovable property that is the subject of the suit
type PropertySchedule struct {
	District      string `json:"district"`
	Taluk         string `json:"taluk"`
	Village       string `json:"village,omitempty"`
	SurveyNumber  string `json:"survey_number,omitempty"`
	Extent        string `json:"extent,omitempty"`
	BoundaryNorth string `json:"boundary_north,omitempty"`
	BoundarySouth string `json:"boundary_south,omitempty"`
	BoundaryEast  string `json:"boundary_east,omitempty"`
	BoundaryWest  string `json:"boundary_west,omitempty"`
	Description   string `json:"description,omitempty"`
}

// HasBoundaries reports whether any boundary is filled in
func (p PropertySchedule) HasBoundaries() bool {
	for _, b := range []string{p.BoundaryNorth, p.BoundarySouth, p.BoundaryEast, p.BoundaryWest} {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// DocumentEntry is one row in the list of documents filed with the plaint
type DocumentEntry struct {
	Date        string `json:"date"`
	ExecutedBy  string `json:"executed_by"`
	ExecutedTo  string `json:"executed_to"`
	Description string `json:"description"`
	Purpose     string `json:"purpose"`
}

// Valid reports whether at least one field of the row is non-empty
func (e DocumentEntry) Valid() bool {
	for _, f := range []string{e.Date, e.ExecutedBy, e.ExecutedTo, e.Description, e.Purpose} {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}

// CaseRecord is the snapshot of every intake field for one plaint
type CaseRecord struct {
	CourtName     string `json:"court_name"`
	CourtLocation string `json:"court_location"`
	SuitType      string `json:"suit_type,omitempty"`

	Plaintiff Party    `json:"plaintiff"`
	Defendant Party    `json:"defendant"`
	Advocate  Advocate `json:"advocate"`
	Contract  Contract `json:"contract"`

	Facts              []string `json:"facts"`
	JurisdictionReason string   `json:"jurisdiction_reason"`

	ClaimAmount     string `json:"claim_amount"`
	InterestRate    string `json:"interest_rate"`
	ReliefRequested string `json:"relief_requested"`

	VerificationPlace string `json:"verification_place"`
	VerificationDate  Date   `json:"verification_date"`

	Property  *PropertySchedule `json:"property,omitempty"`
	Documents []DocumentEntry   `json:"documents,omitempty"`
}

// Clone returns a deep copy so later edits to the source do not leak into a submitted snapshot
func (r CaseRecord) Clone() CaseRecord {
	out := r
	if r.Facts != nil {
		out.Facts = append([]string(nil), r.Facts...)
	}
	if r.Documents != nil {
		out.Documents = append([]DocumentEntry(nil), r.Documents...)
	}
	if r.Property != nil {
		p := *r.Property
		out.Property = &p
	}
	return out
}

// ValidDocuments returns the document rows that have at least one non-empty field
func (r CaseRecord) ValidDocuments() []DocumentEntry {
	var out []DocumentEntry
	for _, d := range r.Documents {
		if d.Valid() {
			out = append(out, d)
		}
	}
	return out
}

// Value implements driver.Valuer for JSONB
func (r CaseRecord) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *CaseRecord) Scan(value interface{}) error {
	if value == nil {
		*r = CaseRecord{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported case record type %T", value)
	}

	if len(bytes) == 0 {
		*r = CaseRecord{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}
