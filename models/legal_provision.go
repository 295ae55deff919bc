package models

import (
	"github.com/google/uuid"
)

// LegalProvision is a statutory provision or precedent used as drafting context
type LegalProvision struct {
	ID      uuid.UUID `json:"id"`
	Act     string    `json:"act"`     // e.g. "Indian Contract Act, 1872"
	Section string    `json:"section"` // e.g. "73"
	Title   string    `json:"title"`
	Text    string    `json:"text"`
	Topics  []string  `json:"topics"`
	Rank    float64   `json:"rank,omitempty"` // full-text search rank
}

// Citation renders the provision as "Section 73, Indian Contract Act, 1872".
// Sections that are not plain numbers ("Order VII Rule 1") are cited as given.
func (p LegalProvision) Citation() string {
	if p.Section == "" {
		return p.Act
	}
	if r := p.Section[0]; r < '0' || r > '9' {
		return p.Section + ", " + p.Act
	}
	return "Section " + p.Section + ", " + p.Act
}
