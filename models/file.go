package models

import (
	"time"

	"github.com/google/uuid"
)

// File represents a rendered document stored for a plaint
type File struct {
	ID          uuid.UUID `json:"id"`
	AdvocateID  uuid.UUID `json:"advocate_id"`
	PlaintID    uuid.UUID `json:"plaint_id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	PageCount   int       `json:"page_count"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
