package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerationJobStatus represents the status of a generation job
type GenerationJobStatus string

const (
	JobStatusPending    GenerationJobStatus = "pending"
	JobStatusInProgress GenerationJobStatus = "in_progress"
	JobStatusCompleted  GenerationJobStatus = "completed"
	JobStatusFailed     GenerationJobStatus = "failed"
)

// Step statuses
const (
	StepPending    = "pending"
	StepInProgress = "in_progress"
	StepCompleted  = "completed"
	StepFailed     = "failed"
)

// GenerationStep represents a step in the generation process
type GenerationStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// GenerationSteps is the ordered step list stored as JSONB on a job
type GenerationSteps []GenerationStep

// PendingSteps returns one pending step per name, in order.
func PendingSteps(names ...string) GenerationSteps {
	steps := make(GenerationSteps, len(names))
	for i, name := range names {
		steps[i] = GenerationStep{Name: name, Status: StepPending}
	}
	return steps
}

// SetStatus updates the named step in place. It reports false when no step has that name.
func (g GenerationSteps) SetStatus(name, status string) bool {
	for i := range g {
		if g[i].Name == name {
			g[i].Status = status
			return true
		}
	}
	return false
}

// Value implements driver.Valuer for JSONB
func (g GenerationSteps) Value() (driver.Value, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB. NULL and empty input scan as no steps.
func (g *GenerationSteps) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("generation steps: unsupported type %T", value)
	}
	if len(raw) == 0 {
		*g = GenerationSteps{}
		return nil
	}
	return json.Unmarshal(raw, g)
}

// GenerationJob represents a generation job entity
type GenerationJob struct {
	ID           uuid.UUID           `json:"id"`
	PlaintID     uuid.UUID           `json:"plaint_id"`
	Status       GenerationJobStatus `json:"status"`
	CurrentStep  *string             `json:"current_step,omitempty"`
	Steps        GenerationSteps     `json:"steps"`
	FileID       *uuid.UUID          `json:"file_id,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}
