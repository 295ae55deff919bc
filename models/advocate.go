package models

import (
	"time"

	"github.com/google/uuid"
)

// AdvocateAccount represents a registered advocate
type AdvocateAccount struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // Never serialize password hash
	Name            string    `json:"name"`
	EnrolmentNumber string    `json:"enrolment_number"`
	Address         string    `json:"address,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Profile returns the advocate block used on a case record
func (a *AdvocateAccount) Profile() Advocate {
	return Advocate{
		Name:            a.Name,
		EnrolmentNumber: a.EnrolmentNumber,
		Address:         a.Address,
		Phone:           a.Phone,
	}
}
