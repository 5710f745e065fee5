package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a row of the organogram reference table. Matched on email,
// case-insensitively; the authoritative source is external HR.
type Employee struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Manager   string    `json:"manager"`
	Tribe     string    `json:"tribe"`
	Area      string    `json:"area"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
