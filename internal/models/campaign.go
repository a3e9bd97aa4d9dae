package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign — общественная инициатива, публикуемая администратором.
type Campaign struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description"`
	StartDate        time.Time  `db:"start_date" json:"start_date"`
	EndDate          *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	ParticipantCount int        `db:"participant_count" json:"participant_count"`
	CreatedBy        uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
