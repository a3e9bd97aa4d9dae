package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Agency описывает клининговое агентство.
// Неподтверждённые агентства не видны жителям и не могут брать заявки.
type Agency struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Description   *string        `db:"description" json:"description,omitempty"`
	ContactEmail  *string        `db:"contact_email" json:"contact_email,omitempty"`
	ContactPhone  *string        `db:"contact_phone" json:"contact_phone,omitempty"`
	ServiceAreas  pq.StringArray `db:"service_areas" json:"service_areas"`
	IsApproved    bool           `db:"is_approved" json:"is_approved"`
	Rating        float64        `db:"rating" json:"rating"`
	CompletedJobs int            `db:"completed_jobs" json:"completed_jobs"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// AgencyMember связывает пользователя с агентством.
type AgencyMember struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	AgencyID  uuid.UUID `db:"agency_id" json:"agency_id"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
