package models

import (
	"time"

	"github.com/google/uuid"
)

// PickupRequest — запрос на вывоз мусора. Использует тот же жизненный цикл,
// что и Report: reported → assigned → in-progress → completed / rejected.
type PickupRequest struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	RequesterID      uuid.UUID  `db:"requester_id" json:"requester_id"`
	Type             string     `db:"type" json:"type"`
	ScheduledDate    *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	Latitude         *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64   `db:"longitude" json:"longitude,omitempty"`
	Address          *string    `db:"address" json:"address,omitempty"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	Status           string     `db:"status" json:"status"`
	AssignedAgencyID *uuid.UUID `db:"assigned_agency_id" json:"assigned_agency_id,omitempty"`
	AssignedAt       *time.Time `db:"assigned_at" json:"assigned_at,omitempty"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
