package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Report — заявка жителя о проблеме с мусором.
// assigned_agency_id заполняется один раз при переходе в статус assigned
// и после этого не меняется; completed_at ставится только при завершении.
type Report struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	ReporterID       uuid.UUID      `db:"reporter_id" json:"reporter_id"`
	Title            string         `db:"title" json:"title"`
	Description      string         `db:"description" json:"description"`
	Category         string         `db:"category" json:"category"`
	Status           string         `db:"status" json:"status"`
	Priority         string         `db:"priority" json:"priority"`
	Latitude         *float64       `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64       `db:"longitude" json:"longitude,omitempty"`
	Address          *string        `db:"address" json:"address,omitempty"`
	ImageURLs        pq.StringArray `db:"image_urls" json:"image_urls"`
	AssignedAgencyID *uuid.UUID     `db:"assigned_agency_id" json:"assigned_agency_id,omitempty"`
	AssignedAt       *time.Time     `db:"assigned_at" json:"assigned_at,omitempty"`
	CompletedAt      *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// ReportStats — глобальные счётчики по заявкам.
type ReportStats struct {
	Total      int `db:"total" json:"total"`
	Resolved   int `db:"resolved" json:"resolved"`
	Pending    int `db:"pending" json:"pending"`
	InProgress int `db:"in_progress" json:"inProgress"`
}

// AgencyStats — сводка по работе агентства.
// AvgResponseTimeHours считается как среднее (assigned_at - created_at)
// по заявкам, которые агентство приняло в работу.
type AgencyStats struct {
	ActiveRequests       int     `json:"activeRequests"`
	CompletedToday       int     `json:"completedToday"`
	AvgResponseTimeHours float64 `json:"avgResponseTime"`
	Rating               float64 `json:"rating"`
}
