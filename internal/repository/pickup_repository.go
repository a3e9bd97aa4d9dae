package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/repository/common"
)

var (
	ErrPickupNotFound = errors.New("pickup request not found")
	// ErrPickupConflict — аналог ErrReportConflict для запросов на вывоз.
	ErrPickupConflict = errors.New("pickup request state changed concurrently")
)

// PickupRepository отвечает за запросы на вывоз мусора.
// Повторяет контракт ReportRepository: тот же жизненный цикл и те же
// условные обновления.
type PickupRepository struct {
	db *sqlx.DB
}

// NewPickupRepository создаёт новый экземпляр.
func NewPickupRepository(db *sqlx.DB) *PickupRepository {
	return &PickupRepository{db: db}
}

// Create сохраняет запрос на вывоз.
func (r *PickupRepository) Create(ctx context.Context, pickup *models.PickupRequest) error {
	query := `
		INSERT INTO pickup_requests (requester_id, type, scheduled_date, latitude, longitude, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		pickup.RequesterID,
		pickup.Type,
		pickup.ScheduledDate,
		pickup.Latitude,
		pickup.Longitude,
		pickup.Address,
		pickup.Notes,
	).Scan(&pickup.ID, &pickup.Status, &pickup.CreatedAt, &pickup.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pickup repository: create %w", err)
	}
	return nil
}

// GetByID возвращает запрос по идентификатору.
func (r *PickupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PickupRequest, error) {
	return common.GetByID[models.PickupRequest](ctx, r.db, "pickup_requests", id, ErrPickupNotFound)
}

// List возвращает последние запросы, не больше limit.
func (r *PickupRepository) List(ctx context.Context, limit int) ([]models.PickupRequest, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var pickups []models.PickupRequest
	err := r.db.SelectContext(ctx, &pickups, `
		SELECT * FROM pickup_requests ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("pickup repository: list %w", err)
	}
	return pickups, nil
}

// ListByRequester возвращает запросы конкретного жителя.
func (r *PickupRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.PickupRequest, error) {
	var pickups []models.PickupRequest
	err := r.db.SelectContext(ctx, &pickups, `
		SELECT * FROM pickup_requests WHERE requester_id = $1 ORDER BY created_at DESC
	`, requesterID)
	if err != nil {
		return nil, fmt.Errorf("pickup repository: list by requester %w", err)
	}
	return pickups, nil
}

// ListByAgency возвращает запросы, закреплённые за агентством.
func (r *PickupRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]models.PickupRequest, error) {
	var pickups []models.PickupRequest
	err := r.db.SelectContext(ctx, &pickups, `
		SELECT * FROM pickup_requests WHERE assigned_agency_id = $1 ORDER BY created_at DESC
	`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("pickup repository: list by agency %w", err)
	}
	return pickups, nil
}

// Assign закрепляет запрос за агентством атомарно (см. ReportRepository.Assign).
func (r *PickupRepository) Assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.PickupRequest, error) {
	var pickup models.PickupRequest
	query := `
		UPDATE pickup_requests
		SET status = 'assigned', assigned_agency_id = $2, assigned_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'reported' AND assigned_agency_id IS NULL
		RETURNING *
	`
	err := r.db.GetContext(ctx, &pickup, query, id, agencyID)
	if err == nil {
		return &pickup, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pickup repository: assign %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrPickupConflict
}

// TransitionStatus переводит запрос из fromStatus в toStatus под защитой
// условия по текущему статусу.
func (r *PickupRepository) TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.PickupRequest, error) {
	var pickup models.PickupRequest
	query := `
		UPDATE pickup_requests
		SET status = $3,
		    completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	`
	err := r.db.GetContext(ctx, &pickup, query, id, fromStatus, toStatus)
	if err == nil {
		return &pickup, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pickup repository: transition status %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrPickupConflict
}
