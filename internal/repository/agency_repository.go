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
	ErrAgencyNotFound = errors.New("agency not found")
	ErrMemberNotFound = errors.New("agency member not found")
)

// AgencyRepository отвечает за агентства и их участников.
type AgencyRepository struct {
	db *sqlx.DB
}

// NewAgencyRepository создаёт новый экземпляр.
func NewAgencyRepository(db *sqlx.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

// Create сохраняет агентство. Новые агентства не подтверждены.
func (r *AgencyRepository) Create(ctx context.Context, agency *models.Agency) error {
	if agency.ServiceAreas == nil {
		agency.ServiceAreas = []string{}
	}

	query := `
		INSERT INTO agencies (name, description, contact_email, contact_phone, service_areas)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_approved, rating, completed_jobs, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		agency.Name,
		agency.Description,
		agency.ContactEmail,
		agency.ContactPhone,
		agency.ServiceAreas,
	).Scan(&agency.ID, &agency.IsApproved, &agency.Rating, &agency.CompletedJobs, &agency.CreatedAt, &agency.UpdatedAt)
	if err != nil {
		return fmt.Errorf("agency repository: create %w", err)
	}
	return nil
}

// GetByID возвращает агентство по идентификатору.
func (r *AgencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Agency, error) {
	return common.GetByID[models.Agency](ctx, r.db, "agencies", id, ErrAgencyNotFound)
}

// ListApproved возвращает подтверждённые агентства; только они видны жителям.
func (r *AgencyRepository) ListApproved(ctx context.Context) ([]models.Agency, error) {
	var agencies []models.Agency
	err := r.db.SelectContext(ctx, &agencies, `
		SELECT * FROM agencies WHERE is_approved = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("agency repository: list approved %w", err)
	}
	return agencies, nil
}

// SetApproval меняет флаг подтверждения агентства.
func (r *AgencyRepository) SetApproval(ctx context.Context, id uuid.UUID, isApproved bool) (*models.Agency, error) {
	var agency models.Agency
	query := `
		UPDATE agencies SET is_approved = $2, updated_at = NOW() WHERE id = $1
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &agency, query, id, isApproved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgencyNotFound
		}
		return nil, fmt.Errorf("agency repository: set approval %w", err)
	}
	return &agency, nil
}

// IncrementCompletedJobs увеличивает счётчик выполненных работ.
func (r *AgencyRepository) IncrementCompletedJobs(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agencies SET completed_jobs = completed_jobs + 1, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("agency repository: increment completed jobs %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAgencyNotFound
	}
	return nil
}

// GetMemberByUser возвращает членство пользователя в агентстве.
func (r *AgencyRepository) GetMemberByUser(ctx context.Context, userID uuid.UUID) (*models.AgencyMember, error) {
	return common.GetByField[models.AgencyMember](ctx, r.db, "agency_members", "user_id", userID, ErrMemberNotFound)
}

// AddMember добавляет пользователя в агентство.
func (r *AgencyRepository) AddMember(ctx context.Context, member *models.AgencyMember) error {
	query := `
		INSERT INTO agency_members (user_id, agency_id, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, member.UserID, member.AgencyID, member.IsAdmin).
		Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		return fmt.Errorf("agency repository: add member %w", err)
	}
	return nil
}
