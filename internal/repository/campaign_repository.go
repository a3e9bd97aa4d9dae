package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/repository/common"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignRepository отвечает за общественные кампании.
type CampaignRepository struct {
	db *sqlx.DB
}

// NewCampaignRepository создаёт новый экземпляр.
func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create сохраняет кампанию.
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (title, description, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, participant_count, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		campaign.Title,
		campaign.Description,
		campaign.StartDate,
		campaign.EndDate,
		campaign.CreatedBy,
	).Scan(&campaign.ID, &campaign.IsActive, &campaign.ParticipantCount, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		return fmt.Errorf("campaign repository: create %w", err)
	}
	return nil
}

// GetByID возвращает кампанию по идентификатору.
func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return common.GetByID[models.Campaign](ctx, r.db, "campaigns", id, ErrCampaignNotFound)
}

// ListActive возвращает активные кампании, новые первыми.
func (r *CampaignRepository) ListActive(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.SelectContext(ctx, &campaigns, `
		SELECT * FROM campaigns WHERE is_active = TRUE ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("campaign repository: list active %w", err)
	}
	return campaigns, nil
}

// IncrementParticipants увеличивает счётчик участников.
func (r *CampaignRepository) IncrementParticipants(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET participant_count = participant_count + 1, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("campaign repository: increment participants %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}
