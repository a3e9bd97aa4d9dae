package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cleancity-backend/internal/repository"
	"github.com/ignatzorin/cleancity-backend/internal/validation"
)

// CampaignStore описывает операции хранилища кампаний.
type CampaignStore interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	ListActive(ctx context.Context) ([]models.Campaign, error)
	IncrementParticipants(ctx context.Context, id uuid.UUID) error
}

// CampaignService управляет общественными кампаниями.
type CampaignService struct {
	campaigns CampaignStore
	hub       EventNotifier
}

// NewCampaignService создаёт сервис кампаний.
func NewCampaignService(campaigns CampaignStore) *CampaignService {
	return &CampaignService{campaigns: campaigns}
}

// SetHub подключает рассылку событий.
func (s *CampaignService) SetHub(hub EventNotifier) {
	s.hub = hub
}

// CreateCampaignInput содержит данные новой кампании.
type CreateCampaignInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	CreatedBy   uuid.UUID
}

// CreateCampaign публикует кампанию.
func (s *CampaignService) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*models.Campaign, error) {
	if err := validation.ValidateLength("заголовок", in.Title, validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MinDescriptionLength, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, apperror.New(apperror.ErrCodeValidation, "дата окончания раньше даты начала")
	}

	campaign := &models.Campaign{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast("campaign.created", campaign)
	}
	return campaign, nil
}

// GetCampaign возвращает кампанию по идентификатору.
func (s *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCampaignNotFound) {
			return nil, apperror.ErrCampaignNotFound
		}
		return nil, err
	}
	return campaign, nil
}

// ListActive возвращает активные кампании.
func (s *CampaignService) ListActive(ctx context.Context) ([]models.Campaign, error) {
	return s.campaigns.ListActive(ctx)
}

// Join регистрирует участие пользователя в кампании.
func (s *CampaignService) Join(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if !campaign.IsActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "кампания уже завершена")
	}

	if err := s.campaigns.IncrementParticipants(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCampaignNotFound) {
			return nil, apperror.ErrCampaignNotFound
		}
		return nil, err
	}
	return s.GetCampaign(ctx, id)
}
