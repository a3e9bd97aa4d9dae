package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cleancity-backend/internal/repository"
	"github.com/ignatzorin/cleancity-backend/internal/validation"
)

// AgencyRepositoryFull — полный набор операций хранилища агентств.
type AgencyRepositoryFull interface {
	Create(ctx context.Context, agency *models.Agency) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Agency, error)
	ListApproved(ctx context.Context) ([]models.Agency, error)
	SetApproval(ctx context.Context, id uuid.UUID, isApproved bool) (*models.Agency, error)
	GetMemberByUser(ctx context.Context, userID uuid.UUID) (*models.AgencyMember, error)
	AddMember(ctx context.Context, member *models.AgencyMember) error
}

// UserGetter возвращает пользователя по идентификатору.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AgencyService управляет реестром агентств и их участниками.
type AgencyService struct {
	agencies AgencyRepositoryFull
	users    UserGetter
}

// NewAgencyService создаёт сервис агентств.
func NewAgencyService(agencies AgencyRepositoryFull, users UserGetter) *AgencyService {
	return &AgencyService{agencies: agencies, users: users}
}

// CreateAgencyInput содержит данные нового агентства.
type CreateAgencyInput struct {
	Name         string
	Description  *string
	ContactEmail *string
	ContactPhone *string
	ServiceAreas []string
}

// CreateAgency регистрирует агентство. Новое агентство не подтверждено,
// пока администратор не вызовет SetApproval.
func (s *AgencyService) CreateAgency(ctx context.Context, in CreateAgencyInput) (*models.Agency, error) {
	if err := validation.ValidateLength("название", in.Name, validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.ContactEmail != nil {
		if err := validation.ValidateEmail(*in.ContactEmail); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	agency := &models.Agency{
		Name:         in.Name,
		Description:  in.Description,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		ServiceAreas: in.ServiceAreas,
	}
	if err := s.agencies.Create(ctx, agency); err != nil {
		return nil, err
	}
	return agency, nil
}

// GetAgency возвращает агентство по идентификатору.
func (s *AgencyService) GetAgency(ctx context.Context, id uuid.UUID) (*models.Agency, error) {
	agency, err := s.agencies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAgencyNotFound) {
			return nil, apperror.ErrAgencyNotFound
		}
		return nil, err
	}
	return agency, nil
}

// ListApproved возвращает подтверждённые агентства.
func (s *AgencyService) ListApproved(ctx context.Context) ([]models.Agency, error) {
	return s.agencies.ListApproved(ctx)
}

// SetApproval подтверждает агентство или отзывает подтверждение.
func (s *AgencyService) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.Agency, error) {
	agency, err := s.agencies.SetApproval(ctx, id, approved)
	if err != nil {
		if errors.Is(err, repository.ErrAgencyNotFound) {
			return nil, apperror.ErrAgencyNotFound
		}
		return nil, err
	}
	return agency, nil
}

// AddMember добавляет пользователя в агентство.
func (s *AgencyService) AddMember(ctx context.Context, agencyID, userID uuid.UUID, isAdmin bool) (*models.AgencyMember, error) {
	if _, err := s.GetAgency(ctx, agencyID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	member := &models.AgencyMember{
		UserID:   userID,
		AgencyID: agencyID,
		IsAdmin:  isAdmin,
	}
	if err := s.agencies.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// MemberAgency возвращает членство пользователя в агентстве.
func (s *AgencyService) MemberAgency(ctx context.Context, userID uuid.UUID) (*models.AgencyMember, error) {
	member, err := s.agencies.GetMemberByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, apperror.New(apperror.ErrCodeForbidden, "пользователь не состоит в агентстве")
		}
		return nil, err
	}
	return member, nil
}
