package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/cleancity-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cleancity-backend/internal/goroutine"
	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cleancity-backend/internal/repository"
)

// PickupStore описывает зависимости сервиса от слоя хранилища.
type PickupStore interface {
	Create(ctx context.Context, pickup *models.PickupRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PickupRequest, error)
	List(ctx context.Context, limit int) ([]models.PickupRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.PickupRequest, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]models.PickupRequest, error)
	Assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.PickupRequest, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.PickupRequest, error)
}

// PickupService повторяет жизненный цикл заявок для запросов на вывоз:
// та же таблица переходов, то же атомарное назначение.
type PickupService struct {
	pickups  PickupStore
	agencies AgencyStore
	hub      EventNotifier
}

// NewPickupService создаёт сервис запросов на вывоз.
func NewPickupService(pickups PickupStore, agencies AgencyStore) *PickupService {
	return &PickupService{
		pickups:  pickups,
		agencies: agencies,
	}
}

// SetHub подключает рассылку событий.
func (s *PickupService) SetHub(hub EventNotifier) {
	s.hub = hub
}

// CreatePickupInput содержит данные нового запроса на вывоз.
type CreatePickupInput struct {
	RequesterID   uuid.UUID
	Type          string
	ScheduledDate *time.Time
	Latitude      *float64
	Longitude     *float64
	Address       *string
	Notes         *string
}

// CreatePickup валидирует вход и сохраняет запрос в статусе reported.
func (s *PickupService) CreatePickup(ctx context.Context, in CreatePickupInput) (*models.PickupRequest, error) {
	if _, ok := models.ValidPickupTypes[in.Type]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип вывоза")
	}
	if in.Type == models.PickupTypeScheduled && in.ScheduledDate == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "для запланированного вывоза требуется scheduled_date")
	}

	pickup := &models.PickupRequest{
		RequesterID:   in.RequesterID,
		Type:          in.Type,
		ScheduledDate: in.ScheduledDate,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Address:       in.Address,
		Notes:         in.Notes,
	}

	if err := s.pickups.Create(ctx, pickup); err != nil {
		return nil, err
	}

	s.notify("pickup.created", pickup)
	return pickup, nil
}

// ListPickups возвращает последние запросы.
func (s *PickupService) ListPickups(ctx context.Context, limit int) ([]models.PickupRequest, error) {
	return s.pickups.List(ctx, limit)
}

// ListMyPickups возвращает запросы жителя.
func (s *PickupService) ListMyPickups(ctx context.Context, requesterID uuid.UUID) ([]models.PickupRequest, error) {
	return s.pickups.ListByRequester(ctx, requesterID)
}

// ListAgencyPickups возвращает запросы, закреплённые за агентством.
func (s *PickupService) ListAgencyPickups(ctx context.Context, agencyID uuid.UUID) ([]models.PickupRequest, error) {
	return s.pickups.ListByAgency(ctx, agencyID)
}

// UpdateStatus выполняет переход запроса по таблице жизненного цикла,
// по тому же контракту, что и ReportService.UpdateStatus.
func (s *PickupService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, agencyID *uuid.UUID) (*models.PickupRequest, error) {
	newStatus, err := valueobject.NewReportStatus(status)
	if err != nil {
		return nil, err
	}

	if newStatus == valueobject.ReportStatusAssigned {
		if agencyID == nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "для назначения требуется agency_id")
		}
		return s.assign(ctx, id, *agencyID)
	}

	if agencyID != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "agency_id допустим только при переходе в assigned")
	}

	pickup, err := s.getPickup(ctx, id)
	if err != nil {
		return nil, err
	}

	current := valueobject.ReportStatus(pickup.Status)
	if !current.CanTransitionTo(newStatus) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition,
			fmt.Sprintf("переход %s → %s запрещён", current, newStatus))
	}

	updated, err := s.pickups.TransitionStatus(ctx, id, string(current), string(newStatus))
	if err != nil {
		if errors.Is(err, repository.ErrPickupConflict) {
			return nil, apperror.New(apperror.ErrCodeConflict, "статус запроса изменился, повторите запрос")
		}
		if errors.Is(err, repository.ErrPickupNotFound) {
			return nil, apperror.ErrPickupNotFound
		}
		return nil, err
	}

	if newStatus == valueobject.ReportStatusCompleted && updated.AssignedAgencyID != nil {
		s.applyCompletionCounters(*updated.AssignedAgencyID)
	}

	s.notify("pickup.status_changed", updated)
	return updated, nil
}

// GetPickup возвращает запрос по идентификатору.
func (s *PickupService) GetPickup(ctx context.Context, id uuid.UUID) (*models.PickupRequest, error) {
	return s.getPickup(ctx, id)
}

func (s *PickupService) getPickup(ctx context.Context, id uuid.UUID) (*models.PickupRequest, error) {
	pickup, err := s.pickups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPickupNotFound) {
			return nil, apperror.ErrPickupNotFound
		}
		return nil, err
	}
	return pickup, nil
}

func (s *PickupService) assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.PickupRequest, error) {
	agency, err := s.agencies.GetByID(ctx, agencyID)
	if err != nil {
		if errors.Is(err, repository.ErrAgencyNotFound) {
			return nil, apperror.ErrAgencyNotFound
		}
		return nil, err
	}
	if !agency.IsApproved {
		return nil, apperror.New(apperror.ErrCodeValidation, "агентство ещё не подтверждено")
	}

	pickup, err := s.pickups.Assign(ctx, id, agencyID)
	if err == nil {
		s.notify("pickup.status_changed", pickup)
		return pickup, nil
	}

	if errors.Is(err, repository.ErrPickupNotFound) {
		return nil, apperror.ErrPickupNotFound
	}
	if !errors.Is(err, repository.ErrPickupConflict) {
		return nil, err
	}

	current, getErr := s.getPickup(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.AssignedAgencyID != nil {
		return nil, apperror.ErrAlreadyAssigned
	}
	return nil, apperror.New(apperror.ErrCodeInvalidTransition,
		fmt.Sprintf("переход %s → assigned запрещён", current.Status))
}

func (s *PickupService) applyCompletionCounters(agencyID uuid.UUID) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.agencies.IncrementCompletedJobs(ctx, agencyID); err != nil {
			logError("pickup service: не удалось обновить completed_jobs", err)
		}
	})
}

func (s *PickupService) notify(event string, data any) {
	if s.hub != nil {
		s.hub.Broadcast(event, data)
	}
}
