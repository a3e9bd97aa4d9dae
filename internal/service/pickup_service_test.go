package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cleancity-backend/internal/repository"
)

type mockPickupStore struct {
	mock.Mock
}

func (m *mockPickupStore) Create(ctx context.Context, pickup *models.PickupRequest) error {
	args := m.Called(ctx, pickup)
	return args.Error(0)
}

func (m *mockPickupStore) GetByID(ctx context.Context, id uuid.UUID) (*models.PickupRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickupRequest), args.Error(1)
}

func (m *mockPickupStore) List(ctx context.Context, limit int) ([]models.PickupRequest, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.PickupRequest), args.Error(1)
}

func (m *mockPickupStore) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.PickupRequest, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]models.PickupRequest), args.Error(1)
}

func (m *mockPickupStore) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]models.PickupRequest, error) {
	args := m.Called(ctx, agencyID)
	return args.Get(0).([]models.PickupRequest), args.Error(1)
}

func (m *mockPickupStore) Assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.PickupRequest, error) {
	args := m.Called(ctx, id, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickupRequest), args.Error(1)
}

func (m *mockPickupStore) TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.PickupRequest, error) {
	args := m.Called(ctx, id, fromStatus, toStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickupRequest), args.Error(1)
}

func newPickupService() (*PickupService, *mockPickupStore, *mockAgencyStore) {
	pickups := new(mockPickupStore)
	agencies := new(mockAgencyStore)
	return NewPickupService(pickups, agencies), pickups, agencies
}

func TestPickupService_CreatePickup_OnDemand(t *testing.T) {
	svc, pickups, _ := newPickupService()
	ctx := context.Background()
	requesterID := uuid.New()

	pickups.On("Create", ctx, mock.AnythingOfType("*models.PickupRequest")).Return(nil)

	pickup, err := svc.CreatePickup(ctx, CreatePickupInput{
		RequesterID: requesterID,
		Type:        "on-demand",
	})
	assert.NoError(t, err)
	assert.Equal(t, "on-demand", pickup.Type)
	pickups.AssertExpectations(t)
}

func TestPickupService_CreatePickup_InvalidType(t *testing.T) {
	svc, _, _ := newPickupService()

	_, err := svc.CreatePickup(context.Background(), CreatePickupInput{
		RequesterID: uuid.New(),
		Type:        "weekly",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestPickupService_CreatePickup_ScheduledRequiresDate(t *testing.T) {
	svc, _, _ := newPickupService()

	_, err := svc.CreatePickup(context.Background(), CreatePickupInput{
		RequesterID: uuid.New(),
		Type:        "scheduled",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestPickupService_UpdateStatus_Assign_Success(t *testing.T) {
	svc, pickups, agencies := newPickupService()
	ctx := context.Background()
	pickupID := uuid.New()
	agencyID := uuid.New()
	now := time.Now()

	agencies.On("GetByID", ctx, agencyID).Return(approvedAgency(agencyID), nil)
	pickups.On("Assign", ctx, pickupID, agencyID).Return(&models.PickupRequest{
		ID:               pickupID,
		Status:           "assigned",
		AssignedAgencyID: &agencyID,
		AssignedAt:       &now,
	}, nil)

	pickup, err := svc.UpdateStatus(ctx, pickupID, "assigned", &agencyID)
	assert.NoError(t, err)
	assert.Equal(t, "assigned", pickup.Status)
	assert.Equal(t, agencyID, *pickup.AssignedAgencyID)
}

func TestPickupService_UpdateStatus_Assign_RaceLoserGetsConflict(t *testing.T) {
	svc, pickups, agencies := newPickupService()
	ctx := context.Background()
	pickupID := uuid.New()
	winnerID := uuid.New()
	loserID := uuid.New()

	agencies.On("GetByID", ctx, loserID).Return(approvedAgency(loserID), nil)
	pickups.On("Assign", ctx, pickupID, loserID).Return(nil, repository.ErrPickupConflict)
	pickups.On("GetByID", ctx, pickupID).Return(&models.PickupRequest{
		ID:               pickupID,
		Status:           "assigned",
		AssignedAgencyID: &winnerID,
	}, nil)

	_, err := svc.UpdateStatus(ctx, pickupID, "assigned", &loserID)
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestPickupService_UpdateStatus_InvalidTransition(t *testing.T) {
	svc, pickups, _ := newPickupService()
	ctx := context.Background()
	pickupID := uuid.New()

	pickups.On("GetByID", ctx, pickupID).Return(&models.PickupRequest{
		ID:     pickupID,
		Status: "reported",
	}, nil)

	_, err := svc.UpdateStatus(ctx, pickupID, "in-progress", nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestPickupService_UpdateStatus_Complete_IncrementsJobs(t *testing.T) {
	svc, pickups, agencies := newPickupService()
	ctx := context.Background()
	pickupID := uuid.New()
	agencyID := uuid.New()
	now := time.Now()

	pickups.On("GetByID", ctx, pickupID).Return(&models.PickupRequest{
		ID:               pickupID,
		Status:           "in-progress",
		AssignedAgencyID: &agencyID,
	}, nil)
	pickups.On("TransitionStatus", ctx, pickupID, "in-progress", "completed").Return(&models.PickupRequest{
		ID:               pickupID,
		Status:           "completed",
		AssignedAgencyID: &agencyID,
		CompletedAt:      &now,
	}, nil)

	jobsDone := make(chan struct{})
	agencies.On("IncrementCompletedJobs", mock.Anything, agencyID).Return(nil).Run(func(mock.Arguments) {
		close(jobsDone)
	})

	pickup, err := svc.UpdateStatus(ctx, pickupID, "completed", nil)
	assert.NoError(t, err)
	assert.Equal(t, "completed", pickup.Status)

	select {
	case <-jobsDone:
	case <-time.After(2 * time.Second):
		t.Fatal("агентству не засчитан завершённый вывоз")
	}
}

func TestPickupService_GetPickup_NotFound(t *testing.T) {
	svc, pickups, _ := newPickupService()
	ctx := context.Background()
	pickupID := uuid.New()

	pickups.On("GetByID", ctx, pickupID).Return(nil, repository.ErrPickupNotFound)

	_, err := svc.GetPickup(ctx, pickupID)
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
