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

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockReportStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *mockReportStore) List(ctx context.Context, limit int) ([]models.Report, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *mockReportStore) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	args := m.Called(ctx, reporterID)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *mockReportStore) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]models.Report, error) {
	args := m.Called(ctx, agencyID)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *mockReportStore) Assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, id, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *mockReportStore) TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.Report, error) {
	args := m.Called(ctx, id, fromStatus, toStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *mockReportStore) GetStats(ctx context.Context) (*models.ReportStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportStats), args.Error(1)
}

func (m *mockReportStore) GetAgencyStats(ctx context.Context, agencyID uuid.UUID) (*models.AgencyStats, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AgencyStats), args.Error(1)
}

type mockAgencyStore struct {
	mock.Mock
}

func (m *mockAgencyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agency), args.Error(1)
}

func (m *mockAgencyStore) IncrementCompletedJobs(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRewardStore struct {
	mock.Mock
}

func (m *mockRewardStore) AddRewardPoints(ctx context.Context, userID uuid.UUID, points int) error {
	args := m.Called(ctx, userID, points)
	return args.Error(0)
}

func newReportService() (*ReportService, *mockReportStore, *mockAgencyStore, *mockRewardStore) {
	reports := new(mockReportStore)
	agencies := new(mockAgencyStore)
	users := new(mockRewardStore)
	return NewReportService(reports, agencies, users), reports, agencies, users
}

func approvedAgency(id uuid.UUID) *models.Agency {
	return &models.Agency{ID: id, Name: "Чистый двор", IsApproved: true}
}

func TestReportService_CreateReport_Defaults(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()
	reporterID := uuid.New()

	reports.On("Create", ctx, mock.AnythingOfType("*models.Report")).Return(nil)

	report, err := svc.CreateReport(ctx, CreateReportInput{
		ReporterID:  reporterID,
		Title:       "Свалка у дороги",
		Description: "Строительный мусор на обочине",
		Category:    "illegal_dumping",
	})
	assert.NoError(t, err)
	assert.Equal(t, "medium", report.Priority)
	assert.Nil(t, report.AssignedAgencyID)
	assert.Nil(t, report.AssignedAt)
	assert.Nil(t, report.CompletedAt)
	reports.AssertExpectations(t)
}

func TestReportService_CreateReport_InvalidCategory(t *testing.T) {
	svc, _, _, _ := newReportService()

	_, err := svc.CreateReport(context.Background(), CreateReportInput{
		ReporterID:  uuid.New(),
		Title:       "Свалка у дороги",
		Description: "Строительный мусор на обочине",
		Category:    "graffiti",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReportService_CreateReport_TitleTooShort(t *testing.T) {
	svc, _, _, _ := newReportService()

	_, err := svc.CreateReport(context.Background(), CreateReportInput{
		ReporterID:  uuid.New(),
		Title:       "ab",
		Description: "Строительный мусор на обочине",
		Category:    "other",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReportService_CreateReport_PartialCoordinates(t *testing.T) {
	svc, _, _, _ := newReportService()
	lat := 55.75

	_, err := svc.CreateReport(context.Background(), CreateReportInput{
		ReporterID:  uuid.New(),
		Title:       "Переполненный бак",
		Description: "Бак у подъезда не вывозили неделю",
		Category:    "overflowing_bin",
		Latitude:    &lat,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReportService_CreateReport_TooManyImages(t *testing.T) {
	svc, _, _, _ := newReportService()

	images := make([]string, MaxImagesPerReport+1)
	for i := range images {
		images[i] = "/uploads/photo.jpg"
	}

	_, err := svc.CreateReport(context.Background(), CreateReportInput{
		ReporterID:  uuid.New(),
		Title:       "Переполненный бак",
		Description: "Бак у подъезда не вывозили неделю",
		Category:    "overflowing_bin",
		ImageURLs:   images,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReportService_UpdateStatus_AssignRequiresAgency(t *testing.T) {
	svc, _, _, _ := newReportService()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "assigned", nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReportService_UpdateStatus_AgencyIDOnlyForAssign(t *testing.T) {
	svc, _, _, _ := newReportService()
	agencyID := uuid.New()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "completed", &agencyID)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReportService_UpdateStatus_Assign_Success(t *testing.T) {
	svc, reports, agencies, _ := newReportService()
	ctx := context.Background()
	reportID := uuid.New()
	agencyID := uuid.New()
	now := time.Now()

	agencies.On("GetByID", ctx, agencyID).Return(approvedAgency(agencyID), nil)
	reports.On("Assign", ctx, reportID, agencyID).Return(&models.Report{
		ID:               reportID,
		Status:           "assigned",
		AssignedAgencyID: &agencyID,
		AssignedAt:       &now,
	}, nil)

	report, err := svc.UpdateStatus(ctx, reportID, "assigned", &agencyID)
	assert.NoError(t, err)
	assert.Equal(t, "assigned", report.Status)
	assert.Equal(t, agencyID, *report.AssignedAgencyID)
	assert.NotNil(t, report.AssignedAt)
	reports.AssertExpectations(t)
	agencies.AssertExpectations(t)
}

func TestReportService_UpdateStatus_Assign_UnapprovedAgency(t *testing.T) {
	svc, _, agencies, _ := newReportService()
	ctx := context.Background()
	agencyID := uuid.New()

	agencies.On("GetByID", ctx, agencyID).Return(&models.Agency{ID: agencyID, IsApproved: false}, nil)

	_, err := svc.UpdateStatus(ctx, uuid.New(), "assigned", &agencyID)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

// Два агентства претендуют на одну заявку: побеждает первое, второе
// получает Conflict.
func TestReportService_UpdateStatus_Assign_RaceLoserGetsConflict(t *testing.T) {
	svc, reports, agencies, _ := newReportService()
	ctx := context.Background()
	reportID := uuid.New()
	winnerID := uuid.New()
	loserID := uuid.New()

	agencies.On("GetByID", ctx, loserID).Return(approvedAgency(loserID), nil)
	reports.On("Assign", ctx, reportID, loserID).Return(nil, repository.ErrReportConflict)
	reports.On("GetByID", ctx, reportID).Return(&models.Report{
		ID:               reportID,
		Status:           "assigned",
		AssignedAgencyID: &winnerID,
	}, nil)

	_, err := svc.UpdateStatus(ctx, reportID, "assigned", &loserID)
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	reports.AssertExpectations(t)
}

func TestReportService_UpdateStatus_Assign_FromTerminalStatus(t *testing.T) {
	svc, reports, agencies, _ := newReportService()
	ctx := context.Background()
	reportID := uuid.New()
	agencyID := uuid.New()

	agencies.On("GetByID", ctx, agencyID).Return(approvedAgency(agencyID), nil)
	reports.On("Assign", ctx, reportID, agencyID).Return(nil, repository.ErrReportConflict)
	reports.On("GetByID", ctx, reportID).Return(&models.Report{
		ID:     reportID,
		Status: "rejected",
	}, nil)

	_, err := svc.UpdateStatus(ctx, reportID, "assigned", &agencyID)
	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestReportService_UpdateStatus_InvalidTransition(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()
	reportID := uuid.New()

	reports.On("GetByID", ctx, reportID).Return(&models.Report{
		ID:     reportID,
		Status: "reported",
	}, nil)

	_, err := svc.UpdateStatus(ctx, reportID, "completed", nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestReportService_UpdateStatus_DoubleComplete(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()
	reportID := uuid.New()
	completedAt := time.Now()

	reports.On("GetByID", ctx, reportID).Return(&models.Report{
		ID:          reportID,
		Status:      "completed",
		CompletedAt: &completedAt,
	}, nil)

	_, err := svc.UpdateStatus(ctx, reportID, "completed", nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestReportService_UpdateStatus_Complete_AppliesCounters(t *testing.T) {
	svc, reports, agencies, users := newReportService()
	ctx := context.Background()
	reportID := uuid.New()
	agencyID := uuid.New()
	reporterID := uuid.New()
	now := time.Now()

	reports.On("GetByID", ctx, reportID).Return(&models.Report{
		ID:               reportID,
		ReporterID:       reporterID,
		Status:           "in-progress",
		AssignedAgencyID: &agencyID,
	}, nil)
	reports.On("TransitionStatus", ctx, reportID, "in-progress", "completed").Return(&models.Report{
		ID:               reportID,
		ReporterID:       reporterID,
		Status:           "completed",
		AssignedAgencyID: &agencyID,
		CompletedAt:      &now,
	}, nil)

	jobsDone := make(chan struct{})
	pointsDone := make(chan struct{})
	agencies.On("IncrementCompletedJobs", mock.Anything, agencyID).Return(nil).Run(func(mock.Arguments) {
		close(jobsDone)
	})
	users.On("AddRewardPoints", mock.Anything, reporterID, RewardPointsPerResolvedReport).Return(nil).Run(func(mock.Arguments) {
		close(pointsDone)
	})

	report, err := svc.UpdateStatus(ctx, reportID, "completed", nil)
	assert.NoError(t, err)
	assert.Equal(t, "completed", report.Status)
	assert.NotNil(t, report.CompletedAt)

	// Счётчики обновляются в фоне.
	select {
	case <-jobsDone:
	case <-time.After(2 * time.Second):
		t.Fatal("агентству не засчитана завершённая работа")
	}
	select {
	case <-pointsDone:
	case <-time.After(2 * time.Second):
		t.Fatal("жителю не начислены баллы")
	}
}

func TestReportService_UpdateStatus_TransitionConflict(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()
	reportID := uuid.New()

	reports.On("GetByID", ctx, reportID).Return(&models.Report{
		ID:     reportID,
		Status: "assigned",
	}, nil)
	reports.On("TransitionStatus", ctx, reportID, "assigned", "in-progress").
		Return(nil, repository.ErrReportConflict)

	_, err := svc.UpdateStatus(ctx, reportID, "in-progress", nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestReportService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc, _, _, _ := newReportService()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "done", nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReportService_GetReport_NotFound(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()
	reportID := uuid.New()

	reports.On("GetByID", ctx, reportID).Return(nil, repository.ErrReportNotFound)

	_, err := svc.GetReport(ctx, reportID)
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReportService_Stats(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()

	expected := &models.ReportStats{Total: 12, Resolved: 5, Pending: 4, InProgress: 3}
	reports.On("GetStats", ctx).Return(expected, nil)

	stats, err := svc.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestReportService_AgencyStats_NotFound(t *testing.T) {
	svc, reports, _, _ := newReportService()
	ctx := context.Background()
	agencyID := uuid.New()

	reports.On("GetAgencyStats", ctx, agencyID).Return(nil, repository.ErrAgencyNotFound)

	_, err := svc.AgencyStats(ctx, agencyID)
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
