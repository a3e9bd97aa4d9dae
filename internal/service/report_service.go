package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/cleancity-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cleancity-backend/internal/goroutine"
	"github.com/ignatzorin/cleancity-backend/internal/logger"
	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cleancity-backend/internal/repository"
	"github.com/ignatzorin/cleancity-backend/internal/validation"
)

// RewardPointsPerResolvedReport — сколько баллов получает житель,
// когда его заявка доведена до completed.
const RewardPointsPerResolvedReport = 10

// MaxImagesPerReport — жёсткий лимит фотографий на одну заявку.
const MaxImagesPerReport = 5

// ReportStore описывает зависимости сервиса от слоя хранилища.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, limit int) ([]models.Report, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]models.Report, error)
	Assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.Report, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.Report, error)
	GetStats(ctx context.Context) (*models.ReportStats, error)
	GetAgencyStats(ctx context.Context, agencyID uuid.UUID) (*models.AgencyStats, error)
}

// AgencyStore — доступ к агентствам, нужный жизненному циклу заявки.
type AgencyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Agency, error)
	IncrementCompletedJobs(ctx context.Context, id uuid.UUID) error
}

// RewardStore начисляет баллы жителям.
type RewardStore interface {
	AddRewardPoints(ctx context.Context, userID uuid.UUID, points int) error
}

// EventNotifier рассылает события жизненного цикла подключённым клиентам.
type EventNotifier interface {
	Broadcast(event string, data any)
}

// ReportService реализует жизненный цикл заявки: создание, переходы по
// таблице статусов и побочные счётчики.
type ReportService struct {
	reports  ReportStore
	agencies AgencyStore
	users    RewardStore
	hub      EventNotifier
}

// NewReportService создаёт сервис заявок.
func NewReportService(reports ReportStore, agencies AgencyStore, users RewardStore) *ReportService {
	return &ReportService{
		reports:  reports,
		agencies: agencies,
		users:    users,
	}
}

// SetHub подключает рассылку событий (может не вызываться в тестах).
func (s *ReportService) SetHub(hub EventNotifier) {
	s.hub = hub
}

// CreateReportInput содержит данные новой заявки.
type CreateReportInput struct {
	ReporterID  uuid.UUID
	Title       string
	Description string
	Category    string
	Priority    string
	Latitude    *float64
	Longitude   *float64
	Address     *string
	ImageURLs   []string
}

// CreateReport валидирует вход и сохраняет заявку в статусе reported.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if err := validation.ValidateLength("заголовок", in.Title, validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MinDescriptionLength, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	category, err := valueobject.NewReportCategory(in.Category)
	if err != nil {
		return nil, err
	}

	priority := valueobject.PriorityMedium
	if in.Priority != "" {
		priority, err = valueobject.NewPriority(in.Priority)
		if err != nil {
			return nil, err
		}
	}

	if err := validation.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if len(in.ImageURLs) > MaxImagesPerReport {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("к заявке можно прикрепить не более %d фотографий", MaxImagesPerReport))
	}

	report := &models.Report{
		ReporterID:  in.ReporterID,
		Title:       in.Title,
		Description: in.Description,
		Category:    string(category),
		Priority:    string(priority),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Address:     in.Address,
		ImageURLs:   in.ImageURLs,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.notify("report.created", report)
	return report, nil
}

// GetReport возвращает заявку по идентификатору.
func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, apperror.ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// ListReports возвращает последние заявки.
func (s *ReportService) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	return s.reports.List(ctx, limit)
}

// ListMyReports возвращает заявки жителя.
func (s *ReportService) ListMyReports(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	return s.reports.ListByReporter(ctx, reporterID)
}

// ListAgencyReports возвращает заявки агентства.
func (s *ReportService) ListAgencyReports(ctx context.Context, agencyID uuid.UUID) ([]models.Report, error) {
	return s.reports.ListByAgency(ctx, agencyID)
}

// UpdateStatus выполняет переход заявки по таблице жизненного цикла.
//   - переход в assigned требует agencyID и выполняется условным обновлением:
//     из конкурирующих агентств выигрывает одно, остальные получают Conflict;
//   - agencyID при любом другом целевом статусе — ошибка валидации;
//   - запрещённые переходы (включая повторный completed) отклоняются
//     с InvalidTransition, completed_at никогда не проставляется повторно.
func (s *ReportService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, agencyID *uuid.UUID) (*models.Report, error) {
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

	report, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	current := valueobject.ReportStatus(report.Status)
	if !current.CanTransitionTo(newStatus) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition,
			fmt.Sprintf("переход %s → %s запрещён", current, newStatus))
	}

	updated, err := s.reports.TransitionStatus(ctx, id, string(current), string(newStatus))
	if err != nil {
		if errors.Is(err, repository.ErrReportConflict) {
			return nil, apperror.New(apperror.ErrCodeConflict, "статус заявки изменился, повторите запрос")
		}
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, apperror.ErrReportNotFound
		}
		return nil, err
	}

	if newStatus == valueobject.ReportStatusCompleted {
		s.applyCompletionCounters(updated)
	}

	s.notify("report.status_changed", updated)
	return updated, nil
}

// assign закрепляет заявку за подтверждённым агентством.
func (s *ReportService) assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.Report, error) {
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

	report, err := s.reports.Assign(ctx, id, agencyID)
	if err == nil {
		s.notify("report.status_changed", report)
		return report, nil
	}

	if errors.Is(err, repository.ErrReportNotFound) {
		return nil, apperror.ErrReportNotFound
	}
	if !errors.Is(err, repository.ErrReportConflict) {
		return nil, err
	}

	// Условное обновление не прошло. Разбираемся, почему: проигранная гонка
	// за назначение отличается от запрещённого перехода.
	current, getErr := s.GetReport(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.AssignedAgencyID != nil {
		return nil, apperror.ErrAlreadyAssigned
	}
	return nil, apperror.New(apperror.ErrCodeInvalidTransition,
		fmt.Sprintf("переход %s → assigned запрещён", current.Status))
}

// applyCompletionCounters обновляет счётчики после завершения заявки:
// агентству засчитывается работа, жителю начисляются баллы. Счётчики не
// участвуют в транзакции перехода; ошибка здесь не откатывает завершение.
func (s *ReportService) applyCompletionCounters(report *models.Report) {
	agencyID := report.AssignedAgencyID
	reporterID := report.ReporterID

	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if agencyID != nil {
			if err := s.agencies.IncrementCompletedJobs(ctx, *agencyID); err != nil {
				logError("report service: не удалось обновить completed_jobs", err)
			}
		}
		if err := s.users.AddRewardPoints(ctx, reporterID, RewardPointsPerResolvedReport); err != nil {
			logError("report service: не удалось начислить баллы", err)
		}
	})
}

// Stats возвращает глобальные счётчики по заявкам.
func (s *ReportService) Stats(ctx context.Context) (*models.ReportStats, error) {
	return s.reports.GetStats(ctx)
}

// AgencyStats возвращает сводку по агентству.
func (s *ReportService) AgencyStats(ctx context.Context, agencyID uuid.UUID) (*models.AgencyStats, error) {
	stats, err := s.reports.GetAgencyStats(ctx, agencyID)
	if err != nil {
		if errors.Is(err, repository.ErrAgencyNotFound) {
			return nil, apperror.ErrAgencyNotFound
		}
		return nil, err
	}
	return stats, nil
}

func (s *ReportService) notify(event string, data any) {
	if s.hub != nil {
		s.hub.Broadcast(event, data)
	}
}

func logError(msg string, err error) {
	if logger.Log != nil {
		logger.Log.WithField("error", err.Error()).Error(msg)
	}
}
