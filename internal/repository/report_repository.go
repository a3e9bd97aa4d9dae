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

// DefaultListLimit ограничивает публичные выборки заявок.
const DefaultListLimit = 50

// Ошибки уровня репозитория.
var (
	ErrReportNotFound = errors.New("report not found")
	// ErrReportConflict возвращается, когда условное обновление не прошло:
	// заявка уже принята другим агентством или её статус успел измениться.
	ErrReportConflict = errors.New("report state changed concurrently")
)

// ReportRepository отвечает за работу с заявками о мусоре.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository создаёт новый экземпляр.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create сохраняет заявку. Статус всегда стартует с reported.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.Priority == "" {
		report.Priority = models.PriorityMedium
	}
	if report.ImageURLs == nil {
		report.ImageURLs = []string{}
	}

	query := `
		INSERT INTO reports (reporter_id, title, description, category, priority, latitude, longitude, address, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		report.ReporterID,
		report.Title,
		report.Description,
		report.Category,
		report.Priority,
		report.Latitude,
		report.Longitude,
		report.Address,
		report.ImageURLs,
	).Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("report repository: create %w", err)
	}
	return nil
}

// GetByID возвращает заявку по идентификатору.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return common.GetByID[models.Report](ctx, r.db, "reports", id, ErrReportNotFound)
}

// List возвращает последние заявки, не больше limit.
func (r *ReportRepository) List(ctx context.Context, limit int) ([]models.Report, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("report repository: list %w", err)
	}
	return reports, nil
}

// ListByReporter возвращает заявки конкретного жителя.
func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports WHERE reporter_id = $1 ORDER BY created_at DESC
	`, reporterID)
	if err != nil {
		return nil, fmt.Errorf("report repository: list by reporter %w", err)
	}
	return reports, nil
}

// ListByAgency возвращает заявки, закреплённые за агентством.
func (r *ReportRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports WHERE assigned_agency_id = $1 ORDER BY created_at DESC
	`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("report repository: list by agency %w", err)
	}
	return reports, nil
}

// Assign закрепляет заявку за агентством атомарно: условие в WHERE гарантирует,
// что из двух конкурирующих агентств выигрывает ровно одно, а assigned_agency_id
// и assigned_at записываются один раз и больше не перезаписываются.
func (r *ReportRepository) Assign(ctx context.Context, id uuid.UUID, agencyID uuid.UUID) (*models.Report, error) {
	var report models.Report
	query := `
		UPDATE reports
		SET status = 'assigned', assigned_agency_id = $2, assigned_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'reported' AND assigned_agency_id IS NULL
		RETURNING *
	`
	err := r.db.GetContext(ctx, &report, query, id, agencyID)
	if err == nil {
		return &report, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report repository: assign %w", err)
	}

	// Ни одной строки: либо заявки нет, либо проиграна гонка за назначение.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrReportConflict
}

// TransitionStatus переводит заявку из fromStatus в toStatus. Условие по
// текущему статусу защищает от одновременных переходов; completed_at
// проставляется только при завершении и только один раз.
func (r *ReportRepository) TransitionStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.Report, error) {
	var report models.Report
	query := `
		UPDATE reports
		SET status = $3,
		    completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	`
	err := r.db.GetContext(ctx, &report, query, id, fromStatus, toStatus)
	if err == nil {
		return &report, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report repository: transition status %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrReportConflict
}

// GetStats считает глобальные счётчики одним запросом.
func (r *ReportRepository) GetStats(ctx context.Context) (*models.ReportStats, error) {
	var stats models.ReportStats
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'completed') AS resolved,
		       COUNT(*) FILTER (WHERE status = 'reported') AS pending,
		       COUNT(*) FILTER (WHERE status = 'in-progress') AS in_progress
		FROM reports
	`
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("report repository: stats %w", err)
	}
	return &stats, nil
}

// GetAgencyStats считает сводку по агентству. Среднее время отклика —
// mean(assigned_at - created_at) в часах по принятым заявкам.
func (r *ReportRepository) GetAgencyStats(ctx context.Context, agencyID uuid.UUID) (*models.AgencyStats, error) {
	var stats models.AgencyStats

	row := struct {
		ActiveRequests int              `db:"active_requests"`
		CompletedToday int              `db:"completed_today"`
		AvgResponse    *float64         `db:"avg_response_hours"`
	}{}

	query := `
		SELECT COUNT(*) FILTER (WHERE status IN ('assigned', 'in-progress')) AS active_requests,
		       COUNT(*) FILTER (WHERE status = 'completed' AND completed_at >= date_trunc('day', NOW())) AS completed_today,
		       AVG(EXTRACT(EPOCH FROM (assigned_at - created_at)) / 3600.0) FILTER (WHERE assigned_at IS NOT NULL) AS avg_response_hours
		FROM reports
		WHERE assigned_agency_id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, agencyID); err != nil {
		return nil, fmt.Errorf("report repository: agency stats %w", err)
	}

	stats.ActiveRequests = row.ActiveRequests
	stats.CompletedToday = row.CompletedToday
	if row.AvgResponse != nil {
		stats.AvgResponseTimeHours = *row.AvgResponse
	}

	var rating float64
	if err := r.db.GetContext(ctx, &rating, `SELECT rating FROM agencies WHERE id = $1`, agencyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgencyNotFound
		}
		return nil, fmt.Errorf("report repository: agency rating %w", err)
	}
	stats.Rating = rating

	return &stats, nil
}
