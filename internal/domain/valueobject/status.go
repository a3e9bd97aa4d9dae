package valueobject

import "github.com/ignatzorin/cleancity-backend/internal/pkg/apperror"

type ReportStatus string

const (
	ReportStatusReported   ReportStatus = "reported"
	ReportStatusAssigned   ReportStatus = "assigned"
	ReportStatusInProgress ReportStatus = "in-progress"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusRejected   ReportStatus = "rejected"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusReported, ReportStatusAssigned, ReportStatusInProgress, ReportStatusCompleted, ReportStatusRejected:
		return true
	}
	return false
}

// IsTerminal сообщает, что из статуса нет разрешённых переходов.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusCompleted || s == ReportStatusRejected
}

// CanTransitionTo проверяет переход по таблице жизненного цикла.
// Единственная боковая ветка — reported → rejected; завершённые и
// отклонённые заявки не переоткрываются.
func (s ReportStatus) CanTransitionTo(newStatus ReportStatus) bool {
	transitions := map[ReportStatus][]ReportStatus{
		ReportStatusReported:   {ReportStatusAssigned, ReportStatusRejected},
		ReportStatusAssigned:   {ReportStatusInProgress},
		ReportStatusInProgress: {ReportStatusCompleted},
		ReportStatusCompleted:  {},
		ReportStatusRejected:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewReportStatus(status string) (ReportStatus, error) {
	s := ReportStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}
	return s, nil
}

type ReportCategory string

const (
	CategoryIllegalDumping  ReportCategory = "illegal_dumping"
	CategoryOverflowingBin  ReportCategory = "overflowing_bin"
	CategoryLittering       ReportCategory = "littering"
	CategoryBlockedDrainage ReportCategory = "blocked_drainage"
	CategoryOther           ReportCategory = "other"
)

func (c ReportCategory) IsValid() bool {
	switch c {
	case CategoryIllegalDumping, CategoryOverflowingBin, CategoryLittering, CategoryBlockedDrainage, CategoryOther:
		return true
	}
	return false
}

func NewReportCategory(category string) (ReportCategory, error) {
	c := ReportCategory(category)
	if !c.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная категория заявки")
	}
	return c, nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func NewPriority(priority string) (Priority, error) {
	p := Priority(priority)
	if !p.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный приоритет")
	}
	return p, nil
}
