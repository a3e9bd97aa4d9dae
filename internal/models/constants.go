package models

// Role константы ролей пользователей
const (
	RoleCitizen = "citizen"
	RoleAgency  = "agency"
	RoleAdmin   = "admin"
)

// ReportStatus константы статусов заявок
const (
	ReportStatusReported   = "reported"
	ReportStatusAssigned   = "assigned"
	ReportStatusInProgress = "in-progress"
	ReportStatusCompleted  = "completed"
	ReportStatusRejected   = "rejected"
)

// ReportCategory константы категорий заявок
const (
	CategoryIllegalDumping  = "illegal_dumping"
	CategoryOverflowingBin  = "overflowing_bin"
	CategoryLittering       = "littering"
	CategoryBlockedDrainage = "blocked_drainage"
	CategoryOther           = "other"
)

// Priority константы приоритетов
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// PickupType константы типов запросов на вывоз
const (
	PickupTypeOnDemand  = "on-demand"
	PickupTypeScheduled = "scheduled"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleCitizen: {},
	RoleAgency:  {},
	RoleAdmin:   {},
}

// ValidPickupTypes список валидных типов вывоза
var ValidPickupTypes = map[string]struct{}{
	PickupTypeOnDemand:  {},
	PickupTypeScheduled: {},
}
