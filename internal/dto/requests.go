package dto

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Role      string  `json:"role"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateStatusRequest represents the request to change a report or
// pickup request status. AgencyID is required only for the "assigned" status.
type UpdateStatusRequest struct {
	Status   string  `json:"status" binding:"required"`
	AgencyID *string `json:"agency_id"`
}

// CreatePickupRequest represents the request to create a pickup request
type CreatePickupRequest struct {
	Type          string   `json:"type" binding:"required"`
	Address       *string  `json:"address"`
	ScheduledDate *string  `json:"scheduled_date"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Notes         *string  `json:"notes"`
}

// CreateAgencyRequest represents the request to register an agency
type CreateAgencyRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  *string  `json:"description"`
	ContactEmail *string  `json:"contact_email"`
	ContactPhone *string  `json:"contact_phone"`
	ServiceAreas []string `json:"service_areas"`
}

// ApprovalRequest represents the request to approve or revoke an agency
type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

// AddMemberRequest represents the request to add a user to an agency
type AddMemberRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	IsAdmin bool   `json:"is_admin"`
}

// CreateCampaignRequest represents the request to create a campaign
type CreateCampaignRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     *string `json:"end_date"`
}
