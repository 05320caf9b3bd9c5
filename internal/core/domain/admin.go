package domain

// UserAccount is a portal login as seen by system administrators.
type UserAccount struct {
	ID          ID     `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	Role        Role   `json:"role"`
	IsStaff     bool   `json:"is_staff,omitempty"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
}

type UserFilters struct {
	Search string `json:"search,omitempty" query:"search"`
	Role   string `json:"role,omitempty"   query:"role"   validate:"omitempty,oneof=SystemAdmin HRManager Employee"`
	Status string `json:"status,omitempty" query:"status" validate:"omitempty,oneof=active inactive"`
}

type CreateUserInput struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email"     validate:"required,email"`
	Role     Role   `json:"role"      validate:"required,oneof=SystemAdmin HRManager Employee"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// ResetMode selects how a password reset is delivered.
type ResetMode string

const (
	ResetTemporaryPassword ResetMode = "temporary_password"
	ResetLink              ResetMode = "reset_link"
)

type ResetPasswordResult struct {
	TemporaryPassword string `json:"temporary_password,omitempty"`
	ResetLink         string `json:"reset_link,omitempty"`
}

type Invite struct {
	ID           ID      `json:"id"`
	Email        string  `json:"email"`
	Role         Role    `json:"role"`
	Status       string  `json:"status"`
	SentAt       *string `json:"sent_at"`
	ExpiresAt    *string `json:"expires_at"`
	ResendCount  int     `json:"resend_count"`
	LastResentAt *string `json:"last_resent_at"`
}

type CreateInviteInput struct {
	Email          string `json:"email"                      validate:"required,email"`
	Role           Role   `json:"role"                       validate:"required,oneof=SystemAdmin HRManager Employee"`
	ExpiresInHours int    `json:"expires_in_hours,omitempty" validate:"omitempty,gt=0,lte=720"`
}

type AuditLog struct {
	ID         ID             `json:"id"`
	ActorEmail *string        `json:"actor_email"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	IPAddress  *string        `json:"ip_address"`
	CreatedAt  string         `json:"created_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type AuditFilters struct {
	Page       int    `json:"page,omitempty"        query:"page"`
	PageSize   int    `json:"page_size,omitempty"   query:"page_size"`
	Action     string `json:"action,omitempty"      query:"action"`
	ActorEmail string `json:"actor_email,omitempty" query:"actor_email"`
	Entity     string `json:"entity,omitempty"      query:"entity"`
	EntityID   string `json:"entity_id,omitempty"   query:"entity_id"`
	From       string `json:"from,omitempty"        query:"from"`
	To         string `json:"to,omitempty"          query:"to"`
	Search     string `json:"search,omitempty"      query:"search"`
}

type PasswordPolicy struct {
	MinLength      int  `json:"min_length"      validate:"gte=6,lte=128"`
	RequireUpper   bool `json:"require_upper"`
	RequireLower   bool `json:"require_lower"`
	RequireNumber  bool `json:"require_number"`
	RequireSpecial bool `json:"require_special"`
}

type Settings struct {
	PasswordPolicy PasswordPolicy `json:"password_policy"`
	Session        struct {
		TimeoutMinutes int `json:"timeout_minutes" validate:"gt=0"`
	} `json:"session"`
	Invites struct {
		DefaultExpiryHours int `json:"default_expiry_hours" validate:"gt=0"`
	} `json:"invites"`
	Security struct {
		MaxLoginAttempts int `json:"max_login_attempts" validate:"gt=0"`
	} `json:"security"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type AdminSummary struct {
	Users struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Inactive int `json:"inactive"`
	} `json:"users"`
	Invites struct {
		Total    int `json:"total"`
		Sent     int `json:"sent"`
		Expired  int `json:"expired"`
		Revoked  int `json:"revoked"`
		Accepted int `json:"accepted"`
	} `json:"invites"`
	Audit struct {
		Today           int           `json:"today"`
		Last7Days       int           `json:"last_7_days"`
		TopActionsToday []ActionCount `json:"top_actions_today,omitempty"`
	} `json:"audit"`
	ServerTime string `json:"server_time"`
}

type HRSummary struct {
	TotalEmployees  int `json:"total_employees"`
	ActiveEmployees int `json:"active_employees"`
}
