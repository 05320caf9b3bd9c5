package domain

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

type AttendanceSource string

const (
	SourceEmployee AttendanceSource = "EMPLOYEE"
	SourceHR       AttendanceSource = "HR"
	SourceSystem   AttendanceSource = "SYSTEM"
)

// AttendanceRecord is one employee-day.
type AttendanceRecord struct {
	ID              ID               `json:"id"`
	EmployeeProfile ID               `json:"employee_profile"`
	EmployeeName    string           `json:"employee_name,omitempty"`
	EmployeeEmail   string           `json:"employee_email,omitempty"`
	Date            string           `json:"date"`
	CheckInAt       *string          `json:"check_in_at"`
	CheckOutAt      *string          `json:"check_out_at"`
	Status          AttendanceStatus `json:"status"`
	Source          AttendanceSource `json:"source"`
	IsOverridden    bool             `json:"is_overridden"`
	Notes           string           `json:"notes,omitempty"`
	OverrideReason  string           `json:"override_reason,omitempty"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// AttendanceFilters are the HR attendance list query params.
type AttendanceFilters struct {
	DateFrom   string `json:"date_from,omitempty"   query:"date_from"   validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `json:"date_to,omitempty"     query:"date_to"     validate:"omitempty,datetime=2006-01-02"`
	Status     string `json:"status,omitempty"      query:"status"      validate:"omitempty,oneof=PRESENT ABSENT LATE"`
	EmployeeID string `json:"employee_id,omitempty" query:"employee_id"`
	Page       int    `json:"page,omitempty"        query:"page"`
	PageSize   int    `json:"page_size,omitempty"   query:"page_size"`
}

// AttendanceOverride is an HR correction of a record.
type AttendanceOverride struct {
	Status         AttendanceStatus `json:"status,omitempty"       validate:"omitempty,oneof=PRESENT ABSENT LATE"`
	CheckInAt      *string          `json:"check_in_at,omitempty"`
	CheckOutAt     *string          `json:"check_out_at,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	OverrideReason string           `json:"override_reason"        validate:"required,max=500"`
}
