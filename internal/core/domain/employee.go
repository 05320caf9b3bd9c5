package domain

// EmploymentStatus is the lifecycle state of an employee record.
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "ACTIVE"
	EmploymentSuspended  EmploymentStatus = "SUSPENDED"
	EmploymentTerminated EmploymentStatus = "TERMINATED"
)

// Employee is a row of the HR employee directory.
type Employee struct {
	ID               ID               `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	UserID           ID               `json:"user_id"`
	FullName         string           `json:"full_name"`
	Email            string           `json:"email"`
	Mobile           string           `json:"mobile,omitempty"`
	Passport         string           `json:"passport,omitempty"`
	Department       string           `json:"department,omitempty"`
	JobTitle         string           `json:"job_title,omitempty"`
	Position         string           `json:"position,omitempty"`
	TaskGroup        string           `json:"task_group,omitempty"`
	Sponsor          string           `json:"sponsor,omitempty"`
	EmploymentStatus EmploymentStatus `json:"employment_status,omitempty"`
	HireDate         string           `json:"hire_date,omitempty"`
	ManagerID        ID               `json:"manager_id,omitempty"`
	ManagerName      string           `json:"manager_name,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

// EmployeeInput is the create/update payload. Dates are YYYY-MM-DD.
type EmployeeInput struct {
	FullName       string `json:"full_name"                 validate:"required,max=200"`
	EmployeeNumber string `json:"employee_number,omitempty" validate:"max=30"`
	Nationality    string `json:"nationality,omitempty"`
	PassportNo     string `json:"passport_no,omitempty"`
	PassportExpiry string `json:"passport_expiry,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NationalID     string `json:"national_id,omitempty"`
	IDExpiry       string `json:"id_expiry,omitempty"       validate:"omitempty,datetime=2006-01-02"`
	DateOfBirth    string `json:"date_of_birth,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	Mobile         string `json:"mobile,omitempty"`

	DepartmentID    int64   `json:"department_id,omitempty"`
	PositionID      int64   `json:"position_id,omitempty"`
	TaskGroupID     int64   `json:"task_group_id,omitempty"`
	SponsorID       int64   `json:"sponsor_id,omitempty"`
	JobOffer        string  `json:"job_offer,omitempty"`
	JoinDate        string  `json:"join_date,omitempty"        validate:"omitempty,datetime=2006-01-02"`
	ContractDate    string  `json:"contract_date,omitempty"    validate:"omitempty,datetime=2006-01-02"`
	ContractExpiry  string  `json:"contract_expiry,omitempty"  validate:"omitempty,datetime=2006-01-02"`
	AllowedOvertime float64 `json:"allowed_overtime,omitempty" validate:"gte=0"`

	HealthCard       string `json:"health_card,omitempty"`
	HealthCardExpiry string `json:"health_card_expiry,omitempty" validate:"omitempty,datetime=2006-01-02"`

	BasicSalary             float64 `json:"basic_salary,omitempty"             validate:"gte=0"`
	TransportationAllowance float64 `json:"transportation_allowance,omitempty" validate:"gte=0"`
	AccommodationAllowance  float64 `json:"accommodation_allowance,omitempty"  validate:"gte=0"`
	TelephoneAllowance      float64 `json:"telephone_allowance,omitempty"      validate:"gte=0"`
	PetrolAllowance         float64 `json:"petrol_allowance,omitempty"         validate:"gte=0"`
	OtherAllowance          float64 `json:"other_allowance,omitempty"          validate:"gte=0"`
	TotalSalary             float64 `json:"total_salary,omitempty"             validate:"gte=0"`
}

// EmployeeFilters are the list filters sent to the backend as query params.
type EmployeeFilters struct {
	Department string `json:"department,omitempty" bson:"department,omitempty" query:"department"`
	Position   string `json:"position,omitempty"   bson:"position,omitempty"   query:"position"`
	TaskGroup  string `json:"task_group,omitempty" bson:"task_group,omitempty" query:"task_group"`
	Sponsor    string `json:"sponsor,omitempty"    bson:"sponsor,omitempty"    query:"sponsor"`
	Status     string `json:"status,omitempty"     bson:"status,omitempty"     query:"status"`
}

// DefaultPageSize is used by every paginated list unless overridden.
const DefaultPageSize = 25

// EmployeeListState is the persisted filter state of the employee directory.
type EmployeeListState struct {
	Search   string          `json:"search"`
	Filters  EmployeeFilters `json:"filters"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// DefaultEmployeeListState is the state after a reset.
func DefaultEmployeeListState() EmployeeListState {
	return EmployeeListState{Page: 1, PageSize: DefaultPageSize}
}

// WithSearch sets the search term and returns to the first page.
func (s EmployeeListState) WithSearch(search string) EmployeeListState {
	s.Search = search
	s.Page = 1
	return s
}

// WithFilters merges non-empty filter values and returns to the first page.
// A value of "-" clears that filter.
func (s EmployeeListState) WithFilters(f EmployeeFilters) EmployeeListState {
	merge := func(dst *string, v string) {
		switch v {
		case "":
		case "-":
			*dst = ""
		default:
			*dst = v
		}
	}
	merge(&s.Filters.Department, f.Department)
	merge(&s.Filters.Position, f.Position)
	merge(&s.Filters.TaskGroup, f.TaskGroup)
	merge(&s.Filters.Sponsor, f.Sponsor)
	merge(&s.Filters.Status, f.Status)
	s.Page = 1
	return s
}

// WithPage moves to page p (values below 1 clamp to 1).
func (s EmployeeListState) WithPage(p int) EmployeeListState {
	if p < 1 {
		p = 1
	}
	s.Page = p
	return s
}

// WithPageSize changes the page size and returns to the first page.
func (s EmployeeListState) WithPageSize(n int) EmployeeListState {
	if n <= 0 {
		n = DefaultPageSize
	}
	s.PageSize = n
	s.Page = 1
	return s
}
