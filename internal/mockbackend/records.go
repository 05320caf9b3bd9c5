package mockbackend

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ffi-hr/portal/internal/core/domain"
)

type employeeList struct {
	Results []domain.Employee `json:"results"`
	Count   int               `json:"count"`
}

func (s *Server) listEmployees(c echo.Context) error {
	search := strings.ToLower(strings.TrimSpace(c.QueryParam("search")))
	status := c.QueryParam("status")
	department := c.QueryParam("department")

	s.mu.Lock()
	matched := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if search != "" && !strings.Contains(strings.ToLower(e.FullName+" "+e.Email+" "+e.EmployeeID), search) {
			continue
		}
		if status != "" && string(e.EmploymentStatus) != status {
			continue
		}
		if department != "" && !strings.EqualFold(e.Department, department) {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.Unlock()

	return ok(c, http.StatusOK, employeeList{Results: paginate(c, matched), Count: len(matched)}, "")
}

func (s *Server) findEmployee(id domain.ID) int {
	for i := range s.employees {
		if s.employees[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getEmployee(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findEmployee(domain.ID(c.Param("id")))
	if i < 0 {
		return failure(http.StatusNotFound, "Employee not found")
	}
	return ok(c, http.StatusOK, s.employees[i], "")
}

func (s *Server) bindEmployee(c echo.Context) (domain.EmployeeInput, error) {
	var in domain.EmployeeInput
	if err := c.Bind(&in); err != nil {
		return in, failure(http.StatusBadRequest, "Malformed request")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return in, invalid(fieldError("full_name", "This field is required.", "required"))
	}
	return in, nil
}

func (s *Server) createEmployee(c echo.Context) error {
	in, err := s.bindEmployee(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := domain.Employee{
		ID:               s.id(),
		EmployeeID:       in.EmployeeNumber,
		FullName:         in.FullName,
		Mobile:           in.Mobile,
		Passport:         in.PassportNo,
		EmploymentStatus: domain.EmploymentActive,
		CreatedAt:        s.now().UTC().Format(time.RFC3339),
	}
	s.employees = append(s.employees, e)
	return ok(c, http.StatusCreated, e, "Employee created")
}

func (s *Server) updateEmployee(c echo.Context) error {
	in, err := s.bindEmployee(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findEmployee(domain.ID(c.Param("id")))
	if i < 0 {
		return failure(http.StatusNotFound, "Employee not found")
	}
	e := &s.employees[i]
	e.FullName = in.FullName
	e.Mobile = in.Mobile
	e.Passport = in.PassportNo
	if in.EmployeeNumber != "" {
		e.EmployeeID = in.EmployeeNumber
	}
	e.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return ok(c, http.StatusOK, *e, "Employee updated")
}

func (s *Server) hrSummary(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := domain.HRSummary{TotalEmployees: len(s.employees)}
	for _, e := range s.employees {
		if e.EmploymentStatus == domain.EmploymentActive {
			out.ActiveEmployees++
		}
	}
	return ok(c, http.StatusOK, out, "")
}

func (s *Server) adminSummary(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out domain.AdminSummary
	for _, a := range s.accounts {
		out.Users.Total++
		if a.user.IsActive {
			out.Users.Active++
		} else {
			out.Users.Inactive++
		}
	}
	return ok(c, http.StatusOK, out, "")
}

type userList struct {
	Items []domain.UserAccount `json:"items"`
	Total int                  `json:"total"`
}

func (s *Server) listUsers(c echo.Context) error {
	role := c.QueryParam("role")
	s.mu.Lock()
	users := make([]domain.UserAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		if role != "" && string(a.user.Role) != role {
			continue
		}
		users = append(users, a.user)
	}
	s.mu.Unlock()
	slices.SortFunc(users, func(a, b domain.UserAccount) int { return strings.Compare(a.Email, b.Email) })
	return ok(c, http.StatusOK, userList{Items: paginate(c, users), Total: len(users)}, "")
}

func (s *Server) getSettings(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ok(c, http.StatusOK, s.settings, "")
}

func (s *Server) putSettings(c echo.Context) error {
	var in domain.Settings
	if err := c.Bind(&in); err != nil {
		return failure(http.StatusBadRequest, "Malformed request")
	}
	if in.PasswordPolicy.MinLength < 6 {
		return invalid(fieldError("password_policy.min_length", "Ensure this value is greater than or equal to 6.", "min_value"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	in.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	s.settings = in
	return ok(c, http.StatusOK, s.settings, "Settings updated")
}

type attendanceList struct {
	Items []domain.AttendanceRecord `json:"items"`
	Total int                       `json:"total"`
}

// myAttendance lists today's record of the caller, if any.
func (s *Server) myAttendance(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.caller(c)
	if err != nil {
		return err
	}
	out := attendanceList{Items: []domain.AttendanceRecord{}}
	if rec, found := s.attendance[a.user.ID]; found && rec.Date == s.today() {
		out.Items = append(out.Items, *rec)
		out.Total = 1
	}
	return ok(c, http.StatusOK, out, "")
}

func (s *Server) today() string { return s.now().UTC().Format(time.DateOnly) }

func (s *Server) checkIn(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.caller(c)
	if err != nil {
		return err
	}
	if rec, found := s.attendance[a.user.ID]; found && rec.Date == s.today() {
		return invalid(fieldError("", "Already checked in today.", "already_checked_in"))
	}
	now := s.now().UTC().Format(time.RFC3339)
	rec := &domain.AttendanceRecord{
		ID:              s.id(),
		EmployeeProfile: a.user.ID,
		EmployeeName:    a.user.FullName,
		EmployeeEmail:   a.user.Email,
		Date:            s.today(),
		CheckInAt:       &now,
		Status:          domain.AttendancePresent,
		Source:          domain.SourceEmployee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.attendance[a.user.ID] = rec
	return ok(c, http.StatusCreated, *rec, "Checked in")
}

func (s *Server) checkOut(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.caller(c)
	if err != nil {
		return err
	}
	rec, found := s.attendance[a.user.ID]
	if !found || rec.Date != s.today() {
		return invalid(fieldError("", "Check in first.", "not_checked_in"))
	}
	if rec.CheckOutAt != nil {
		return invalid(fieldError("", "Already checked out today.", "already_checked_out"))
	}
	now := s.now().UTC().Format(time.RFC3339)
	rec.CheckOutAt = &now
	rec.UpdatedAt = now
	return ok(c, http.StatusOK, *rec, "Checked out")
}

func (s *Server) leaveBalance(c echo.Context) error {
	return ok(c, http.StatusOK, []domain.LeaveBalance{
		{LeaveTypeID: 1, LeaveTypeName: "Annual", OpeningBalance: decimal.RequireFromString("30.00"), Used: decimal.RequireFromString("4.50"), Remaining: decimal.RequireFromString("25.50")},
		{LeaveTypeID: 2, LeaveTypeName: "Sick", OpeningBalance: decimal.RequireFromString("15.00"), Used: decimal.Zero, Remaining: decimal.RequireFromString("15.00")},
	}, "")
}
