package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

// DashboardHandler serves the HR dashboard and the employee home page.
// The admin dashboard lives with the other admin screens.
type DashboardHandler struct {
	portal PortalFunc
}

func NewDashboardHandler(current PortalFunc) *DashboardHandler {
	return &DashboardHandler{portal: currentPortal(current)}
}

type homeView struct {
	User       *domain.SessionUser                                   `json:"user"`
	Attendance crud.PageView[envelope.Page[domain.AttendanceRecord]] `json:"attendance"`
}

// @Summary      HR dashboard
// @Tags         hr
// @Produce      json
// @Success      200  {object}  View
// @Router       /hr/dashboard [get]
func (h *DashboardHandler) HR(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	v, err := p.Admin.HRSummary(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "hr_dashboard", v)
}

// Home greets the employee with today's attendance.
//
// @Summary      Employee home
// @Tags         employee
// @Produce      json
// @Success      200  {object}  View
// @Router       /employee/home [get]
func (h *DashboardHandler) Home(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	today, err := p.Attendance.Today(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "employee_home", homeView{User: p.User(), Attendance: today})
}
