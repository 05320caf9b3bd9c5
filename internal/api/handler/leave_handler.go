package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/domain"
)

type LeaveHandler struct {
	portal PortalFunc
}

func NewLeaveHandler(current PortalFunc) *LeaveHandler {
	return &LeaveHandler{portal: currentPortal(current)}
}

// Mine renders the caller's balances for a year, the current one by default.
//
// @Summary      My leave balances
// @Tags         leaves
// @Produce      json
// @Param        year  query     int  false  "Year"
// @Success      200   {object}  View
// @Router       /employee/leaves [get]
func (h *LeaveHandler) Mine(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	v, err := p.Leaves.MyBalances(c.Request().Context(), intParam(c, "year", 0))
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "leaves", v)
}

// Request submits a leave request.
//
// @Summary      Request leave
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LeaveRequestInput  true  "Leave request"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /employee/leaves [post]
func (h *LeaveHandler) Request(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in domain.LeaveRequestInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Leaves.Request(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, p, "leave_request", res, "Leave request submitted")
}

// Employee renders one employee's balances for HR.
//
// @Summary      Employee leave balances
// @Tags         leaves
// @Produce      json
// @Param        employee_id  query     string  true   "Employee id"
// @Param        year         query     int     false  "Year"
// @Success      200          {object}  View
// @Failure      400          {object}  ErrorView
// @Router       /hr/leave-balances [get]
func (h *LeaveHandler) Employee(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	id := c.QueryParam("employee_id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "employee_id is required")
	}
	v, err := p.Leaves.EmployeeBalances(c.Request().Context(), id, intParam(c, "year", 0))
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "leave_balances", v)
}
