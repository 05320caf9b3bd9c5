package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/domain"
)

type AttendanceHandler struct {
	portal PortalFunc
}

func NewAttendanceHandler(current PortalFunc) *AttendanceHandler {
	return &AttendanceHandler{portal: currentPortal(current)}
}

// Today renders the caller's attendance for the current day.
//
// @Summary      Today's attendance
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  View
// @Router       /employee/attendance [get]
func (h *AttendanceHandler) Today(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	v, err := p.Attendance.Today(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "attendance_today", v)
}

// @Summary      Check in
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  View
// @Router       /employee/attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	res, err := p.Attendance.CheckIn(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, p, "attendance_today", res, "Checked in")
}

// @Summary      Check out
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  View
// @Router       /employee/attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	res, err := p.Attendance.CheckOut(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, p, "attendance_today", res, "Checked out")
}

// List is the HR attendance list.
//
// @Summary      Attendance records
// @Tags         attendance
// @Produce      json
// @Param        date_from    query     string  false  "YYYY-MM-DD"
// @Param        date_to      query     string  false  "YYYY-MM-DD"
// @Param        status       query     string  false  "PRESENT, ABSENT or LATE"
// @Param        employee_id  query     string  false  "Employee id"
// @Param        page         query     int     false  "Page number"
// @Param        page_size    query     int     false  "Page size"
// @Success      200          {object}  View
// @Failure      422          {object}  ErrorView
// @Router       /hr/attendance [get]
func (h *AttendanceHandler) List(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var f domain.AttendanceFilters
	if err := bind(c, &f); err != nil {
		return err
	}
	v, err := p.Attendance.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "attendance", v)
}

// Override corrects one record. The reason is mandatory.
//
// @Summary      Override attendance
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Record id"
// @Param        body  body      domain.AttendanceOverride  true  "Correction"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /hr/attendance/{id} [patch]
func (h *AttendanceHandler) Override(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in domain.AttendanceOverride
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Attendance.Override(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return respond(c, p, "attendance_record", res, "Attendance updated")
}
