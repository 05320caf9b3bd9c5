package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/service"
	"github.com/ffi-hr/portal/internal/portal"
)

type EmployeeHandler struct {
	portal PortalFunc
}

func NewEmployeeHandler(current PortalFunc) *EmployeeHandler {
	return &EmployeeHandler{portal: currentPortal(current)}
}

// owner is the user whose filter state the directory uses. The role gate
// keeps sessions without a user record out of these routes.
func owner(p *portal.Portal) (string, error) {
	u := p.User()
	if u == nil {
		return "", domain.ErrForbidden
	}
	return u.ID.String(), nil
}

// List renders the directory with the caller's stored filters.
//
// @Summary      Employee directory
// @Tags         employees
// @Produce      json
// @Success      200  {object}  View
// @Router       /hr/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	userID, err := owner(p)
	if err != nil {
		return err
	}
	v, err := p.Employees.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "employees", v)
}

// Filters applies a filter bar edit and renders the list it selects.
//
// @Summary      Update directory filters
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body      service.FilterChange  true  "Filter change"
// @Success      200   {object}  View
// @Router       /hr/employees/filters [post]
func (h *EmployeeHandler) Filters(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	userID, err := owner(p)
	if err != nil {
		return err
	}
	var change service.FilterChange
	if err := c.Bind(&change); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	ctx := c.Request().Context()
	if _, err := p.Employees.ApplyFilters(ctx, userID, change); err != nil {
		return err
	}
	v, err := p.Employees.List(ctx, userID)
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "employees", v)
}

// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body      domain.EmployeeInput  true  "Employee"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /hr/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in domain.EmployeeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Employees.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, p, "employee", res, "Employee created")
}

// @Summary      Employee detail
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  View
// @Router       /hr/employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	v, err := p.Employees.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "employee", v)
}

// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Employee id"
// @Param        body  body      domain.EmployeeInput  true  "Employee"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /hr/employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in domain.EmployeeInput
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Employees.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return respond(c, p, "employee", res, "Employee updated")
}
