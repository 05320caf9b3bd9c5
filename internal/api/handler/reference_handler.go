package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/service"
	"github.com/ffi-hr/portal/internal/portal"
)

// ReferenceHandler serves the CRUD pages of the four reference entities.
// The entity comes from the :entity route segment.
type ReferenceHandler struct {
	portal PortalFunc
}

func NewReferenceHandler(current PortalFunc) *ReferenceHandler {
	return &ReferenceHandler{portal: currentPortal(current)}
}

type referenceView struct {
	Outcome crud.Outcome `json:"outcome,omitempty"`
	Page    any          `json:"page"`
}

func (h *ReferenceHandler) page(c echo.Context) (*portal.Portal, service.ReferencePage, error) {
	p, err := h.portal(c)
	if err != nil {
		return nil, nil, err
	}
	kind, err := domain.ParseReferenceKind(c.Param("entity"))
	if err != nil {
		return nil, nil, err
	}
	page, ok := p.Reference(kind)
	if !ok {
		return nil, nil, domain.ErrUnknownEntity
	}
	return p, page, nil
}

func (h *ReferenceHandler) show(c echo.Context, p *portal.Portal, page service.ReferencePage, outcome crud.Outcome) error {
	status := http.StatusOK
	if outcome != "" {
		status = outcomeStatus(outcome)
	}
	return render(c, p, status, "reference", referenceView{Outcome: outcome, Page: page.Snapshot()})
}

// Mount starts a fresh visit of the entity page.
//
// @Summary      Reference entity page
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true   "departments, positions, task-groups or sponsors"
// @Param        page    query     int     false  "Page number"
// @Success      200     {object}  View
// @Failure      404     {object}  ErrorView
// @Router       /hr/{entity} [get]
func (h *ReferenceHandler) Mount(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	if err := page.Mount(c.Request().Context(), intParam(c, "page", 1)); err != nil {
		return err
	}
	return h.show(c, p, page, "")
}

// State renders the page as it is, without loading.
//
// @Summary      Reference entity page snapshot
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true  "Entity"
// @Success      200     {object}  View
// @Router       /hr/{entity}/state [get]
func (h *ReferenceHandler) State(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	return h.show(c, p, page, "")
}

// @Summary      Change page
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true  "Entity"
// @Param        page    query     int     true  "Page number"
// @Success      200     {object}  View
// @Router       /hr/{entity}/page [post]
func (h *ReferenceHandler) SetPage(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	if err := page.SetPage(c.Request().Context(), intParam(c, "page", 1)); err != nil {
		return err
	}
	return h.show(c, p, page, "")
}

// @Summary      Retry the last load
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true  "Entity"
// @Success      200     {object}  View
// @Router       /hr/{entity}/retry [post]
func (h *ReferenceHandler) Retry(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	if err := page.Retry(c.Request().Context()); err != nil {
		return err
	}
	return h.show(c, p, page, "")
}

// @Summary      Open the create dialog
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true  "Entity"
// @Success      200     {object}  View
// @Router       /hr/{entity}/create/open [post]
func (h *ReferenceHandler) OpenCreate(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	if err := page.OpenCreate(); err != nil {
		return err
	}
	return h.show(c, p, page, "")
}

// @Summary      Close the create dialog
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true  "Entity"
// @Success      200     {object}  View
// @Router       /hr/{entity}/create/cancel [post]
func (h *ReferenceHandler) CancelCreate(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	page.CancelCreate()
	return h.show(c, p, page, "")
}

// SubmitCreate sends the create dialog.
//
// @Summary      Create a reference entity
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        entity  path      string                 true  "Entity"
// @Param        body    body      domain.ReferenceInput  true  "Entity fields"
// @Success      200     {object}  View
// @Failure      403     {object}  View
// @Failure      409     {object}  ErrorView
// @Failure      422     {object}  View
// @Router       /hr/{entity}/create [post]
func (h *ReferenceHandler) SubmitCreate(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	var in domain.ReferenceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	outcome, err := page.SubmitCreate(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return h.show(c, p, page, outcome)
}

// @Summary      Open the edit dialog
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true  "Entity"
// @Param        id      path      string  true  "Row id"
// @Success      200     {object}  View
// @Failure      404     {object}  ErrorView
// @Router       /hr/{entity}/{id}/edit/open [post]
func (h *ReferenceHandler) OpenEdit(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	if err := page.OpenEdit(c.Param("id")); err != nil {
		return err
	}
	return h.show(c, p, page, "")
}

// @Summary      Close the edit dialog
// @Tags         reference
// @Produce      json
// @Param        entity  path      string  true  "Entity"
// @Success      200     {object}  View
// @Router       /hr/{entity}/edit/cancel [post]
func (h *ReferenceHandler) CancelEdit(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	page.CancelEdit()
	return h.show(c, p, page, "")
}

// SubmitEdit sends the edit dialog for the row it was opened on.
//
// @Summary      Update a reference entity
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        entity  path      string                 true  "Entity"
// @Param        body    body      domain.ReferenceInput  true  "Entity fields"
// @Success      200     {object}  View
// @Failure      403     {object}  View
// @Failure      422     {object}  View
// @Router       /hr/{entity}/edit [post]
func (h *ReferenceHandler) SubmitEdit(c echo.Context) error {
	p, page, err := h.page(c)
	if err != nil {
		return err
	}
	var in domain.ReferenceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	outcome, err := page.SubmitEdit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return h.show(c, p, page, outcome)
}
