package mockbackend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

type referenceList struct {
	Items []domain.ReferenceEntity `json:"items"`
	Total int                      `json:"total"`
}

// paginate slices rows by the page and page_size query parameters.
func paginate[T any](c echo.Context, rows []T) []T {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = domain.DefaultPageSize
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

func referenceKind(c echo.Context) (domain.ReferenceKind, error) {
	kind, err := domain.ParseReferenceKind(c.Param("kind"))
	if err != nil {
		return "", failure(http.StatusNotFound, "Not found.")
	}
	return kind, nil
}

func (s *Server) listReferences(c echo.Context) error {
	kind, err := referenceKind(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	rows := s.references[kind]
	out := referenceList{Items: append([]domain.ReferenceEntity(nil), paginate(c, rows)...), Total: len(rows)}
	s.mu.Unlock()
	if out.Items == nil {
		out.Items = []domain.ReferenceEntity{}
	}
	return ok(c, http.StatusOK, out, "")
}

// checkReference validates a payload. exclude is the id being updated.
func (s *Server) checkReference(kind domain.ReferenceKind, in domain.ReferenceInput, exclude domain.ID) *apiError {
	var items []envelope.ErrorItem
	code := strings.TrimSpace(in.Code)
	switch {
	case code == "":
		items = append(items, fieldError("code", "This field is required.", "required"))
	case len(code) > 10:
		items = append(items, fieldError("code", "Ensure this field has no more than 10 characters.", "max_length"))
	default:
		for _, r := range s.references[kind] {
			if r.ID != exclude && strings.EqualFold(r.Code, code) {
				items = append(items, fieldError("code", "Code already exists", "unique"))
				break
			}
		}
	}
	if kind.NameRequired() && strings.TrimSpace(in.Name) == "" {
		items = append(items, fieldError("name", "This field is required.", "required"))
	}
	if len(items) > 0 {
		return invalid(items...)
	}
	return nil
}

func (s *Server) createReference(c echo.Context) error {
	kind, err := referenceKind(c)
	if err != nil {
		return err
	}
	var in domain.ReferenceInput
	if err := c.Bind(&in); err != nil {
		return failure(http.StatusBadRequest, "Malformed request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if verr := s.checkReference(kind, in, ""); verr != nil {
		return verr
	}
	row := domain.ReferenceEntity{ID: s.id(), Code: strings.TrimSpace(in.Code), Name: in.Name, Description: in.Description}
	s.references[kind] = append(s.references[kind], row)
	return ok(c, http.StatusCreated, row, kind.Label()+" created")
}

func (s *Server) updateReference(c echo.Context) error {
	kind, err := referenceKind(c)
	if err != nil {
		return err
	}
	var in domain.ReferenceInput
	if err := c.Bind(&in); err != nil {
		return failure(http.StatusBadRequest, "Malformed request")
	}
	id := domain.ID(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.references[kind]
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		if verr := s.checkReference(kind, in, id); verr != nil {
			return verr
		}
		rows[i].Code = strings.TrimSpace(in.Code)
		rows[i].Name = in.Name
		rows[i].Description = in.Description
		return ok(c, http.StatusOK, rows[i], kind.Label()+" updated")
	}
	return failure(http.StatusNotFound, "Not found.")
}
