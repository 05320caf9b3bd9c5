package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// ReferenceAPI implements ports.ReferenceAPI over /api/hr/<kind>/.
type ReferenceAPI struct{ c *Client }

func (c *Client) Reference() *ReferenceAPI { return &ReferenceAPI{c: c} }

func referencePath(kind domain.ReferenceKind) string {
	return "/api/hr/" + string(kind) + "/"
}

func (r *ReferenceAPI) List(ctx context.Context, kind domain.ReferenceKind, p ports.ListParams) (envelope.Response[envelope.Page[domain.ReferenceEntity]], error) {
	q := newQuery().num("page", p.Page).num("page_size", p.PageSize)
	return do[envelope.Page[domain.ReferenceEntity]](ctx, r.c, http.MethodGet, referencePath(kind), q.values(), nil)
}

func (r *ReferenceAPI) Create(ctx context.Context, kind domain.ReferenceKind, in any) (envelope.Response[domain.ReferenceEntity], error) {
	return do[domain.ReferenceEntity](ctx, r.c, http.MethodPost, referencePath(kind), nil, in)
}

func (r *ReferenceAPI) Update(ctx context.Context, kind domain.ReferenceKind, id string, in any) (envelope.Response[domain.ReferenceEntity], error) {
	return do[domain.ReferenceEntity](ctx, r.c, http.MethodPatch, referencePath(kind)+url.PathEscape(id)+"/", nil, in)
}
