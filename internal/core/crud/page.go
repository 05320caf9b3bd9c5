package crud

import (
	"context"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

// PageView is a one-shot load of a data-driven page that has no dialogs.
type PageView[V any] struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
	Data    V      `json:"data"`
}

// Fetch runs a single load and maps it onto the page-state machine. empty
// decides whether a successful payload counts as having no rows; nil means
// a successful payload is never empty. The error is non-nil only for a
// session expiry, which the transport layer turns into a redirect.
func Fetch[V any](ctx context.Context, fetch func(context.Context) (envelope.Response[V], error), empty func(V) bool) (PageView[V], error) {
	resp, err := fetch(ctx)
	if err != nil {
		switch apierror.Classify(err) {
		case apierror.KindUnauthorized:
			return PageView[V]{State: StateError, Message: "Session expired"}, err
		case apierror.KindForbidden:
			return PageView[V]{State: StateForbidden}, nil
		}
		return PageView[V]{State: StateError, Message: apierror.Message(err, loadFailed)}, nil
	}
	if !resp.OK() {
		return PageView[V]{State: StateError, Message: messageOr(resp.Message, loadFailed)}, nil
	}
	if empty != nil && empty(resp.Data) {
		return PageView[V]{State: StateEmpty, Data: resp.Data}, nil
	}
	return PageView[V]{State: StateOK, Data: resp.Data}, nil
}

// EmptyPage reports whether a list payload has no rows.
func EmptyPage[T any](p envelope.Page[T]) bool { return p.Len() == 0 }

// EmptySlice reports whether a slice payload has no rows.
func EmptySlice[T any](s []T) bool { return len(s) == 0 }

const loadFailed = "Failed to load data"

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
