// Package backend is the HTTP client of the HR REST backend.
//
// Requests pass through an interceptor chain built from RoundTrippers:
//
//	bearer ─▶ session expiry ─▶ instrumentation ─▶ otelhttp ─▶ base transport
//
// Every typed call returns the decoded envelope for 2xx responses and an
// apierror value otherwise. Nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

const (
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 10 << 20
)

// TokenSource yields the bearer token to attach, or "" for none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SessionExpirer is told about a 401 for the token a request carried.
type SessionExpirer interface {
	ExpireSession(ctx context.Context, token string) (bool, error)
}

// Observer receives one call per completed exchange.
type Observer func(method string, status int, elapsed time.Duration)

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    TokenSource
	Expirer   SessionExpirer
	Navigator ports.Navigator
	// Expired is called once for every 401 that actually ended a session.
	Expired   func()
	Observe   Observer
	Transport http.RoundTripper
	Log       zerolog.Logger
}

type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// New builds a client. Tokens, Expirer and Navigator may be nil, in which
// case requests go out unauthenticated and 401s pass through untouched.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	log := opts.Log.With().Str("component", "backend").Logger()

	rt := Chain(otelhttp.NewTransport(base),
		Bearer(opts.Tokens, log),
		ExpireOnUnauthorized(opts.Expirer, opts.Navigator, opts.Expired, log),
		Instrument(opts.Observe),
	)

	return &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{Transport: rt, Timeout: timeout},
		log:  log,
	}, nil
}

func do[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (envelope.Response[T], error) {
	var out envelope.Response[T]

	raw, status, _, err := c.exchange(ctx, method, path, query, body)
	if err != nil {
		return out, err
	}

	if status >= 200 && status < 300 {
		if len(bytes.TrimSpace(raw)) == 0 {
			return envelope.Success(out.Data, ""), nil
		}
		out, err = envelope.Decode[T](raw)
		if err != nil {
			return out, fmt.Errorf("%s %s: %w", method, path, err)
		}
		return out, nil
	}

	env, derr := envelope.Decode[json.RawMessage](raw)
	if derr != nil || env.OK() {
		env = envelope.Failure[json.RawMessage]("", envelope.ErrorDetails{})
	}
	return out, &apierror.HTTPError{Status: status, Method: method, Path: path, Envelope: env}
}

// exchange sends one request and reads the whole body.
func (c *Client) exchange(ctx context.Context, method, path string, query url.Values, body any) ([]byte, int, http.Header, error) {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, nil, &apierror.TransportError{Method: method, Path: path, Err: err}
	}
	return raw, resp.StatusCode, resp.Header, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &apierror.TransportError{Method: method, Path: path, Err: err}
	}
	return resp, nil
}

// download streams a non-envelope body such as a file export. Non-2xx
// responses are decoded as envelopes and returned as errors.
func (c *Client) download(ctx context.Context, path string, query url.Values) (io.ReadCloser, string, error) {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, resp.Header.Get("Content-Type"), nil
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	env, derr := envelope.Decode[json.RawMessage](raw)
	if derr != nil || env.OK() {
		env = envelope.Failure[json.RawMessage]("", envelope.ErrorDetails{})
	}
	return nil, "", &apierror.HTTPError{Status: resp.StatusCode, Method: http.MethodGet, Path: path, Envelope: env}
}

// Ping checks that the backend answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

var (
	_ ports.AuthAPI       = (*AuthAPI)(nil)
	_ ports.ReferenceAPI  = (*ReferenceAPI)(nil)
	_ ports.EmployeeAPI   = (*EmployeeAPI)(nil)
	_ ports.AttendanceAPI = (*AttendanceAPI)(nil)
	_ ports.LeaveAPI      = (*LeaveAPI)(nil)
	_ ports.AdminAPI      = (*AdminAPI)(nil)
)
