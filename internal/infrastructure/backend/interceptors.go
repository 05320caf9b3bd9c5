package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/ports"
)

// Interceptor wraps a RoundTripper.
type Interceptor func(next http.RoundTripper) http.RoundTripper

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain applies interceptors so that the first one sees the request first.
func Chain(base http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	rt := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		rt = interceptors[i](rt)
	}
	return rt
}

type anonymousKey struct{}

// withoutCredentials marks ctx so Bearer leaves the stored token off. A 401
// to such a request then never reads as a session expiry.
func withoutCredentials(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func anonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// Bearer attaches the stored token. Without a token, when the store cannot
// be read, or for requests marked withoutCredentials, the request goes out
// unauthenticated.
func Bearer(tokens TokenSource, log zerolog.Logger) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		if tokens == nil {
			return next
		}
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			if anonymous(req.Context()) {
				return next.RoundTrip(req)
			}
			token, err := tokens.Token(req.Context())
			if err != nil {
				log.Warn().Err(err).Msg("token lookup failed, sending unauthenticated")
			}
			if token == "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(req)
		})
	}
}

// ExpireOnUnauthorized ends the session when the backend answers 401 for
// the token the request carried, then sends the user to login. The response
// itself still reaches the caller. A 401 to a request without a token, such
// as a failed login, is not a session expiry and passes through.
func ExpireOnUnauthorized(expirer SessionExpirer, nav ports.Navigator, expired func(), log zerolog.Logger) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}
			token := bearerToken(req)
			if token == "" {
				return resp, nil
			}

			if expirer != nil {
				did, xerr := expirer.ExpireSession(req.Context(), token)
				if xerr != nil {
					log.Error().Err(xerr).Str("path", req.URL.Path).Msg("clearing expired session failed")
				}
				if did {
					log.Info().Str("path", req.URL.Path).Msg("backend rejected session")
					if expired != nil {
						expired()
					}
				}
			}
			if nav != nil {
				nav.ToLogin(req.Context())
			}
			return resp, nil
		})
	}
}

// Instrument reports method, status and latency of every exchange.
func Instrument(observe Observer) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		if observe == nil {
			return next
		}
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			observe(req.Method, status, time.Since(start))
			return resp, err
		})
	}
}

func bearerToken(req *http.Request) string {
	h := req.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return h[7:]
	}
	return ""
}
