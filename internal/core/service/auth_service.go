package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/auth"
	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/guard"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next"     form:"next"     query:"next"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     form:"new_password"     validate:"required,min=8,nefield=CurrentPassword"`
}

// LoginResult is the outcome of a login attempt. Location is set only when
// the attempt succeeded.
type LoginResult struct {
	crud.Result[ports.LoginResult]
	Location string `json:"location,omitempty"`
}

// AuthService runs login, logout and password changes against the backend
// and reports the outcome to the session's auth machine.
type AuthService struct {
	api      ports.AuthAPI
	machine  *auth.Machine
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, machine *auth.Machine, v *validator.Validate, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, machine: machine, validate: v, log: log.With().Str("component", "auth_service").Logger()}
}

// Login authenticates in and moves the machine to Authenticated. A user
// record with a role the portal does not know is rejected.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	res, err := crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[ports.LoginResult], error) {
		return s.api.Login(ctx, in.Email, in.Password)
	}, "Login failed")
	out := LoginResult{Result: res}
	if apierror.Classify(err) == apierror.KindUnauthorized {
		out.Result = crud.Result[ports.LoginResult]{Outcome: crud.OutcomeFailed, Message: apierror.Message(err, "Invalid credentials")}
		return out, nil
	}
	if err != nil || res.Outcome != crud.OutcomeSaved {
		return out, err
	}

	user := res.Data.User
	if !user.Role.Valid() {
		s.log.Warn().Str("role", string(user.Role)).Msg("login returned an unknown role")
		out.Result = crud.Result[ports.LoginResult]{Outcome: crud.OutcomeFailed, Message: "Your account has no portal access"}
		return out, nil
	}
	if err := s.machine.Login(ctx, user, res.Data.Token); err != nil {
		return out, err
	}
	// The token stays out of the render data.
	out.Data = ports.LoginResult{User: user}
	out.Location = guard.AfterLogin(user, in.Next)
	s.log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("logged in")
	return out, nil
}

// Logout tells the backend on a best-effort basis and always ends the local
// session.
func (s *AuthService) Logout(ctx context.Context) error {
	if st := s.machine.Snapshot(); st.IsAuthenticated() {
		if _, err := s.api.Logout(ctx); err != nil && apierror.Classify(err) != apierror.KindUnauthorized {
			s.log.Warn().Err(err).Msg("backend logout failed")
		}
	}
	return s.machine.Logout(ctx)
}

// ChangePassword submits a password change. Field errors in either of the
// backend's error shapes come back on the form.
func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) (crud.Result[struct{}], error) {
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[struct{}], error) {
		return s.api.ChangePassword(ctx, in.CurrentPassword, in.NewPassword)
	}, "Failed to change password")
}

// Me is the current session user, or ErrSessionExpired for a session that
// is not authenticated. The partial session yields a nil user.
func (s *AuthService) Me() (*domain.SessionUser, error) {
	st := s.machine.Snapshot()
	if !st.IsAuthenticated() {
		return nil, domain.ErrSessionExpired
	}
	return st.User, nil
}
