package mockbackend

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

const claimsKey = "claims"

type account struct {
	user     domain.UserAccount
	password []byte
}

func (a *account) session() domain.SessionUser {
	return domain.SessionUser{ID: a.user.ID, Email: a.user.Email, Role: a.user.Role}
}

// roleFromEmail picks the role of an unknown login the way the development
// server always has.
func roleFromEmail(email string) domain.Role {
	e := strings.ToLower(email)
	switch {
	case strings.Contains(e, "admin"):
		return domain.RoleSystemAdmin
	case strings.Contains(e, "hr"):
		return domain.RoleHRManager
	}
	return domain.RoleEmployee
}

// register must be called with s.mu held, or before the server is shared.
func (s *Server) register(email, name, password string, role domain.Role) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	a := &account{
		user:     domain.UserAccount{ID: s.id(), FullName: name, Email: email, IsActive: true, Role: role},
		password: hash,
	}
	s.accounts[strings.ToLower(email)] = a
	return a, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login accepts the seeded accounts with DemoPassword. Unknown emails are
// registered on first use with the password given.
func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return failure(http.StatusBadRequest, "Malformed request")
	}
	var missing []envelope.ErrorItem
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, fieldError("email", "This field is required.", "required"))
	}
	if req.Password == "" {
		missing = append(missing, fieldError("password", "This field is required.", "required"))
	}
	if len(missing) > 0 {
		return invalid(missing...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, found := s.accounts[strings.ToLower(req.Email)]
	if !found {
		var err error
		if a, err = s.register(req.Email, req.Email, req.Password, roleFromEmail(req.Email)); err != nil {
			return err
		}
	} else if bcrypt.CompareHashAndPassword(a.password, []byte(req.Password)) != nil {
		return failure(http.StatusUnauthorized, "Invalid credentials")
	}
	if !a.user.IsActive {
		return failure(http.StatusForbidden, "Account is disabled")
	}

	token, err := s.issueToken(a)
	if err != nil {
		return err
	}
	s.log.Info().Str("email", a.user.Email).Str("role", string(a.user.Role)).Msg("login")
	return ok(c, http.StatusOK, ports.LoginResult{Token: token, User: a.session()}, "Login successful")
}

func (s *Server) issueToken(a *account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   string(a.user.ID),
		"email": a.user.Email,
		"role":  string(a.user.Role),
		"jti":   uuid.NewString(),
		"exp":   s.now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

// bearer validates the JWT and stores its claims on the context. Revoked
// tokens are rejected like expired ones.
func (s *Server) bearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return failure(http.StatusUnauthorized, "Authentication credentials were not provided.")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return failure(http.StatusUnauthorized, "Invalid authorization header")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !tkn.Valid {
			return failure(http.StatusUnauthorized, "Invalid or expired token")
		}

		jti, _ := claims["jti"].(string)
		s.mu.Lock()
		_, revoked := s.revoked[jti]
		s.mu.Unlock()
		if revoked {
			return failure(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(claimsKey, claims)
		return next(c)
	}
}

// requireRole rejects callers whose token carries none of the roles.
func requireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := c.Get(claimsKey).(jwt.MapClaims)
			role, _ := claims["role"].(string)
			if _, ok := allowed[role]; !ok {
				return failure(http.StatusForbidden, "You do not have permission to perform this action.")
			}
			return next(c)
		}
	}
}

// caller is the account behind the request's token. Callers hold s.mu.
func (s *Server) caller(c echo.Context) (*account, error) {
	claims, _ := c.Get(claimsKey).(jwt.MapClaims)
	email, _ := claims["email"].(string)
	a, found := s.accounts[strings.ToLower(email)]
	if !found {
		return nil, failure(http.StatusUnauthorized, "User no longer exists")
	}
	return a, nil
}

func (s *Server) logout(c echo.Context) error {
	claims, _ := c.Get(claimsKey).(jwt.MapClaims)
	jti, _ := claims["jti"].(string)
	s.mu.Lock()
	s.revoked[jti] = struct{}{}
	s.mu.Unlock()
	return ok(c, http.StatusOK, struct{}{}, "Logged out")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// changePassword answers field errors in the legacy map shape.
func (s *Server) changePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return failure(http.StatusBadRequest, "Malformed request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.caller(c)
	if err != nil {
		return err
	}
	var fields []envelope.FieldMessages
	if bcrypt.CompareHashAndPassword(a.password, []byte(req.CurrentPassword)) != nil {
		fields = append(fields, envelope.FieldMessages{Field: "current_password", Messages: []string{"Current password is incorrect."}})
	}
	if len(req.NewPassword) < s.settings.PasswordPolicy.MinLength {
		fields = append(fields, envelope.FieldMessages{Field: "new_password", Messages: []string{"This password is too short."}})
	}
	if len(fields) > 0 {
		return &apiError{status: http.StatusUnprocessableEntity, message: "Validation failed", details: envelope.LegacyDetails(fields...)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	a.password = hash
	return ok(c, http.StatusOK, struct{}{}, "Password changed")
}
