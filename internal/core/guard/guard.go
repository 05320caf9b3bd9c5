// Package guard decides whether a navigation may proceed.
//
// Gates run top-down: Identity first, then Role. Each returns a Result that
// the transport layer turns into a render or a redirect.
package guard

import (
	"net/url"
	"strings"

	"github.com/ffi-hr/portal/internal/core/auth"
	"github.com/ffi-hr/portal/internal/core/domain"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Decision is the outcome of a gate.
type Decision int

const (
	Allow Decision = iota
	Redirect
	Wait
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "wait"
}

type Result struct {
	Decision Decision
	Location string
}

// Route role sets.
var (
	AdminOnly     = []domain.Role{domain.RoleSystemAdmin}
	HRStaff       = []domain.Role{domain.RoleHRManager, domain.RoleSystemAdmin}
	AnyPortalRole = []domain.Role{domain.RoleEmployee, domain.RoleSystemAdmin, domain.RoleHRManager}
)

// Identity lets authenticated sessions through. A session still in Unknown
// with a stored token waits for hydration instead of bouncing to login. Once
// the state has resolved to Unauthenticated a leftover token no longer counts.
func Identity(st auth.State, tokenStored bool, attempted string) Result {
	if st.IsAuthenticated() {
		return Result{Decision: Allow}
	}
	if st.Status == auth.StatusUnknown && tokenStored {
		return Result{Decision: Wait}
	}
	return Result{Decision: Redirect, Location: LoginLocation(attempted)}
}

// Role lets a session through only when it has a user record whose role is
// in allowed. Partial sessions (no user) are always denied.
func Role(st auth.State, allowed ...domain.Role) Result {
	if st.IsAuthenticated() && st.User.HasRole(allowed...) {
		return Result{Decision: Allow}
	}
	return Result{Decision: Redirect, Location: UnauthorizedPath}
}

// Evaluate runs the identity gate and, when roles are given, the role gate.
func Evaluate(st auth.State, tokenStored bool, attempted string, roles ...domain.Role) Result {
	if r := Identity(st, tokenStored, attempted); r.Decision != Allow {
		return r
	}
	if len(roles) == 0 {
		return Result{Decision: Allow}
	}
	return Role(st, roles...)
}

// LoginLocation is the login URL that returns to attempted after sign-in.
func LoginLocation(attempted string) string {
	next := SafeNext(attempted)
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns attempted when it is a same-origin path worth returning
// to, and "" otherwise.
func SafeNext(attempted string) string {
	if !strings.HasPrefix(attempted, "/") || strings.HasPrefix(attempted, "//") || strings.HasPrefix(attempted, "/\\") {
		return ""
	}
	u, err := url.Parse(attempted)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	if u.Path == LoginPath || u.Path == "/" {
		return ""
	}
	return attempted
}

// Landing is the home page of a role.
func Landing(role domain.Role) string {
	switch role {
	case domain.RoleSystemAdmin:
		return "/admin/dashboard"
	case domain.RoleHRManager:
		return "/hr/dashboard"
	}
	return "/employee/home"
}

// AfterLogin is where a fresh session goes: back to next when it is safe,
// otherwise to the role's landing page.
func AfterLogin(user domain.SessionUser, next string) string {
	if n := SafeNext(next); n != "" && n != UnauthorizedPath {
		return n
	}
	return Landing(user.Role)
}
