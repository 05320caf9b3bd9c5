package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Role is one of the three portal roles. Authorization is set membership,
// no ordering between roles is implied.
type Role string

const (
	RoleSystemAdmin Role = "SystemAdmin"
	RoleHRManager   Role = "HRManager"
	RoleEmployee    Role = "Employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleHRManager, RoleEmployee:
		return true
	}
	return false
}

// ID is a backend identifier. The backend mixes numeric and string ids, so
// both decode into the same string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Int returns the numeric form of the id, or 0 when it is not numeric.
func (id ID) Int() int64 {
	n, _ := strconv.ParseInt(string(id), 10, 64)
	return n
}

// SessionUser is the minimal user record cached next to the token.
type SessionUser struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// HasRole reports whether the user holds one of the given roles. A nil user
// never does.
func (u *SessionUser) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
