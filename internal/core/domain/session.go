package domain

import "encoding/json"

// storedUserVersion is the schema version of the persisted user record.
const storedUserVersion = 1

type storedUser struct {
	V     int    `json:"v"`
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// EncodeStoredUser serializes u as the versioned {v,id,email,role} record.
func EncodeStoredUser(u SessionUser) ([]byte, error) {
	return json.Marshal(storedUser{V: storedUserVersion, ID: u.ID, Email: u.Email, Role: u.Role})
}

// DecodeStoredUser parses a persisted user record. Records that are
// malformed or carry another version read as absent.
func DecodeStoredUser(b []byte) *SessionUser {
	if len(b) == 0 {
		return nil
	}
	var s storedUser
	if err := json.Unmarshal(b, &s); err != nil || s.V != storedUserVersion {
		return nil
	}
	return &SessionUser{ID: s.ID, Email: s.Email, Role: s.Role}
}
