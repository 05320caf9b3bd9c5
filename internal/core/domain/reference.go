package domain

// ReferenceKind names one of the four structurally identical lookup tables.
type ReferenceKind string

const (
	KindDepartment ReferenceKind = "departments"
	KindPosition   ReferenceKind = "positions"
	KindTaskGroup  ReferenceKind = "task-groups"
	KindSponsor    ReferenceKind = "sponsors"
)

// ReferenceKinds lists every kind in display order.
var ReferenceKinds = []ReferenceKind{KindDepartment, KindPosition, KindTaskGroup, KindSponsor}

// ParseReferenceKind maps a route segment to its kind.
func ParseReferenceKind(s string) (ReferenceKind, error) {
	for _, k := range ReferenceKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownEntity
}

// Label is the human name used in notifications.
func (k ReferenceKind) Label() string {
	switch k {
	case KindDepartment:
		return "Department"
	case KindPosition:
		return "Position"
	case KindTaskGroup:
		return "Task group"
	case KindSponsor:
		return "Sponsor"
	}
	return string(k)
}

// NameRequired is false only for sponsors, whose name is optional.
func (k ReferenceKind) NameRequired() bool { return k != KindSponsor }

// ReferenceEntity is a department, position, task group or sponsor.
type ReferenceEntity struct {
	ID          ID     `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ReferenceInput is the create/update payload for a reference entity.
type ReferenceInput struct {
	Code        string `json:"code"                  validate:"required,max=10"`
	Name        string `json:"name"                  validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// SponsorInput differs from ReferenceInput only in the optional name.
type SponsorInput struct {
	Code        string `json:"code"                  validate:"required,max=10"`
	Name        string `json:"name,omitempty"        validate:"max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}
