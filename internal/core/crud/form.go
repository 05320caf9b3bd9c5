package crud

// FieldKind selects the widget a form field renders as.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextArea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
	FieldDate     FieldKind = "date"
	FieldNumber   FieldKind = "number"
)

type FormField struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required,omitempty"`
	MaxLength   int       `json:"max_length,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// Form describes a dialog's fields for the rendering layer.
type Form struct {
	Title  string      `json:"title"`
	Fields []FormField `json:"fields"`
}
