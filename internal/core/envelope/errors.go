package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorItem is one entry of the current error contract.
type ErrorItem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Shape tells which wire form the error details arrived in.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeList
	ShapeLegacyMap
)

// FieldMessages is one key of the legacy map shape.
type FieldMessages struct {
	Field    string
	Messages []string
}

// ErrorDetails holds either the list shape or the legacy map shape, with map
// keys in the order they appeared on the wire.
type ErrorDetails struct {
	shape  Shape
	list   []ErrorItem
	legacy []FieldMessages
}

// ListDetails builds list-shaped details.
func ListDetails(items ...ErrorItem) ErrorDetails {
	if len(items) == 0 {
		return ErrorDetails{}
	}
	return ErrorDetails{shape: ShapeList, list: items}
}

// LegacyDetails builds map-shaped details.
func LegacyDetails(fields ...FieldMessages) ErrorDetails {
	if len(fields) == 0 {
		return ErrorDetails{}
	}
	return ErrorDetails{shape: ShapeLegacyMap, legacy: fields}
}

func (d ErrorDetails) Shape() Shape { return d.shape }

// List returns the entries of list-shaped details, nil otherwise.
func (d ErrorDetails) List() []ErrorItem {
	if d.shape != ShapeList {
		return nil
	}
	return d.list
}

// Legacy returns the keys of map-shaped details, nil otherwise.
func (d ErrorDetails) Legacy() []FieldMessages {
	if d.shape != ShapeLegacyMap {
		return nil
	}
	return d.legacy
}

// Empty reports whether there are no entries at all.
func (d ErrorDetails) Empty() bool {
	return len(d.list) == 0 && len(d.legacy) == 0
}

// Items returns the details in the list form. A legacy key with two messages
// becomes two items for that field.
func (d ErrorDetails) Items() []ErrorItem {
	switch d.shape {
	case ShapeList:
		out := make([]ErrorItem, len(d.list))
		copy(out, d.list)
		return out
	case ShapeLegacyMap:
		var out []ErrorItem
		for _, f := range d.legacy {
			for _, m := range f.Messages {
				out = append(out, ErrorItem{Field: f.Field, Message: m})
			}
		}
		return out
	}
	return nil
}

// Normalized returns list-shaped details with the same entries.
func (d ErrorDetails) Normalized() ErrorDetails {
	return ListDetails(d.Items()...)
}

func (d *ErrorDetails) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*d = ErrorDetails{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '[':
		return d.decodeList(b)
	case '{':
		return d.decodeLegacy(b)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = ListDetails(ErrorItem{Message: s})
		return nil
	}
	return fmt.Errorf("envelope: unsupported errors value %q", b[:1])
}

func (d *ErrorDetails) decodeList(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	items := make([]ErrorItem, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return err
			}
			items = append(items, ErrorItem{Message: s})
			continue
		}
		var it struct {
			Field   *string `json:"field"`
			Message string  `json:"message"`
			Code    *string `json:"code"`
		}
		if err := json.Unmarshal(r, &it); err != nil {
			return fmt.Errorf("envelope: decode error item: %w", err)
		}
		item := ErrorItem{Message: it.Message}
		if it.Field != nil {
			item.Field = *it.Field
		}
		if it.Code != nil {
			item.Code = *it.Code
		}
		items = append(items, item)
	}
	*d = ListDetails(items...)
	return nil
}

// decodeLegacy walks the object token by token so key order survives.
func (d *ErrorDetails) decodeLegacy(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var fields []FieldMessages
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("envelope: unexpected key token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		msgs, err := legacyMessages(raw)
		if err != nil {
			return fmt.Errorf("envelope: errors.%s: %w", key, err)
		}
		fields = append(fields, FieldMessages{Field: key, Messages: msgs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = LegacyDetails(fields...)
	return nil
}

func legacyMessages(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (d ErrorDetails) MarshalJSON() ([]byte, error) {
	switch d.shape {
	case ShapeLegacyMap:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range d.legacy {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f.Field)
			if err != nil {
				return nil, err
			}
			msgs := f.Messages
			if msgs == nil {
				msgs = []string{}
			}
			v, err := json.Marshal(msgs)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case ShapeList:
		return json.Marshal(d.list)
	}
	return []byte("[]"), nil
}
