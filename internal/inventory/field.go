package inventory

import "strings"

// Field holds an optional cell value. The zero value is absent.
type Field struct {
	text    string
	present bool
}

// Absent returns a Field without a value.
func Absent() Field {
	return Field{}
}

// Present returns a Field carrying the provided text verbatim.
func Present(text string) Field {
	return Field{text: text, present: true}
}

// FieldFromCell trims a raw spreadsheet cell and treats blank cells as absent.
func FieldFromCell(rawCell string) Field {
	trimmed := strings.TrimSpace(rawCell)
	if len(trimmed) == 0 {
		return Absent()
	}
	return Present(trimmed)
}

// IsAbsent reports whether the field carries no value.
func (field Field) IsAbsent() bool {
	return !field.present
}

// IsPresent reports whether the field carries a value, possibly empty.
func (field Field) IsPresent() bool {
	return field.present
}

// Value returns the text and whether it is present.
func (field Field) Value() (string, bool) {
	return field.text, field.present
}

// String returns the text, or an empty string when absent.
func (field Field) String() string {
	return field.text
}

// HasPrefix reports whether the field is present and starts with any of the prefixes.
func (field Field) HasPrefix(prefixes ...string) bool {
	if !field.present {
		return false
	}
	for _, prefix := range prefixes {
		if len(prefix) > 0 && strings.HasPrefix(field.text, prefix) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether the field is present and contains substring, ignoring case.
func (field Field) ContainsFold(substring string) bool {
	if !field.present {
		return false
	}
	return strings.Contains(strings.ToLower(field.text), strings.ToLower(substring))
}
