package database

import "fmt"

// Filter matches documents whose Field equals Value. The zero Filter
// matches every document.
type Filter struct {
	Field string
	Value any
}

// BuildQuery returns the equality filter field == value.
func BuildQuery(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// MatchAll returns the filter that matches every document.
func MatchAll() Filter {
	return Filter{}
}

// IsZero reports whether f matches every document.
func (f Filter) IsZero() bool {
	return f.Field == ""
}

func (f Filter) String() string {
	if f.IsZero() {
		return "{}"
	}
	return fmt.Sprintf("{%s: %v}", f.Field, f.Value)
}
