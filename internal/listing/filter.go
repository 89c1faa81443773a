package listing

import (
	"fmt"
	"strings"
)

// FilterType is the single active search dimension.
type FilterType int

// Filter types. FilterNone means no dimension has been selected yet.
const (
	FilterNone FilterType = iota
	FilterTitle
	FilterGenre
	FilterActor
	FilterDirector
)

// FilterTypes returns the selectable filter types in display order.
func FilterTypes() []FilterType {
	return []FilterType{FilterTitle, FilterGenre, FilterActor, FilterDirector}
}

// String returns the query parameter name of the filter type ("" for none).
func (f FilterType) String() string {
	switch f {
	case FilterTitle:
		return "title"
	case FilterGenre:
		return "genre"
	case FilterActor:
		return "actor"
	case FilterDirector:
		return "director"
	}
	return ""
}

// Label returns the capitalised name shown on the selector.
func (f FilterType) Label() string {
	s := f.String()
	if s == "" {
		return "None"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// usesText reports whether the filter type searches by free text.
func (f FilterType) usesText() bool {
	return f == FilterTitle || f == FilterActor || f == FilterDirector
}

// ParseFilterType parses a filter type name. Empty input and "none" mean FilterNone.
func ParseFilterType(s string) (FilterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FilterNone, nil
	case "title":
		return FilterTitle, nil
	case "genre":
		return FilterGenre, nil
	case "actor":
		return FilterActor, nil
	case "director":
		return FilterDirector, nil
	}
	return FilterNone, fmt.Errorf("unknown filter type %q (want title, genre, actor or director)", s)
}
