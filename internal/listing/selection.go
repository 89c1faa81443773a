package listing

import "slices"

// GenreSelection is an insertion-ordered set of genre names.
// The zero value is an empty selection.
type GenreSelection struct {
	names []string
}

// NewGenreSelection builds a selection from names, dropping duplicates.
func NewGenreSelection(names ...string) GenreSelection {
	var s GenreSelection
	for _, n := range names {
		if !s.Contains(n) {
			s.names = append(s.names, n)
		}
	}
	return s
}

// Toggle removes name when present and appends it otherwise.
func (s GenreSelection) Toggle(name string) GenreSelection {
	if i := slices.Index(s.names, name); i >= 0 {
		return GenreSelection{names: slices.Delete(slices.Clone(s.names), i, i+1)}
	}
	return GenreSelection{names: append(slices.Clone(s.names), name)}
}

// Contains reports whether name is selected.
func (s GenreSelection) Contains(name string) bool {
	return slices.Contains(s.names, name)
}

// Names returns the selected names in the order they were selected.
func (s GenreSelection) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of selected genres.
func (s GenreSelection) Len() int { return len(s.names) }

// Equal reports set equality, ignoring selection order.
func (s GenreSelection) Equal(other GenreSelection) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for _, n := range s.names {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}
