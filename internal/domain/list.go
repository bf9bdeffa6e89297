package domain

// ListParams carries the optional filters and sort of a listing request.
// Filter keys are listing-specific; empty values mean no constraint.
type ListParams struct {
	Filters   map[string]string
	SortBy    string
	SortOrder string
}

// Models is the migration set, parents first.
func Models() []any {
	return []any{&User{}, &Store{}, &Rating{}}
}
