package model

// SortOrder is the direction of one sort key.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Operator applied to a filtered field.
type Operator string

const (
	OpEq   Operator = "eq"
	OpNe   Operator = "ne"
	OpLike Operator = "like"
	OpGte  Operator = "gte"
	OpLte  Operator = "lte"
)

// FieldFilter matches a (dot-separated) field against any of Values.
type FieldFilter struct {
	Field    string
	Operator Operator
	Values   []string
}

// SortKey orders a list by one field.
type SortKey struct {
	Field string
	Order SortOrder
}

// ListFilters contains the query parameters for listing a collection
type ListFilters struct {
	Filters []FieldFilter
	Sort    []SortKey
	Query   *string // full-text "q"
}
