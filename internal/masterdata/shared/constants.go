package shared

// Values accepted in the dir query parameter. Anything else sorts
// ascending.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)
