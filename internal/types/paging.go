package types

// Pagination describes the page window of a result set. Field names are part
// of the public JSON contract.
type Pagination struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Page is a ranked slice of results plus its pagination metadata. Item order
// is rank order.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// SearchCriteria collects every filter the catalog search accepts. Zero
// values mean "no constraint"; Page/Size defaults are applied by the
// boundary before the criteria reach the engine.
type SearchCriteria struct {
	Query         string
	Author        string
	Genres        []Genre
	YearMin       uint16
	YearMax       uint16
	MinRating     float64
	SortBy        string
	SortDirection string
	Page          int
	Size          int
}
