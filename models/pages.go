package models

// SortField enumerates the quote attributes the server can sort by.
type SortField string

// Sort fields accepted by the list and search endpoints.
const (
	SortByText      SortField = "quote"
	SortByAuthor    SortField = "author"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// ListRequest describes one page request against the quote list endpoint.
type ListRequest struct {
	// SortBy selects the attribute the server orders the page by.
	SortBy SortField

	// Ascending selects the sort direction. The wire value is
	// "asc" / "desc".
	Ascending bool

	// Limit caps the number of quotes in the page. Zero means the server
	// default of 50.
	Limit int

	// LastKey is the opaque continuation token returned by the previous
	// page, or empty for the first page.
	LastKey string
}

// SearchRequest describes a free-text search against the collection.
// Search results are a single full result set up to Limit — the search
// endpoint is deliberately not paginated.
type SearchRequest struct {
	// Query is the free-text search string. Must be non-empty.
	Query string

	// SortBy selects the attribute the results are ordered by.
	SortBy SortField

	// Ascending selects the sort direction.
	Ascending bool

	// Limit caps the result set size. Zero means the server default.
	Limit int
}

// QuotePage is one page of the paginated quote listing.
type QuotePage struct {
	// Quotes holds the page content in server order.
	Quotes []Quote `json:"quotes"`

	// LastKey is the continuation token for the next page. Empty when the
	// listing is exhausted.
	LastKey string `json:"last_key,omitempty"`

	// HasMore reports whether another page can be fetched with LastKey.
	HasMore bool `json:"has_more"`

	// TotalCount is the full collection size when the server reports it,
	// zero otherwise.
	TotalCount int `json:"total_count,omitempty"`
}
