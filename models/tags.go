package models

// TagInfo describes one tag known to the server together with its usage
// metadata.
type TagInfo struct {
	// Name is the bare tag name.
	Name string `json:"name"`

	// QuoteCount is the number of quotes currently carrying the tag.
	QuoteCount int `json:"quote_count"`
}

// TagCleanupResult reports the outcome of the bulk "delete unused tags"
// action.
type TagCleanupResult struct {
	// RemovedCount is the number of tags the server deleted.
	RemovedCount int `json:"count_removed"`

	// RemovedNames lists the deleted tag names.
	RemovedNames []string `json:"removed_tags"`
}

// ExportSnapshot is a full backup dump of the collection: every quote plus
// every known tag. Produced by the export endpoint.
type ExportSnapshot struct {
	Quotes []Quote   `json:"quotes"`
	Tags   []TagInfo `json:"tags"`
}
