package model

// FeedImportRequest names the retailer feeds to import.
type FeedImportRequest struct {
	Paths []string `json:"paths"`
}

// FeedResult is the outcome of importing one feed.
type FeedResult struct {
	Path     string `json:"path"`
	Rows     int    `json:"rows"`
	Skipped  int    `json:"skipped"`
	Recorded int    `json:"recorded"`
	Error    string `json:"error,omitempty"`
}

// ImportResult summarises a feed import.
type ImportResult struct {
	Feeds    []FeedResult `json:"feeds"`
	Recorded int          `json:"recorded"`
	Failed   int          `json:"failed"`
}
