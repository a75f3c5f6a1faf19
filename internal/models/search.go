package models

// Pagination bounds for post searches.
const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 30
)

// SearchFilter selects posts for the feed/search composer. Zero values mean
// "no restriction" for every field.
type SearchFilter struct {
	Text           string   `json:"text,omitempty" query:"q" validate:"omitempty,max=280"`
	Tags           []string `json:"tags,omitempty" query:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Authors        []string `json:"authors,omitempty" query:"authors" validate:"omitempty,max=50,dive,min=1,max=50"`
	SubscribedOnly bool     `json:"subscribed_only,omitempty" query:"subscribed_only"`
}

// Pagination is the requested page window. Limit <= 0 selects the default.
type Pagination struct {
	Limit  int `json:"limit" query:"limit"`
	Offset int `json:"offset" query:"offset"`
}

// Normalize clamps the window to the supported bounds.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultSearchLimit
	}
	if p.Limit > MaxSearchLimit {
		p.Limit = MaxSearchLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PostQuery is the store-level predicate built by the composer.
type PostQuery struct {
	Text string
	Tags []string
	// AuthorIDs restricts results to these authors when non-nil. A non-nil
	// empty slice matches nothing.
	AuthorIDs []string
	Limit     int
	Offset    int
}

// SearchResult is a page of enriched posts.
type SearchResult struct {
	Items      []PostView `json:"items"`
	TotalCount int64      `json:"total_count"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
