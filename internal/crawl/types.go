// Package crawl discovers the origin site's year/month/episode archive
// hierarchy and extracts audio metadata from episode pages. The archive
// is rebuilt in full on every run; nothing is cached between runs.
package crawl

// Track is one embedded audio descriptor on an episode page.
type Track struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Episode is one program page discovered under a month listing.
// Identity is PageURL; an episode with zero tracks is kept in the
// aggregate but excluded from all published output.
type Episode struct {
	PageURL      string  `json:"page_url"`
	LinkText     string  `json:"link_text"`
	Title        string  `json:"title"`
	Tracks       []Track `json:"tracks"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
}

// HasTracks reports whether the episode carries at least one qualifying track.
func (e Episode) HasTracks() bool {
	return len(e.Tracks) > 0
}

// Month is one month listing page and the episodes discovered on it.
type Month struct {
	Label    string    `json:"label"`
	PageURL  string    `json:"page_url"`
	Episodes []Episode `json:"episodes"`
}

// Year is one year listing page and the months discovered on it.
type Year struct {
	Label   string  `json:"label"`
	PageURL string  `json:"page_url"`
	Months  []Month `json:"months"`
}

// Archive is the root aggregate: years in descending order.
type Archive []Year
