// Package session provides the Session and Item domain entities.
package session

// Explain carries the backend's reasoning for picking an item.
// Only Tags is displayed; the remaining fields are informational.
type Explain struct {
	Tags      []string `json:"tags,omitempty"`
	PickedIdx *int     `json:"picked_idx,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// Item represents one recommended media item in a session queue.
type Item struct {
	VideoID string   `json:"video_id" validate:"required"` // Opaque ID used for feedback correlation
	URL     string   `json:"url" validate:"required"`      // Canonical page URL (open in new tab)
	PlayURL string   `json:"play_url" validate:"required"` // Embeddable URL, possibly behind /proxy?url=
	Title   string   `json:"title,omitempty"`              // Optional display title
	Explain *Explain `json:"explain,omitempty"`            // Optional display metadata

	// Ranking details reported by the backend, never used for navigation.
	Score   *float64 `json:"score,omitempty"`
	Freq    *int     `json:"freq,omitempty"`
	Sim     *float64 `json:"sim,omitempty"`
	Div     *float64 `json:"div,omitempty"`
	Novelty *float64 `json:"novelty,omitempty"`
}

// DisplayTitle returns the title, falling back to the URL when absent.
func (i *Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.URL
}

// TagList returns the explain tags, or an empty slice when absent.
func (i *Item) TagList() []string {
	if i.Explain == nil || i.Explain.Tags == nil {
		return []string{}
	}
	return i.Explain.Tags
}
