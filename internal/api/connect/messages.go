package connect

import (
	"github.com/osa030/rcplayer/internal/app/bridge"
	"github.com/osa030/rcplayer/internal/app/playback"
)

// BuildSessionRequest carries the raw build inputs as typed by the user.
type BuildSessionRequest struct {
	SeedURL string `json:"seed_url"`
	N       string `json:"n"`
}

// SelectRequest selects the item at Index.
type SelectRequest struct {
	Index int `json:"index"`
}

// FeedbackRequest reports Action against the current item.
type FeedbackRequest struct {
	Action string `json:"action"`
}

// FeedbackResponse reports whether feedback was dispatched.
type FeedbackResponse struct {
	Sent  bool       `json:"sent"`
	State *StateInfo `json:"state"`
}

// OpenExternalResponse carries the URL the page was asked to open.
type OpenExternalResponse struct {
	URL string `json:"url"`
}

// KeyRequest is a keyboard event forwarded by the page.
type KeyRequest = bridge.Key

// HandledResponse reports whether an input was consumed.
type HandledResponse struct {
	Handled bool `json:"handled"`
}

// PlayerEndedRequest reports end-of-media for a native player handle.
type PlayerEndedRequest struct {
	Handle string `json:"handle"`
}

// ItemInfo summarizes one queue item.
type ItemInfo struct {
	Index   int      `json:"index"`
	VideoID string   `json:"video_id"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Tags    []string `json:"tags"`
	Current bool     `json:"current"`
}

// StateInfo is the navigation state.
type StateInfo struct {
	State     string     `json:"state"`
	SessionID string     `json:"session_id,omitempty"`
	SeedURL   string     `json:"seed_url,omitempty"`
	Index     int        `json:"index"`
	Len       int        `json:"len"`
	Items     []ItemInfo `json:"items,omitempty"`
}

// newStateInfo converts a snapshot.
func newStateInfo(s playback.Snapshot) *StateInfo {
	info := &StateInfo{
		State: s.State.String(),
		Index: s.Index,
		Len:   s.Len(),
	}
	if s.Session == nil {
		return info
	}
	info.SessionID = s.Session.SessionID
	info.SeedURL = s.Session.SeedURL
	info.Items = make([]ItemInfo, 0, len(s.Session.Items))
	for i := range s.Session.Items {
		it := &s.Session.Items[i]
		info.Items = append(info.Items, ItemInfo{
			Index:   i,
			VideoID: it.VideoID,
			Title:   it.DisplayTitle(),
			URL:     it.URL,
			Tags:    it.TagList(),
			Current: i == s.Index,
		})
	}
	return info
}
