package embed

import "context"

// Container is the single stable element items are embedded into.
type Container interface {
	// Reset replaces the container with a fresh, bare element.
	Reset()
	// SetSource loads url directly into the container (generic embedding).
	SetSource(url string)
}

// PlayerVars configures a native control object.
type PlayerVars struct {
	Autoplay    int `json:"autoplay"`
	PlaysInline int `json:"playsinline"`
	Rel         int `json:"rel"`
}

// DefaultPlayerVars enables autoplay and inline playback and hides related content.
var DefaultPlayerVars = PlayerVars{Autoplay: 1, PlaysInline: 1, Rel: 0}

// ControlObject is a live native player bound to a container.
type ControlObject interface {
	// LoadVideo replaces the playing video in place.
	LoadVideo(videoID string) error
	// Destroy tears the player down. The object must not be used afterwards.
	Destroy()
}

// ControlFactory constructs native control objects.
type ControlFactory interface {
	// Create binds a new control object to c and starts videoID.
	// onEnded is invoked whenever the video reaches its end.
	Create(c Container, videoID string, vars PlayerVars, onEnded func()) (ControlObject, error)
}

// APILoader loads the native player API. Implementations need not be idempotent;
// Loader memoizes them.
type APILoader interface {
	Load(ctx context.Context) error
}
