package remote

import (
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/app/embed"
	"github.com/osa030/rcplayer/internal/app/notification"
)

// Errors
var (
	ErrNoPage      = errors.New("no page attached")
	ErrDestroyed   = errors.New("player has been destroyed")
	ErrUnknownPage = errors.New("container is not a remote page")
)

// Players creates native control objects on the page. Each object is
// addressed by a uuid handle so the page can report events against it.
type Players struct {
	page *Page

	mu      sync.Mutex
	onEnded map[string]func()
}

// NewPlayers creates a control factory bound to page.
func NewPlayers(page *Page) *Players {
	return &Players{page: page, onEnded: make(map[string]func())}
}

// Ensure Players implements the interface.
var _ embed.ControlFactory = (*Players)(nil)

// Create implements embed.ControlFactory.
func (f *Players) Create(c embed.Container, videoID string, vars embed.PlayerVars, onEnded func()) (embed.ControlObject, error) {
	if c != embed.Container(f.page) {
		return nil, ErrUnknownPage
	}
	if !f.page.Attached() {
		return nil, ErrNoPage
	}

	rawVars, err := json.Marshal(vars)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode player vars")
	}

	p := &player{factory: f, handle: uuid.New().String(), vars: rawVars}

	f.mu.Lock()
	f.onEnded[p.handle] = onEnded
	f.mu.Unlock()

	cmd := p.createCommand(videoID)
	f.page.setMount(cmd)
	f.page.emit(cmd)
	zlog.Debug().Msgf("remote: player created: handle=%s video=%s", p.handle, videoID)
	return p, nil
}

// Ended reports end-of-media for handle. Unknown or destroyed handles are ignored.
func (f *Players) Ended(handle string) bool {
	f.mu.Lock()
	fn, ok := f.onEnded[handle]
	f.mu.Unlock()
	if !ok {
		zlog.Debug().Msgf("remote: ended from unknown player ignored: handle=%s", handle)
		return false
	}
	fn()
	return true
}

// Live returns the number of control objects not yet destroyed.
func (f *Players) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.onEnded)
}

type player struct {
	factory *Players
	handle  string
	vars    json.RawMessage

	mu        sync.Mutex
	destroyed bool
}

func (p *player) createCommand(videoID string) notification.Command {
	return notification.Command{
		Type:       notification.CommandCreatePlayer,
		Handle:     p.handle,
		VideoID:    videoID,
		PlayerVars: p.vars,
	}
}

// LoadVideo implements embed.ControlObject.
func (p *player) LoadVideo(videoID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return ErrDestroyed
	}
	p.factory.page.setMount(p.createCommand(videoID))
	p.factory.page.emit(notification.Command{
		Type:    notification.CommandLoadVideo,
		Handle:  p.handle,
		VideoID: videoID,
	})
	return nil
}

// Destroy implements embed.ControlObject.
func (p *player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	p.destroyed = true

	p.factory.mu.Lock()
	delete(p.factory.onEnded, p.handle)
	p.factory.mu.Unlock()

	p.factory.page.emit(notification.Command{Type: notification.CommandDestroyPlayer, Handle: p.handle})
	zlog.Debug().Msgf("remote: player destroyed: handle=%s", p.handle)
}
