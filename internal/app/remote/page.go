// Package remote drives the browser page by emitting commands. It implements
// the embed container, control object and API loader ports, and the playback views.
package remote

import (
	"sync"

	"github.com/samber/lo"

	"github.com/osa030/rcplayer/internal/app/notification"
)

// Broadcaster delivers commands to attached pages.
type Broadcaster interface {
	Broadcast(cmd *notification.Command)
	SubscriberCount() int
}

// Page emits commands and remembers what is needed to rebuild the current
// page for a newly attached subscriber.
type Page struct {
	out Broadcaster

	mu           sync.Mutex
	renders      map[string]string
	renderOrder  []string
	mount        []notification.Command // Commands that rebuild the container
	apiRequested bool
	buildEnabled bool
}

// NewPage creates a page emitter.
func NewPage(out Broadcaster) *Page {
	return &Page{
		out:          out,
		renders:      make(map[string]string),
		buildEnabled: true,
	}
}

// Attached reports whether at least one page is subscribed.
func (p *Page) Attached() bool {
	return p.out.SubscriberCount() > 0
}

// Reset implements embed.Container.
func (p *Page) Reset() {
	p.mu.Lock()
	p.mount = nil
	p.mu.Unlock()
	p.emit(notification.Command{Type: notification.CommandResetContainer})
}

// SetSource implements embed.Container.
func (p *Page) SetSource(url string) {
	cmd := notification.Command{Type: notification.CommandSetFrameSrc, URL: url}
	p.mu.Lock()
	p.mount = []notification.Command{cmd}
	p.mu.Unlock()
	p.emit(cmd)
}

// Render replaces the HTML of a fragment target.
func (p *Page) Render(target, html string) {
	p.mu.Lock()
	if _, ok := p.renders[target]; !ok {
		p.renderOrder = append(p.renderOrder, target)
	}
	p.renders[target] = html
	p.mu.Unlock()
	p.emit(notification.Command{Type: notification.CommandRender, Target: target, HTML: html})
}

// Alert shows a blocking message.
func (p *Page) Alert(msg string) {
	p.emit(notification.Command{Type: notification.CommandAlert, Message: msg})
}

// SetBuildEnabled toggles the build control.
func (p *Page) SetBuildEnabled(enabled bool) {
	p.mu.Lock()
	p.buildEnabled = enabled
	p.mu.Unlock()
	p.emit(notification.Command{Type: notification.CommandBuildControl, Enabled: lo.ToPtr(enabled)})
}

// BuildEnabled reports the last build control state.
func (p *Page) BuildEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buildEnabled
}

// Open asks the page to open url in a new tab.
func (p *Page) Open(url string) {
	p.emit(notification.Command{Type: notification.CommandOpen, URL: url})
}

// Replay returns the commands that rebuild the current page.
func (p *Page) Replay(apiCmd *notification.Command) []notification.Command {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []notification.Command
	if p.apiRequested && apiCmd != nil {
		out = append(out, *apiCmd)
	}
	out = append(out, p.mount...)
	for _, target := range p.renderOrder {
		out = append(out, notification.Command{Type: notification.CommandRender, Target: target, HTML: p.renders[target]})
	}
	return out
}

func (p *Page) setMount(cmds ...notification.Command) {
	p.mu.Lock()
	p.mount = cmds
	p.mu.Unlock()
}

func (p *Page) markAPIRequested() {
	p.mu.Lock()
	p.apiRequested = true
	p.mu.Unlock()
}

func (p *Page) emit(cmd notification.Command) {
	p.out.Broadcast(&cmd)
}
