// Package embed decides how an item is embedded and manages the player lifecycle.
package embed

import (
	"net/url"
	"strings"
)

// Kind classifies how a target URL can be embedded.
type Kind int

const (
	KindGeneric Kind = iota // Plain frame load, no control object
	KindNative              // Native player control object
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindNative:
		return "native"
	default:
		return "unknown"
	}
}

// Target is the resolved embedding target of an item.
type Target struct {
	URL     string // Resolved URL with playback hints appended
	Kind    Kind
	VideoID string // Native identifier (empty for KindGeneric)
}

const (
	shortHost     = "youtu.be"
	canonicalHost = "youtube.com"
)

// playbackHints are appended to every resolved URL.
var playbackHints = [][2]string{
	{"autoplay", "1"},
	{"playsinline", "1"},
}

// Resolve unwraps one layer of /proxy?url= indirection, appends playback hints
// and classifies the result.
func Resolve(playURL string) Target {
	resolved := unwrapProxy(playURL)
	id, ok := ExtractVideoID(resolved)

	t := Target{URL: withHints(resolved), Kind: KindGeneric}
	if ok {
		t.Kind = KindNative
		t.VideoID = id
	}
	return t
}

// unwrapProxy returns the url parameter of a proxy URL, or raw unchanged.
func unwrapProxy(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path != "/proxy" && !strings.HasSuffix(u.Path, "/proxy") {
		return raw
	}
	inner := u.Query().Get("url")
	if inner == "" {
		return raw
	}
	return inner
}

// withHints appends autoplay/inline hints, keeping raw when it does not parse.
func withHints(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, h := range playbackHints {
		q.Set(h[0], h[1])
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ExtractVideoID returns the native video identifier of a video-platform URL.
func ExtractVideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())

	switch {
	case matchesHost(host, shortHost):
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				return seg, true
			}
		}
		return "", false

	case matchesHost(host, canonicalHost):
		if u.Path == "/watch" {
			v := u.Query().Get("v")
			return v, v != ""
		}
		for _, prefix := range []string{"/embed/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.SplitN(strings.TrimPrefix(u.Path, prefix), "/", 2)[0]
				return id, id != ""
			}
		}
	}
	return "", false
}

// matchesHost reports whether host is base or a subdomain of it.
func matchesHost(host, base string) bool {
	return host == base || strings.HasSuffix(host, "."+base)
}
