package embed

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{name: "short link", url: "https://youtu.be/abc123", wantID: "abc123", wantOK: true},
		{name: "short link with query", url: "https://youtu.be/abc123?t=10", wantID: "abc123", wantOK: true},
		{name: "short link skips empty segments", url: "https://youtu.be//abc123/", wantID: "abc123", wantOK: true},
		{name: "short link subdomain", url: "https://m.youtu.be/abc123", wantID: "abc123", wantOK: true},
		{name: "short link without id", url: "https://youtu.be/", wantOK: false},
		{name: "watch path", url: "https://www.youtube.com/watch?v=xyz789&t=5", wantID: "xyz789", wantOK: true},
		{name: "watch path uppercase host", url: "https://WWW.YouTube.COM/watch?v=xyz789", wantID: "xyz789", wantOK: true},
		{name: "watch path without v", url: "https://www.youtube.com/watch?list=abc", wantOK: false},
		{name: "watch with trailing slash", url: "https://www.youtube.com/watch/?v=xyz789", wantOK: false},
		{name: "embed path", url: "https://www.youtube.com/embed/qqq111", wantID: "qqq111", wantOK: true},
		{name: "embed path with hints", url: "https://www.youtube.com/embed/qqq111?autoplay=1", wantID: "qqq111", wantOK: true},
		{name: "shorts path", url: "https://youtube.com/shorts/sss222", wantID: "sss222", wantOK: true},
		{name: "embed without id", url: "https://www.youtube.com/embed/", wantOK: false},
		{name: "bare host", url: "https://youtube.com", wantOK: false},
		{name: "lookalike host", url: "https://notyoutube.com/watch?v=abc", wantOK: false},
		{name: "generic host", url: "https://example.com/video/1", wantOK: false},
		{name: "malformed", url: "https://[::1", wantOK: false},
		{name: "empty", url: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolve_Classification(t *testing.T) {
	tests := []struct {
		name     string
		playURL  string
		wantKind Kind
		wantID   string
	}{
		{name: "native embed", playURL: "https://www.youtube.com/embed/qqq111", wantKind: KindNative, wantID: "qqq111"},
		{name: "generic", playURL: "https://example.com/video/1", wantKind: KindGeneric},
		{name: "proxied native", playURL: "/proxy?url=" + url.QueryEscape("https://youtu.be/abc123"), wantKind: KindNative, wantID: "abc123"},
		{name: "absolute proxy", playURL: "https://host.local/api/proxy?url=" + url.QueryEscape("https://example.com/v"), wantKind: KindGeneric},
		{name: "malformed", playURL: "%zz", wantKind: KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Resolve(tt.playURL)
			assert.Equal(t, tt.wantKind, target.Kind)
			assert.Equal(t, tt.wantID, target.VideoID)
		})
	}
}

func TestResolve_UnwrapsProxyAndAppendsHints(t *testing.T) {
	inner := "https://example.com/embed/9?lang=en"
	target := Resolve("/proxy?url=" + url.QueryEscape(inner))

	u, err := url.Parse(target.URL)
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "/embed/9", u.Path)
	assert.Equal(t, "en", u.Query().Get("lang"))
	assert.Equal(t, "1", u.Query().Get("autoplay"))
	assert.Equal(t, "1", u.Query().Get("playsinline"))
}

func TestResolve_NonProxyPathKeepsURL(t *testing.T) {
	target := Resolve("https://example.com/watch?url=https://other.example")

	u, err := url.Parse(target.URL)
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "https://other.example", u.Query().Get("url"))
}

func TestResolve_MalformedFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "%zz", Resolve("%zz").URL)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "native", KindNative.String())
	assert.Equal(t, "generic", KindGeneric.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
