package capture

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Share networks.
const (
	NetworkFacebook  = "facebook"
	NetworkTwitter   = "twitter"
	NetworkClipboard = "clipboard"
)

// ShareLink is what the client opens, or copies when Clipboard is set.
type ShareLink struct {
	Network   string `json:"network"`
	Text      string `json:"text"`
	URL       string `json:"url,omitempty"`
	Clipboard bool   `json:"clipboard,omitempty"`
}

// SocialShare builds a share target for text and pageURL on a network, or
// returns ErrUnsupported.
type SocialShare interface {
	Share(ctx context.Context, network, text, pageURL string) (ShareLink, error)
}

// LinkSharer produces web intent links for the networks it knows.
type LinkSharer struct{}

func (LinkSharer) Share(_ context.Context, network, text, pageURL string) (ShareLink, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case NetworkFacebook:
		q := url.Values{}
		q.Set("u", pageURL)
		q.Set("quote", text)
		return ShareLink{Network: NetworkFacebook, Text: text, URL: "https://www.facebook.com/sharer/sharer.php?" + q.Encode()}, nil
	case NetworkTwitter, "x":
		q := url.Values{}
		q.Set("text", text)
		return ShareLink{Network: NetworkTwitter, Text: text, URL: "https://twitter.com/intent/tweet?" + q.Encode()}, nil
	default:
		return ShareLink{}, ErrUnsupported
	}
}

// ShareOrCopy asks s for a link and falls back to a clipboard copy of text
// when the network is unsupported.
func ShareOrCopy(ctx context.Context, s SocialShare, network, text, pageURL string) (ShareLink, error) {
	link, err := s.Share(ctx, network, text, pageURL)
	if errors.Is(err, ErrUnsupported) {
		return ShareLink{Network: NetworkClipboard, Text: text, Clipboard: true}, nil
	}
	return link, err
}
