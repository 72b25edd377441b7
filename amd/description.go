package amd

import (
	"fmt"
	"html"
	"strings"

	"promofeed/feed"
)

// BuildDescription renders the HTML description for one promotion entry.
// All upstream text is HTML-escaped before it ends up in the feed; the
// thumbnail and trailer parts are only emitted when present.
func BuildDescription(entry feed.Entry) (string, error) {
	promo, ok := entry.(*Promotion)
	if !ok {
		return "", fmt.Errorf("entry %q is not a promotion", entry.FeedID())
	}

	var parts []string

	if promo.ImageURL != "" {
		parts = append(parts, fmt.Sprintf(`<img src="%s" alt="%s"/><br/>`,
			html.EscapeString(promo.ImageURL), html.EscapeString(promo.Title)))
	}

	parts = append(parts,
		fmt.Sprintf("<p>%s</p>", html.EscapeString(promo.Content)),
		fmt.Sprintf("<p><strong>Platform:</strong> %s</p>", html.EscapeString(promo.Platform)),
		fmt.Sprintf("<p><strong>Developer:</strong> %s</p>", html.EscapeString(promo.Developer)),
		fmt.Sprintf("<p><strong>%d keys Available:</strong></p>", promo.KeysAvailable),
	)

	if promo.YoutubeURL != "" {
		parts = append(parts, fmt.Sprintf(`<p><a href="%s">Watch Trailer</a></p>`,
			html.EscapeString(promo.YoutubeURL)))
	}

	return strings.Join(parts, ""), nil
}
