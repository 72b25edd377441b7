package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// RFC822Layout is the date layout RSS 2.0 requires for lastBuildDate and
// pubDate. FormatRFC822 and ParseRFC822 must stay exact inverses of each
// other so the publication guard can re-parse dates it emitted earlier.
const RFC822Layout = "Mon, 02 Jan 2006 15:04:05 -0700"

// Entry is the capability contract a record must satisfy to become an RSS
// item. Any source-specific model can implement it; the generator depends on
// nothing beyond these five accessors.
type Entry interface {
	// FeedID returns a stable identifier, unique within one generation pass.
	// Used as the item guid with isPermaLink="false".
	FeedID() string

	// FeedTitle returns the display title of the item.
	FeedTitle() string

	// FeedLink returns the canonical URL of the item.
	FeedLink() string

	// FeedPubDate returns the publication time. Must be timezone-aware,
	// i.e. carry the location the date should be rendered in.
	FeedPubDate() time.Time

	// FeedCategory returns an optional category. Empty string means the
	// category element is omitted from the item entirely.
	FeedCategory() string
}

// Renderer builds the HTML description for a single entry. It is invoked
// exactly once per entry. An error aborts the whole synthesis; a partial
// feed is never produced.
type Renderer func(Entry) (string, error)

// Generator holds the channel metadata for one feed. Metadata is fixed for
// the lifetime of the generator.
type Generator struct {
	channelTitle       string
	channelLink        string
	channelDescription string
}

// NewGenerator validates the channel metadata and returns a Generator.
// A feed without title, link and description is not RSS 2.0 conformant, so
// empty metadata is rejected up front.
func NewGenerator(title, link, description string) (*Generator, error) {
	if title == "" || link == "" || description == "" {
		return nil, errors.New("channel title, link and description must all be non-empty")
	}
	return &Generator{
		channelTitle:       title,
		channelLink:        link,
		channelDescription: description,
	}, nil
}

type rssGuid struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssItem struct {
	XMLName     xml.Name `xml:"item"`
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Guid        rssGuid  `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Category    string   `xml:"category,omitempty"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// Generate synthesizes an RSS 2.0 document from the given entries.
//
// Items appear in input order; the generator does not sort or deduplicate.
// buildTime becomes the channel lastBuildDate. Output is deterministically
// pretty-printed with two-space indentation, so equal logical content yields
// byte-identical text.
func (g *Generator) Generate(entries []Entry, render Renderer, buildTime time.Time) (string, error) {
	items := make([]rssItem, 0, len(entries))
	for _, entry := range entries {
		description, err := render(entry)
		if err != nil {
			return "", fmt.Errorf("rendering description for entry %q: %w", entry.FeedID(), err)
		}
		items = append(items, rssItem{
			Title:       entry.FeedTitle(),
			Link:        entry.FeedLink(),
			Guid:        rssGuid{IsPermaLink: "false", Value: entry.FeedID()},
			Description: description,
			PubDate:     FormatRFC822(entry.FeedPubDate()),
			Category:    entry.FeedCategory(),
		})
	}

	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         g.channelTitle,
			Link:          g.channelLink,
			Description:   g.channelDescription,
			LastBuildDate: FormatRFC822(buildTime),
			Items:         items,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling feed: %w", err)
	}
	return string(out), nil
}

// Entries adapts a slice of any concrete Entry implementation to []Entry.
func Entries[T Entry](items []T) []Entry {
	return lo.Map(items, func(item T, _ int) Entry { return item })
}

// FormatRFC822 renders t in the RSS 2.0 date format, e.g.
// "Mon, 17 Nov 2025 10:37:41 +0000".
func FormatRFC822(t time.Time) string {
	return t.Format(RFC822Layout)
}

// ParseRFC822 parses a date previously produced by FormatRFC822.
func ParseRFC822(s string) (time.Time, error) {
	return time.Parse(RFC822Layout, s)
}
