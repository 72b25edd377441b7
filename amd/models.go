package amd

import "time"

// Promotion is a single game giveaway from AMD Gaming. Field names mirror the
// upstream JSON payload.
type Promotion struct {
	ID                     string `json:"id"`
	Title                  string `json:"title"`
	Slug                   string `json:"slug"`
	Content                string `json:"content"`
	GameWebsiteURL         string `json:"gameWebsiteUrl"`
	Platform               string `json:"platform"`
	Developer              string `json:"developer"`
	ThumbnailImageURL      string `json:"thumbnailImageUrl"`
	YoutubeURL             string `json:"youtubeUrl"`
	Tags                   string `json:"tags"`
	Color                  string `json:"color"`
	Status                 string `json:"status"`
	Featured               bool   `json:"featured"`
	KeysAvailable          int    `json:"keysAvailable"`
	MaxKeysPerIP           int    `json:"maxKeysPerIp"`
	CreatedAt              int64  `json:"createdAt"`
	UpdatedAt              int64  `json:"updatedAt"`
	RedemptionInstructions string `json:"redemptionInstructions"`
	ConsumerID             string `json:"consumerId"`
	Deleted                bool   `json:"deleted"`

	// ImageURL is the cached thumbnail location, set locally after the image
	// download step. Not part of the upstream payload.
	ImageURL string `json:"-"`
}

// PromotionsResponse is the upstream API response wrapper.
type PromotionsResponse struct {
	Items []*Promotion `json:"items"`
}

// feed.Entry implementation

func (p *Promotion) FeedID() string {
	return p.ID
}

func (p *Promotion) FeedTitle() string {
	return p.Title
}

func (p *Promotion) FeedLink() string {
	return p.GameWebsiteURL
}

// FeedPubDate is the creation time of the promotion in UTC.
func (p *Promotion) FeedPubDate() time.Time {
	return time.Unix(p.CreatedAt, 0).UTC()
}

func (p *Promotion) FeedCategory() string {
	return p.Tags
}
