// Package catalog holds the public church directory served by the
// development backend: campuses, ministries and media.
package catalog

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ServiceTimes struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Day       string `json:"day"`
}

type Outreach struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Image        string        `json:"image,omitempty"`
	AddressLine1 string        `json:"address_line_1"`
	AddressLine2 string        `json:"address_line_2,omitempty"`
	PostCode     string        `json:"post_code,omitempty"`
	City         string        `json:"city"`
	Country      string        `json:"country"`
	Phone        string        `json:"phone,omitempty"`
	Coordinates  *Coordinates  `json:"coordinates,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url"`
	Services     *ServiceTimes `json:"services,omitempty"`
}

type Ministry struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements,omitempty"`
	OutreachID   *int64   `json:"outreach_id,omitempty"`
}

type MediaItem struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	YoutubeVideoID string `json:"youtube_video_id"`
	Category       string `json:"category"`
	PublishedAt    string `json:"published_at"`
	ThumbnailURL   string `json:"thumbnail_url"`
}
