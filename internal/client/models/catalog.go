package models

import "net/url"

// Coordinates is a campus location.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ServiceTimes describes when a campus meets.
type ServiceTimes struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Day       string `json:"day"`
}

// Outreach is a physical church campus.
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

// Ministry is a volunteer group.
type Ministry struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements,omitempty"`
	OutreachID   *int64   `json:"outreach_id,omitempty"`
}

// Media categories offered by the media screen.
const (
	CategoryAll                = "All"
	CategorySundayPreachings   = "Sunday Preachings"
	CategoryBibleStudy         = "Bible Study"
	CategoryEvangelisticNights = "Evangelistic Nights"
)

// MediaCategories lists the filter choices in display order.
var MediaCategories = []string{
	CategoryAll,
	CategorySundayPreachings,
	CategoryBibleStudy,
	CategoryEvangelisticNights,
}

// MediaItem is a sermon or teaching video hosted on YouTube.
type MediaItem struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	YoutubeVideoID string `json:"youtube_video_id"`
	Category       string `json:"category"`
	PublishedAt    string `json:"published_at"`
	ThumbnailURL   string `json:"thumbnail_url"`
}

// WatchURL is the public YouTube link for the item.
func (m MediaItem) WatchURL() string {
	if m.YoutubeVideoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(m.YoutubeVideoID)
}
