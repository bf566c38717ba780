package database

import (
	"time"
)

type Publication struct {
	ID          string    `json:"id"` // Database UUID
	ArticlePath string    `json:"article_path"`
	Platform    string    `json:"platform"`
	ContentHash string    `json:"content_hash"` // sha256 of title and content
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	RemoteID    string    `json:"remote_id"` // Identifier assigned by the platform
	PublishedAt time.Time `json:"published_at"`
}
