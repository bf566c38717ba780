package publish

import (
	"context"

	"github.com/lysyi3m/crosspost/app/article"
)

const (
	PlatformDevTo  = "devto"
	PlatformMedium = "medium"
)

type Result struct {
	Platform string `json:"platform"`
	ID       string `json:"id"`
	URL      string `json:"url"`
}

// Publisher sends a normalized article to one blogging platform.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, a *article.Article) (*Result, error)
}

var (
	_ Publisher = (*DevTo)(nil)
	_ Publisher = (*Medium)(nil)
)
