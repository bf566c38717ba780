package publish

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/lysyi3m/crosspost/app/article"
)

const mediumMaxTags = 5

type PublishStatus string

const (
	PublishStatusPublic PublishStatus = "public"
	PublishStatusDraft  PublishStatus = "draft"
)

const (
	ContentFormatMarkdown = "markdown"
	ContentFormatHTML     = "html"
)

type mediumRequest struct {
	Title         string        `json:"title"`
	ContentFormat string        `json:"contentFormat"`
	Content       string        `json:"content"`
	License       string        `json:"license,omitempty"`
	Tags          []string      `json:"tags"`
	PublishStatus PublishStatus `json:"publishStatus"`
	CanonicalURL  string        `json:"canonicalUrl,omitempty"`
}

type mediumResponse struct {
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
}

type Medium struct {
	client
	baseURL       string
	token         string
	userID        string
	contentFormat string
	markdown      goldmark.Markdown
}

func NewMedium(httpClient *http.Client, baseURL, token, userID, contentFormat, userAgent string) (*Medium, error) {
	switch contentFormat {
	case "":
		contentFormat = ContentFormatMarkdown
	case ContentFormatMarkdown, ContentFormatHTML:
	default:
		return nil, fmt.Errorf("unsupported Medium content format: %s", contentFormat)
	}

	return &Medium{
		client:        client{httpClient: httpClient, userAgent: userAgent},
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		userID:        userID,
		contentFormat: contentFormat,
		// Articles embed raw <img> and <video> tags, so raw HTML is passed through.
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}, nil
}

func (m *Medium) Name() string {
	return PlatformMedium
}

func (m *Medium) Publish(ctx context.Context, a *article.Article) (*Result, error) {
	content, err := m.render(a.RenderFor(m.Name()))
	if err != nil {
		return nil, fmt.Errorf("medium: %w", err)
	}

	status := PublishStatusPublic
	if !a.Config.IsPublished() {
		status = PublishStatusDraft
	}

	payload := mediumRequest{
		Title:         a.Config.Title,
		ContentFormat: m.contentFormat,
		Content:       content,
		License:       string(a.Config.License),
		Tags:          a.Config.Tags.Limit(mediumMaxTags),
		PublishStatus: status,
		CanonicalURL:  a.Config.CanonicalURL,
	}

	endpoint := fmt.Sprintf("%s/users/%s/posts", m.baseURL, url.PathEscape(m.userID))
	headers := map[string]string{"Authorization": "Bearer " + m.token}

	var resp mediumResponse
	if err := m.postJSON(ctx, endpoint, headers, payload, &resp); err != nil {
		return nil, fmt.Errorf("medium: %w", err)
	}

	return &Result{
		Platform: m.Name(),
		ID:       resp.Data.ID,
		URL:      resp.Data.URL,
	}, nil
}

func (m *Medium) render(content string) (string, error) {
	if m.contentFormat != ContentFormatHTML {
		return content, nil
	}

	var buf bytes.Buffer
	if err := m.markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
