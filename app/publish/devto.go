package publish

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/crosspost/app/article"
)

const devToMaxTags = 4

type devToArticle struct {
	Title        string   `json:"title"`
	BodyMarkdown string   `json:"body_markdown"`
	Published    bool     `json:"published"`
	Tags         []string `json:"tags"`
	Description  string   `json:"description,omitempty"`
	CanonicalURL string   `json:"canonical_url,omitempty"`
}

type devToRequest struct {
	Article devToArticle `json:"article"`
}

type devToResponse struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type DevTo struct {
	client
	baseURL string
	apiKey  string
}

func NewDevTo(httpClient *http.Client, baseURL, apiKey, userAgent string) *DevTo {
	return &DevTo{
		client:  client{httpClient: httpClient, userAgent: userAgent},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (d *DevTo) Name() string {
	return PlatformDevTo
}

func (d *DevTo) Publish(ctx context.Context, a *article.Article) (*Result, error) {
	payload := devToRequest{
		Article: devToArticle{
			Title:        a.Config.Title,
			BodyMarkdown: a.RenderFor(d.Name()),
			Published:    a.Config.IsPublished(),
			Tags:         devToTags(a.Config.Tags),
			Description:  a.Config.Description,
			CanonicalURL: a.Config.CanonicalURL,
		},
	}

	var resp devToResponse
	headers := map[string]string{"api-key": d.apiKey}
	if err := d.postJSON(ctx, d.baseURL+"/articles", headers, payload, &resp); err != nil {
		return nil, fmt.Errorf("dev.to: %w", err)
	}

	return &Result{
		Platform: d.Name(),
		ID:       strconv.FormatInt(resp.ID, 10),
		URL:      resp.URL,
	}, nil
}

// devToTags folds tags into the lowercase alphanumeric form dev.to accepts
// ("Go-Lang" and "golang" collapse) and keeps the first four distinct ones.
func devToTags(tags article.Tags) []string {
	out := make([]string, 0, devToMaxTags)
	seen := make(map[string]bool)
	for _, tag := range tags {
		normalized := normalizeDevToTag(tag)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
		if len(out) == devToMaxTags {
			break
		}
	}
	return out
}

func normalizeDevToTag(tag string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
		cases.Lower(language.Und),
	)
	folded, _, err := transform.String(t, tag)
	if err != nil {
		folded = strings.ToLower(tag)
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, folded)
}
