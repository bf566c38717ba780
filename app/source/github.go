package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

var ErrNoArticle = errors.New("no markdown files found")

type ChangedFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type commitResponse struct {
	SHA   string        `json:"sha"`
	Files []ChangedFile `json:"files"`
}

// GitHub lists the files touched by a commit.
type GitHub struct {
	httpClient *http.Client
	apiURL     string
	owner      string
	repo       string
	userAgent  string
}

// NewGitHub builds a client for repository ("owner/name") authenticated with
// token. base may be nil.
func NewGitHub(ctx context.Context, base *http.Client, apiURL, repository, token, userAgent string) (*GitHub, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q: expected owner/name", repository)
	}

	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	if base != nil {
		httpClient.Timeout = base.Timeout
	}

	return &GitHub{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		owner:      owner,
		repo:       repo,
		userAgent:  userAgent,
	}, nil
}

// ChangedFiles returns the files of commit ref. GitHub returns the first 300
// files of a commit, which is plenty for an article push.
func (g *GitHub) ChangedFiles(ctx context.Context, ref string) ([]ChangedFile, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s", g.apiURL, g.owner, g.repo, ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(body)))
	}

	var commit commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&commit); err != nil {
		return nil, fmt.Errorf("failed to decode commit: %w", err)
	}

	slog.Debug("Commit files fetched", "ref", ref, "files", len(commit.Files))
	return commit.Files, nil
}

// FindArticle picks the first markdown file under folder that still exists
// after the commit.
func FindArticle(files []ChangedFile, folder string) (string, error) {
	folder = strings.Trim(folder, "/")
	articleRegex := regexp.MustCompile(`(^|/)` + regexp.QuoteMeta(folder) + `/.*\.md$`)

	var candidates []string
	for _, f := range files {
		if f.Status == "removed" {
			continue
		}
		if articleRegex.MatchString(f.Filename) {
			candidates = append(candidates, f.Filename)
		}
	}

	slog.Debug("Markdown files found", "count", len(candidates))
	if len(candidates) == 0 {
		return "", ErrNoArticle
	}
	if len(candidates) > 1 {
		slog.Warn("Several articles changed, publishing the first one", "using", candidates[0], "ignored", candidates[1:])
	}
	return candidates[0], nil
}

// BaseResourceURL is the raw content location of the directory holding
// filename, without scheme and with a trailing slash.
func BaseResourceURL(repository, ref, filename string) string {
	dir := path.Dir(filename)
	if dir == "." {
		return path.Join("raw.githubusercontent.com", repository, ref) + "/"
	}
	return path.Join("raw.githubusercontent.com", repository, ref, dir) + "/"
}
