package article

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const metadataDelimiter = "---"

var titleRegex = regexp.MustCompile(`^#\s+(.*)`)

type Options struct {
	// RewriteResources turns relative references into absolute URLs and
	// fills unset metadata with defaults. Without it the parser behaves like
	// the legacy reader: metadata is returned as written.
	RewriteResources bool
}

// Parser turns a markdown document with a metadata block into an Article.
// It is stateless and safe for concurrent use.
type Parser struct {
	opts Options
}

func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Run parses raw and resolves relative references against baseResourceURL.
// An empty baseResourceURL leaves references untouched.
func (p *Parser) Run(raw, baseResourceURL string) (*Article, error) {
	lines := strings.Split(raw, "\n")

	first, second, ok := metadataBounds(lines)
	if !ok {
		return nil, ErrIncorrectMetadata
	}

	metadata := slices.Clone(lines[first+1 : second])
	body := slices.Clone(lines[second+1:])

	rewrite := p.opts.RewriteResources && baseResourceURL != ""
	if rewrite {
		if err := rewriteRelative(metadata, baseResourceURL); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}

	var config Config
	if err := yaml.Unmarshal([]byte(strings.Join(metadata, "\n")), &config); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	if strings.TrimSpace(config.Title) == "" {
		title, found := findTitle(body)
		if !found {
			return nil, ErrMissingTitle
		}
		config.Title = title
	}

	if rewrite {
		if err := rewriteRelative(body, baseResourceURL); err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
	}

	if p.opts.RewriteResources {
		applyDefaults(&config)
	}

	return &Article{
		Config:  config,
		Content: strings.Join(body, "\n"),
	}, nil
}

// metadataBounds returns the indexes of the first two delimiter lines.
// Anything after the second one belongs to the body.
func metadataBounds(lines []string) (int, int, bool) {
	indexes := make([]int, 0, 2)
	for i, line := range lines {
		if strings.HasPrefix(line, metadataDelimiter) {
			indexes = append(indexes, i)
		}
		if len(indexes) == 2 {
			return indexes[0], indexes[1], true
		}
	}
	return 0, 0, false
}

func findTitle(lines []string) (string, bool) {
	for _, line := range lines {
		match := titleRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if title := strings.TrimSpace(match[1]); title != "" {
			return title, true
		}
	}
	return "", false
}

// applyDefaults fills license and published. Description already defaults
// to the empty string.
func applyDefaults(config *Config) {
	if config.License == "" {
		config.License = LicensePublicDomain
	}
	if config.Published == nil {
		published := true
		config.Published = &published
	}
}
