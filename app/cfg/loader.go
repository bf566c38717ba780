package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Environment names follow the GitHub Actions convention of exposing
// action inputs as INPUT_<NAME>.
type rawCfg struct {
	GitHubToken    string `long:"gh-token" env:"INPUT_GH_TOKEN" description:"GitHub token used to list the commit's changed files"`
	GitHubAPIURL   string `long:"github-api-url" env:"GITHUB_API_URL" default:"https://api.github.com" description:"GitHub REST API base URL"`
	Repository     string `long:"repository" env:"GITHUB_REPOSITORY" description:"Repository in owner/name form"`
	Ref            string `long:"ref" env:"GITHUB_SHA" description:"Commit SHA that introduced the article"`
	ArticlesFolder string `long:"articles-folder" env:"INPUT_ARTICLES_FOLDER" default:"articles" description:"Folder holding markdown articles"`
	WorkspaceDir   string `long:"workspace" env:"GITHUB_WORKSPACE" default:"." description:"Local checkout of the repository"`
	OutputFile     string `long:"output-file" env:"GITHUB_OUTPUT" description:"File receiving action outputs (optional)"`

	MediumToken         string `long:"medium-token" env:"INPUT_MEDIUM_TOKEN" description:"Medium integration token"`
	MediumUserID        string `long:"medium-user-id" env:"INPUT_MEDIUM_USER_ID" description:"Medium author id"`
	MediumBaseURL       string `long:"medium-base-url" env:"INPUT_MEDIUM_BASE_URL" default:"https://api.medium.com/v1" description:"Medium API base URL"`
	MediumContentFormat string `long:"medium-content-format" env:"INPUT_MEDIUM_CONTENT_FORMAT" default:"markdown" choice:"markdown" choice:"html" description:"Format sent to Medium"`

	DevToAPIKey  string `long:"devto-api-key" env:"INPUT_DEVTO_API_KEY" description:"Dev.to API key"`
	DevToBaseURL string `long:"devto-base-url" env:"INPUT_DEVTO_BASE_URL" default:"https://dev.to/api" description:"Dev.to API base URL"`

	DBPath       string `long:"db-path" env:"DB_PATH" default:"crosspost.db" description:"SQLite file recording publications"`
	Serve        bool   `long:"serve" env:"SERVE" description:"Run the HTTP API instead of publishing once"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	HTTPTimeout int `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"Timeout for outgoing requests in seconds"`
	MaxRetries  int `long:"max-retries" env:"MAX_RETRIES" default:"2" description:"Retries for transient publish failures"`
	WorkerCount int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Publishers running in parallel"`

	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Crosspost/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads an optional .env file, then flags and environment.
// It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		GitHubToken:         raw.GitHubToken,
		GitHubAPIURL:        raw.GitHubAPIURL,
		Repository:          raw.Repository,
		Ref:                 raw.Ref,
		ArticlesFolder:      raw.ArticlesFolder,
		WorkspaceDir:        raw.WorkspaceDir,
		OutputFile:          raw.OutputFile,
		MediumToken:         raw.MediumToken,
		MediumUserID:        raw.MediumUserID,
		MediumBaseURL:       raw.MediumBaseURL,
		MediumContentFormat: raw.MediumContentFormat,
		DevToAPIKey:         raw.DevToAPIKey,
		DevToBaseURL:        raw.DevToBaseURL,
		DBPath:              raw.DBPath,
		Serve:               raw.Serve,
		Port:                raw.Port,
		APIAccessKey:        raw.APIAccessKey,
		HTTPTimeout:         time.Duration(raw.HTTPTimeout) * time.Second,
		MaxRetries:          raw.MaxRetries,
		WorkerCount:         raw.WorkerCount,
		UserAgent:           raw.UserAgent,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the selected mode cannot run without.
func (c *Cfg) Validate() error {
	nonNegativeFields := map[string]int{
		"max retries": c.MaxRetries,
	}
	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	if c.Serve {
		return nil
	}

	// Ordered so the first missing setting is reported deterministically.
	requiredFields := []struct {
		name  string
		value string
	}{
		{"gh token", c.GitHubToken},
		{"repository", c.Repository},
		{"ref", c.Ref},
		{"medium token", c.MediumToken},
		{"medium user id", c.MediumUserID},
		{"devto api key", c.DevToAPIKey},
	}
	for _, field := range requiredFields {
		if field.value == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}

	return nil
}
