package cfg

import (
	"os"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"INPUT_GH_TOKEN", "GITHUB_API_URL", "GITHUB_REPOSITORY", "GITHUB_SHA",
	"INPUT_ARTICLES_FOLDER", "GITHUB_WORKSPACE", "GITHUB_OUTPUT",
	"INPUT_MEDIUM_TOKEN", "INPUT_MEDIUM_USER_ID", "INPUT_MEDIUM_BASE_URL",
	"INPUT_MEDIUM_CONTENT_FORMAT", "INPUT_DEVTO_API_KEY", "INPUT_DEVTO_BASE_URL",
	"DB_PATH", "SERVE", "PORT", "API_ACCESS_KEY", "HTTP_TIMEOUT", "MAX_RETRIES",
	"WORKER_COUNT", "USER_AGENT", "DEBUG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	// Keep .env files in the working directory out of the way.
	t.Chdir(t.TempDir())
	// go-flags treats a set-but-empty variable as a value, so unset them.
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func setPublishEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INPUT_GH_TOKEN", "gh-token")
	t.Setenv("GITHUB_REPOSITORY", "octo/blog")
	t.Setenv("GITHUB_SHA", "abc123")
	t.Setenv("INPUT_MEDIUM_TOKEN", "medium-token")
	t.Setenv("INPUT_MEDIUM_USER_ID", "user-1")
	t.Setenv("INPUT_DEVTO_API_KEY", "devto-key")
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	setPublishEnv(t)
	t.Setenv("INPUT_ARTICLES_FOLDER", "posts")
	t.Setenv("HTTP_TIMEOUT", "10")

	cfg, err := load(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.GitHubToken != "gh-token" {
		t.Errorf("Expected gh token 'gh-token', got '%s'", cfg.GitHubToken)
	}
	if cfg.Repository != "octo/blog" {
		t.Errorf("Expected repository 'octo/blog', got '%s'", cfg.Repository)
	}
	if cfg.ArticlesFolder != "posts" {
		t.Errorf("Expected articles folder 'posts', got '%s'", cfg.ArticlesFolder)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", cfg.HTTPTimeout)
	}
	if cfg.MediumBaseURL != "https://api.medium.com/v1" {
		t.Errorf("Expected default Medium base URL, got '%s'", cfg.MediumBaseURL)
	}
	if cfg.MediumContentFormat != "markdown" {
		t.Errorf("Expected default content format 'markdown', got '%s'", cfg.MediumContentFormat)
	}
	if cfg.DevToBaseURL != "https://dev.to/api" {
		t.Errorf("Expected default Dev.to base URL, got '%s'", cfg.DevToBaseURL)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected default worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("Expected default max retries 2, got %d", cfg.MaxRetries)
	}
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	clearEnv(t)
	setPublishEnv(t)

	cfg, err := load([]string{"--articles-folder", "drafts", "--medium-content-format", "html", "--debug"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ArticlesFolder != "drafts" {
		t.Errorf("Expected articles folder 'drafts', got '%s'", cfg.ArticlesFolder)
	}
	if cfg.MediumContentFormat != "html" {
		t.Errorf("Expected content format 'html', got '%s'", cfg.MediumContentFormat)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadRejectsUnknownContentFormat(t *testing.T) {
	clearEnv(t)
	setPublishEnv(t)

	if _, err := load([]string{"--medium-content-format", "rtf"}); err == nil {
		t.Error("Expected error for unsupported content format")
	}
}

func TestLoadPublishModeRequiresCredentials(t *testing.T) {
	clearEnv(t)
	setPublishEnv(t)
	os.Unsetenv("INPUT_DEVTO_API_KEY")

	_, err := load(nil)
	if err == nil {
		t.Fatal("Expected error for missing Dev.to key")
	}
	if !strings.Contains(err.Error(), "devto api key is required") {
		t.Errorf("Expected missing devto key error, got %v", err)
	}
}

func TestLoadServeModeSkipsCredentials(t *testing.T) {
	clearEnv(t)

	cfg, err := load([]string{"--serve", "--port", "9090"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Serve {
		t.Error("Expected serve mode")
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	base := Cfg{Serve: true, WorkerCount: 1, HTTPTimeout: time.Second}

	invalid := []Cfg{
		{Serve: true, WorkerCount: 0, HTTPTimeout: time.Second},
		{Serve: true, WorkerCount: 1, HTTPTimeout: 0},
		{Serve: true, WorkerCount: 1, HTTPTimeout: time.Second, MaxRetries: -1},
	}

	if err := base.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
	for i, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("Config %d: expected validation error", i)
		}
	}
}
