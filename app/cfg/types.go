package cfg

import "time"

type Cfg struct {
	// Source repository
	GitHubToken    string
	GitHubAPIURL   string
	Repository     string
	Ref            string
	ArticlesFolder string
	WorkspaceDir   string
	OutputFile     string

	// Medium
	MediumToken         string
	MediumUserID        string
	MediumBaseURL       string
	MediumContentFormat string

	// Dev.to
	DevToAPIKey  string
	DevToBaseURL string

	// Ledger and HTTP service
	DBPath       string
	Serve        bool
	Port         string
	APIAccessKey string

	// Publishing
	HTTPTimeout time.Duration
	MaxRetries  int
	WorkerCount int

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
