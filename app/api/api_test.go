package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/lysyi3m/crosspost/app/article"
	"github.com/lysyi3m/crosspost/app/database"
)

func newTestServer(t *testing.T, apiKey string) (*gin.Engine, *database.SQLitePublicationRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	repo := database.NewPublicationRepository(db)
	return NewServer(NewHandler(repo), apiKey), repo
}

func doRequest(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetHealth(t *testing.T) {
	r, repo := newTestServer(t, "")
	if _, err := repo.RecordPublication(database.Publication{ArticlePath: "a.md", Platform: "devto", ContentHash: "h"}); err != nil {
		t.Fatal(err)
	}

	w := doRequest(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %v", body["status"])
	}
	if body["publications"] != float64(1) {
		t.Errorf("Expected 1 publication, got %v", body["publications"])
	}
}

func TestNormalizeArticle(t *testing.T) {
	r, _ := newTestServer(t, "")

	raw := "---\ntags: go, api\n---\n# Hello\n![img](./pic.png)"
	w := doRequest(r, http.MethodPost, "/api/articles/normalize?base_url=raw.example.com/org/repo/main/articles/", raw, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var a article.Article
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.Config.Title != "Hello" {
		t.Errorf("Expected title 'Hello', got '%s'", a.Config.Title)
	}
	if a.Config.License != article.LicensePublicDomain {
		t.Errorf("Expected default license, got '%s'", a.Config.License)
	}
	if !strings.Contains(a.Content, "https://raw.example.com/org/repo/main/articles/pic.png") {
		t.Errorf("Expected rewritten resource, got %q", a.Content)
	}
}

func TestNormalizeArticle_LegacyMode(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doRequest(r, http.MethodPost, "/api/articles/normalize?mode=legacy&base_url=raw.example.com/x/", "---\n---\n# Hi\n![a](./a.png)", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var a article.Article
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.Config.License != "" {
		t.Errorf("Expected no default license in legacy mode, got '%s'", a.Config.License)
	}
	if !strings.Contains(a.Content, "(./a.png)") {
		t.Errorf("Expected untouched resource in legacy mode, got %q", a.Content)
	}
}

func TestNormalizeArticle_ErrorKinds(t *testing.T) {
	r, _ := newTestServer(t, "")

	tests := []struct {
		name   string
		target string
		body   string
		kind   string
	}{
		{"no delimiters", "/api/articles/normalize", "# Title only", ErrorKindStructural},
		{"no title", "/api/articles/normalize", "---\n---\nno heading", ErrorKindContent},
		{"bad yaml", "/api/articles/normalize", "---\ntitle: [unterminated\n---\n# T", ErrorKindMetadata},
		{"escaping resource", "/api/articles/normalize?base_url=raw.example.com/a/", "---\n---\n# T\n![x](../../../x.png)", ErrorKindResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, tt.target, tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", w.Code)
			}

			var resp errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Kind != tt.kind {
				t.Errorf("Expected kind '%s', got '%s' (%s)", tt.kind, resp.Kind, resp.Error)
			}
			if resp.Error == "" {
				t.Error("Expected error message")
			}
		})
	}
}

func TestListPublications(t *testing.T) {
	r, repo := newTestServer(t, "")
	for _, platform := range []string{"devto", "medium"} {
		if _, err := repo.RecordPublication(database.Publication{ArticlePath: "a.md", Platform: platform, ContentHash: "h"}); err != nil {
			t.Fatal(err)
		}
	}

	w := doRequest(r, http.MethodGet, "/api/publications?limit=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Publications []database.Publication `json:"publications"`
		Count        int                    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || len(resp.Publications) != 1 {
		t.Errorf("Expected 1 publication, got %d", resp.Count)
	}

	if w := doRequest(r, http.MethodGet, "/api/publications?limit=zero", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad limit, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	r, _ := newTestServer(t, "secret")

	tests := []struct {
		headers  map[string]string
		expected int
	}{
		{nil, http.StatusUnauthorized},
		{map[string]string{"X-API-Key": "wrong"}, http.StatusUnauthorized},
		{map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
	}

	for i, tt := range tests {
		w := doRequest(r, http.MethodGet, "/api/publications", "", tt.headers)
		if w.Code != tt.expected {
			t.Errorf("Case %d: expected status %d, got %d", i, tt.expected, w.Code)
		}
	}

	if w := doRequest(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("Expected health to stay public, got %d", w.Code)
	}
}
