package article

import "testing"

func TestArticle_RenderFor(t *testing.T) {
	a := &Article{Content: `# Title
shared intro
<!-- platform:devto -->
{% embed https://example.com %}
<!-- /platform -->
<!-- platform:medium -->
Medium only
<!-- /platform -->
outro`}

	devto := a.RenderFor("devto")
	expectedDevto := "# Title\nshared intro\n{% embed https://example.com %}\noutro"
	if devto != expectedDevto {
		t.Errorf("Expected %q, got %q", expectedDevto, devto)
	}

	medium := a.RenderFor("medium")
	if medium != "# Title\nshared intro\nMedium only\noutro" {
		t.Errorf("Expected medium rendering, got %q", medium)
	}

	other := a.RenderFor("hashnode")
	if other != "# Title\nshared intro\noutro" {
		t.Errorf("Expected platform blocks dropped, got %q", other)
	}
}

func TestArticle_RenderFor_UnterminatedBlock(t *testing.T) {
	a := &Article{Content: "keep\n<!-- platform:medium -->\nhidden\nstill hidden"}

	if got := a.RenderFor("devto"); got != "keep" {
		t.Errorf("Expected unterminated block to run to the end, got %q", got)
	}
	if got := a.RenderFor("Medium"); got != "keep\nhidden\nstill hidden" {
		t.Errorf("Expected case-insensitive platform match, got %q", got)
	}
}

func TestArticle_RenderFor_NoMarkers(t *testing.T) {
	a := &Article{Content: "plain\n\ncontent\n"}
	if got := a.RenderFor("devto"); got != a.Content {
		t.Errorf("Expected content unchanged, got %q", got)
	}
}
