package tasks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/crosspost/app/article"
	"github.com/lysyi3m/crosspost/app/database"
	"github.com/lysyi3m/crosspost/app/publish"
)

type PublishArticleTask struct {
	Task
	ArticlePath string
	Article     *article.Article
	publisher   publish.Publisher
	pubRepo     database.PublicationRepository

	Result  *publish.Result
	Skipped bool
}

// NewPublishArticleTask publishes a to publisher. pubRepo may be nil, in
// which case nothing is deduplicated or recorded.
func NewPublishArticleTask(articlePath string, a *article.Article, publisher publish.Publisher, pubRepo database.PublicationRepository, maxRetries int) *PublishArticleTask {
	return &PublishArticleTask{
		Task:        NewTask(TaskTypePublishArticle, publisher.Name(), maxRetries),
		ArticlePath: articlePath,
		Article:     a,
		publisher:   publisher,
		pubRepo:     pubRepo,
	}
}

func (t *PublishArticleTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	hash := ContentHash(t.Article)

	if t.pubRepo != nil {
		existing, err := t.pubRepo.FindPublication(t.ArticlePath, t.Platform, hash)
		if err != nil {
			return fmt.Errorf("failed to check publication ledger: %w", err)
		}
		if existing != nil {
			t.Result = &publish.Result{Platform: t.Platform, ID: existing.RemoteID, URL: existing.URL}
			t.Skipped = true
			slog.Info("Article already published, skipping",
				"platform", t.Platform,
				"article", t.ArticlePath,
				"url", existing.URL)
			return nil
		}
	}

	result, err := t.publisher.Publish(ctx, t.Article)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", t.Platform, err)
	}
	t.Result = result

	if t.pubRepo != nil {
		_, err := t.pubRepo.RecordPublication(database.Publication{
			ArticlePath: t.ArticlePath,
			Platform:    t.Platform,
			ContentHash: hash,
			Title:       t.Article.Config.Title,
			URL:         result.URL,
			RemoteID:    result.ID,
		})
		if err != nil {
			// The post exists remotely; failing here would only invite a duplicate on retry.
			slog.Error("Failed to record publication", "platform", t.Platform, "article", t.ArticlePath, "error", err)
		}
	}

	slog.Info("Task completed",
		"type", "PublishArticle",
		"platform", t.Platform,
		"article", t.ArticlePath,
		"duration", t.GetDuration(),
		"url", result.URL)

	return nil
}

// ShouldRetry only retries failures where the platform cannot have accepted
// the post.
func (t *PublishArticleTask) ShouldRetry(err error) bool {
	return t.CanRetry() && publish.IsRetryable(err)
}

// ContentHash identifies an article version by its title and content.
func ContentHash(a *article.Article) string {
	content := fmt.Sprintf("%s|%s", a.Config.Title, a.Content)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
