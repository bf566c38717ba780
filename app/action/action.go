package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/crosspost/app/article"
	"github.com/lysyi3m/crosspost/app/database"
	"github.com/lysyi3m/crosspost/app/publish"
	"github.com/lysyi3m/crosspost/app/source"
	"github.com/lysyi3m/crosspost/app/tasks"
)

type ChangeLister interface {
	ChangedFiles(ctx context.Context, ref string) ([]source.ChangedFile, error)
}

type ArticleReader interface {
	Read(name string) (string, error)
}

var (
	_ ChangeLister  = (*source.GitHub)(nil)
	_ ArticleReader = (*source.Workspace)(nil)
)

type Params struct {
	Repository     string
	Ref            string
	ArticlesFolder string
	MaxRetries     int
	OutputFile     string
}

type Action struct {
	changes    ChangeLister
	reader     ArticleReader
	parser     *article.Parser
	publishers []publish.Publisher
	pubRepo    database.PublicationRepository
	runner     tasks.TaskRunnerInterface
}

func New(changes ChangeLister, reader ArticleReader, publishers []publish.Publisher,
	pubRepo database.PublicationRepository, runner tasks.TaskRunnerInterface) *Action {
	return &Action{
		changes:    changes,
		reader:     reader,
		parser:     article.NewParser(article.Options{RewriteResources: true}),
		publishers: publishers,
		pubRepo:    pubRepo,
		runner:     runner,
	}
}

// Run publishes the article touched by the pushed commit to every platform.
// Outputs for successful platforms are written even when another one fails.
func (a *Action) Run(ctx context.Context, p Params) ([]publish.Result, error) {
	files, err := a.changes.ChangedFiles(ctx, p.Ref)
	if err != nil {
		return nil, err
	}

	name, err := source.FindArticle(files, p.ArticlesFolder)
	if err != nil {
		return nil, err
	}
	slog.Info("Found article", "path", name, "ref", p.Ref)

	raw, err := a.reader.Read(name)
	if err != nil {
		return nil, err
	}

	base := source.BaseResourceURL(p.Repository, p.Ref, name)
	art, err := a.parser.Run(raw, base)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", name, err)
	}
	slog.Info("Article normalized",
		"title", art.Config.Title,
		"license", string(art.Config.License),
		"published", art.Config.IsPublished(),
		"tags", len(art.Config.Tags))

	publishTasks := make([]*tasks.PublishArticleTask, len(a.publishers))
	batch := make([]tasks.TaskInterface, len(a.publishers))
	for i, publisher := range a.publishers {
		publishTasks[i] = tasks.NewPublishArticleTask(name, art, publisher, a.pubRepo, p.MaxRetries)
		batch[i] = publishTasks[i]
	}

	errs := a.runner.Run(ctx, batch)

	var results []publish.Result
	var failures []error
	outputs := make(map[string]string)
	for i, task := range publishTasks {
		if errs[i] != nil {
			failures = append(failures, errs[i])
			continue
		}
		results = append(results, *task.Result)
		outputs[task.GetPlatform()+"_url"] = task.Result.URL
	}

	if err := WriteOutputs(p.OutputFile, outputs); err != nil {
		failures = append(failures, err)
	}

	return results, errors.Join(failures...)
}
