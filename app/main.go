package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/crosspost/app/action"
	"github.com/lysyi3m/crosspost/app/api"
	"github.com/lysyi3m/crosspost/app/cfg"
	"github.com/lysyi3m/crosspost/app/database"
	"github.com/lysyi3m/crosspost/app/publish"
	"github.com/lysyi3m/crosspost/app/source"
	"github.com/lysyi3m/crosspost/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Crosspost failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		return nil
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Crosspost", "version", appCfg.Version, "serve", appCfg.Serve)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Database ready", "path", appCfg.DBPath, "version", version, "dirty", dirty)

	pubRepo := database.NewPublicationRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appCfg.Serve {
		return serve(ctx, appCfg, pubRepo)
	}
	return publishOnce(ctx, appCfg, pubRepo)
}

func publishOnce(ctx context.Context, appCfg *cfg.Cfg, pubRepo database.PublicationRepository) error {
	httpClient := &http.Client{Timeout: appCfg.HTTPTimeout}

	github, err := source.NewGitHub(ctx, httpClient, appCfg.GitHubAPIURL, appCfg.Repository, appCfg.GitHubToken, appCfg.UserAgent)
	if err != nil {
		return err
	}

	medium, err := publish.NewMedium(httpClient, appCfg.MediumBaseURL, appCfg.MediumToken,
		appCfg.MediumUserID, appCfg.MediumContentFormat, appCfg.UserAgent)
	if err != nil {
		return err
	}
	devto := publish.NewDevTo(httpClient, appCfg.DevToBaseURL, appCfg.DevToAPIKey, appCfg.UserAgent)

	runner := tasks.NewRunner(appCfg.WorkerCount, time.Second)
	a := action.New(github, source.NewWorkspace(appCfg.WorkspaceDir),
		[]publish.Publisher{medium, devto}, pubRepo, runner)

	results, err := a.Run(ctx, action.Params{
		Repository:     appCfg.Repository,
		Ref:            appCfg.Ref,
		ArticlesFolder: appCfg.ArticlesFolder,
		MaxRetries:     appCfg.MaxRetries,
		OutputFile:     appCfg.OutputFile,
	})

	for _, result := range results {
		slog.Info("Published", "platform", result.Platform, "url", result.URL)
	}

	if errors.Is(err, source.ErrNoArticle) {
		slog.Warn("No article found in commit, nothing to publish", "folder", appCfg.ArticlesFolder)
		return nil
	}
	return err
}

func serve(ctx context.Context, appCfg *cfg.Cfg, pubRepo database.PublicationRepository) error {
	server := api.NewServer(api.NewHandler(pubRepo), appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case serveErr = <-serverErrChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}
