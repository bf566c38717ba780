package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/crosspost/app/article"
	"github.com/lysyi3m/crosspost/app/cfg"
	"github.com/lysyi3m/crosspost/app/database"
)

func NewHandler(pubRepo database.PublicationRepository) *Handler {
	return &Handler{
		pubRepo:   pubRepo,
		canonical: article.NewParser(article.Options{RewriteResources: true}),
		legacy:    article.NewParser(article.Options{}),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"status":    "ok",
		"version":   cfg.GetVersion(),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if count, err := h.pubRepo.GetPublicationCount(); err == nil {
		health["publications"] = count
	} else {
		slog.Error("Database error", "operation", "count_publications", "error", err)
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

// NormalizeArticle parses the request body as an article. base_url enables
// resource rewriting; mode=legacy returns metadata exactly as written.
func (h *Handler) NormalizeArticle(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxArticleSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "article is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	parser := h.canonical
	if c.Query("mode") == "legacy" {
		parser = h.legacy
	}

	a, err := parser.Run(string(body), c.Query("base_url"))
	if err != nil {
		slog.Debug("Article normalization failed", "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: errorKind(err)})
		return
	}

	c.JSON(http.StatusOK, a)
}

func (h *Handler) ListPublications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	publications, err := h.pubRepo.ListPublications(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_publications", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publications": publications,
		"count":        len(publications),
	})
}

func errorKind(err error) string {
	var resourceErr *article.ResourceError
	switch {
	case errors.Is(err, article.ErrIncorrectMetadata):
		return ErrorKindStructural
	case errors.Is(err, article.ErrMissingTitle):
		return ErrorKindContent
	case errors.As(err, &resourceErr):
		return ErrorKindResource
	default:
		return ErrorKindMetadata
	}
}
