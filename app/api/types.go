package api

import (
	"github.com/lysyi3m/crosspost/app/article"
	"github.com/lysyi3m/crosspost/app/database"
)

const (
	ErrorKindStructural = "structural"
	ErrorKindContent    = "content"
	ErrorKindResource   = "resource"
	ErrorKindMetadata   = "metadata"
)

// Articles larger than this are rejected before parsing.
const maxArticleSize = 1 << 20

type Handler struct {
	pubRepo   database.PublicationRepository
	canonical *article.Parser
	legacy    *article.Parser
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
