package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"prospector/internal/model"
)

// ContentFetcher retrieves and extracts one URL under the hardened policy.
type ContentFetcher interface {
	Fetch(ctx context.Context, rawURL string) model.ExtractedContent
}

type ExtractHandler struct {
	fetcher ContentFetcher
}

func NewExtractHandler(fetcher ContentFetcher) *ExtractHandler {
	return &ExtractHandler{fetcher: fetcher}
}

type extractRequest struct {
	URL string `json:"url"`
}

func (h *ExtractHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	content := h.fetcher.Fetch(c.Request.Context(), req.URL)
	if content.Error != "" {
		slog.Info("extract rejected", "url", req.URL, "reason", content.Error)
		c.JSON(http.StatusBadRequest, gin.H{"error": content.Error})
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{
		URL:         content.URL,
		Title:       content.Title,
		Description: content.Description,
		BodyText:    content.BodyText,
		ContentKind: content.ContentKind,
		Metadata: MetadataResponse{
			Author:      content.Metadata.Author,
			PublishedAt: content.Metadata.PublishedAt,
			SiteName:    content.Metadata.SiteName,
			Image:       content.Metadata.Image,
			Language:    content.Metadata.Language,
		},
	})
}
