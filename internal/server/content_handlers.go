package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kryptomurat/backend/internal/aigen"
	"github.com/kryptomurat/backend/internal/story"
)

type generateRequestPayload struct {
	Prompt      string `json:"prompt"`
	ContentType string `json:"content_type"`
}

type generateResponsePayload struct {
	Success     bool   `json:"success"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	SessionID   string `json:"session_id"`
}

func (h *httpHandler) handleAIGenerate(c *gin.Context) {
	if h.aigen == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generator_unavailable"})
		return
	}

	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	var request generateRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	contentType, err := aigen.ParseContentType(request.ContentType)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	result, err := h.aigen.Generate(c.Request.Context(), wallet.String(), request.Prompt, contentType)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, generateResponsePayload{
		Success:     true,
		Content:     result.Content,
		ContentType: string(result.ContentType),
		SessionID:   result.SessionID,
	})
}

type streamTokenRequestPayload struct {
	StreamID string `json:"stream_id"`
}

type streamTokenResponsePayload struct {
	Token       string `json:"token"`
	PlaybackURL string `json:"playback_url"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *httpHandler) handleStreamToken(c *gin.Context) {
	if h.streaming == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming_unavailable"})
		return
	}

	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	var request streamTokenRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.StreamID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	hasProof, ok := h.holdsAccessPass(c, wallet)
	if !ok {
		return
	}
	if !hasProof {
		h.respondDomainError(c, story.ErrAccessDenied)
		return
	}

	grant, err := h.streaming.IssuePlaybackToken(wallet.String(), request.StreamID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, streamTokenResponsePayload{
		Token:       grant.Token,
		PlaybackURL: grant.PlaybackURL,
		ExpiresIn:   grant.ExpiresIn,
	})
}
