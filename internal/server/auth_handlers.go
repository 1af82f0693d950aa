package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type nonceRequestPayload struct {
	WalletAddress string `json:"wallet_address"`
}

type nonceResponsePayload struct {
	WalletAddress string `json:"wallet_address"`
	Message       string `json:"message"`
}

func (h *httpHandler) handleWalletNonce(c *gin.Context) {
	var request nonceRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.WalletAddress) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	address, message, err := h.authenticator.BeginLogin(c.Request.Context(), request.WalletAddress)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonceResponsePayload{WalletAddress: address, Message: message})
}

type loginRequestPayload struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
}

type loginResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (h *httpHandler) handleWalletLogin(c *gin.Context) {
	var request loginRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.WalletAddress) == "" ||
		strings.TrimSpace(request.Signature) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	token, expiresIn, err := h.authenticator.CompleteLogin(c.Request.Context(), request.WalletAddress, request.Signature)
	if err != nil {
		h.logger.Warn("wallet login failed",
			zap.String("wallet_address", request.WalletAddress),
			zap.Error(err),
		)
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	})
}
