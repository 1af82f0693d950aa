package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kryptomurat/backend/internal/aigen"
	"github.com/kryptomurat/backend/internal/auth"
	"github.com/kryptomurat/backend/internal/claims"
	"github.com/kryptomurat/backend/internal/metaverse"
	"github.com/kryptomurat/backend/internal/story"
	"go.uber.org/zap"
)

// serviceCoder is implemented by the per-package ServiceError types.
type serviceCoder interface {
	Code() string
}

// respondDomainError translates the domain error taxonomy into HTTP. Every
// response names the failure kind; the structured service code rides along
// when present.
func (h *httpHandler) respondDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal_error"

	switch {
	case errors.Is(err, story.ErrUnknownChapter):
		status, kind = http.StatusNotFound, "unknown_chapter"
	case errors.Is(err, story.ErrNotFound):
		status, kind = http.StatusNotFound, "progress_not_found"
	case errors.Is(err, story.ErrInvalidChoice):
		status, kind = http.StatusBadRequest, "invalid_choice"
	case errors.Is(err, story.ErrAccessDenied):
		status, kind = http.StatusForbidden, "access_denied"
	case errors.Is(err, story.ErrStateMismatch):
		status, kind = http.StatusConflict, "state_mismatch"
	case errors.Is(err, claims.ErrAlreadyClaimed):
		status, kind = http.StatusConflict, "already_claimed"
	case errors.Is(err, claims.ErrUnknownResource):
		status, kind = http.StatusNotFound, "unknown_resource"
	case errors.Is(err, claims.ErrInvalidOption):
		status, kind = http.StatusBadRequest, "invalid_option"
	case errors.Is(err, metaverse.ErrUnknownNFT):
		status, kind = http.StatusNotFound, "unknown_nft"
	case errors.Is(err, aigen.ErrInvalidContentType):
		status, kind = http.StatusBadRequest, "invalid_content_type"
	case errors.Is(err, auth.ErrInvalidWalletAddress):
		status, kind = http.StatusBadRequest, "invalid_wallet_address"
	case errors.Is(err, auth.ErrNonceNotFound):
		status, kind = http.StatusUnauthorized, "nonce_expired"
	case errors.Is(err, auth.ErrSignatureRejected):
		status, kind = http.StatusUnauthorized, "signature_rejected"
	case errors.Is(err, story.ErrStoreUnavailable),
		errors.Is(err, claims.ErrStoreUnavailable),
		errors.Is(err, metaverse.ErrStoreUnavailable):
		status, kind = http.StatusServiceUnavailable, "store_unavailable"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}

	payload := gin.H{"error": kind}
	var coded serviceCoder
	if errors.As(err, &coded) {
		payload["code"] = coded.Code()
	}
	c.JSON(status, payload)
}
