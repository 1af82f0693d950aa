package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleWorld(c *gin.Context) {
	c.JSON(http.StatusOK, h.metaverse.World())
}

func (h *httpHandler) handleAirdrops(c *gin.Context) {
	c.JSON(http.StatusOK, h.claims.Airdrops())
}

type airdropClaimRequestPayload struct {
	AirdropID string `json:"airdrop_id"`
}

type airdropClaimResponsePayload struct {
	Success bool   `json:"success"`
	Amount  int64  `json:"amount"`
	Message string `json:"message"`
}

func (h *httpHandler) handleAirdropClaim(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	var request airdropClaimRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.AirdropID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	claim, err := h.claims.ClaimAirdrop(c.Request.Context(), wallet.String(), request.AirdropID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, airdropClaimResponsePayload{
		Success: true,
		Amount:  claim.Amount,
		Message: claim.Message,
	})
}

func (h *httpHandler) handleProposals(c *gin.Context) {
	c.JSON(http.StatusOK, h.claims.Proposals())
}

type castVoteRequestPayload struct {
	ProposalID string `json:"proposal_id"`
	Option     string `json:"option"`
}

func (h *httpHandler) handleCastVote(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	var request castVoteRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.ProposalID) == "" ||
		strings.TrimSpace(request.Option) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if err := h.claims.CastVote(c.Request.Context(), wallet.String(), request.ProposalID, request.Option); err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

func (h *httpHandler) handleVoteResults(c *gin.Context) {
	tally, err := h.claims.TallyVotes(c.Request.Context(), c.Param("proposal"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": tally})
}

func (h *httpHandler) handleMarketplaceNFTs(c *gin.Context) {
	c.JSON(http.StatusOK, h.metaverse.Listings())
}

type buyRequestPayload struct {
	NFTID string `json:"nft_id"`
}

type buyResponsePayload struct {
	Success         bool   `json:"success"`
	NFTID           string `json:"nft_id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	TransactionHash string `json:"transaction_hash"`
	Message         string `json:"message"`
}

func (h *httpHandler) handleMarketplaceBuy(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	var request buyRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.NFTID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	receipt, err := h.metaverse.Purchase(c.Request.Context(), wallet.String(), request.NFTID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, buyResponsePayload{
		Success:         true,
		NFTID:           receipt.NFT.ID,
		Name:            receipt.NFT.Name,
		Price:           receipt.NFT.Price,
		TransactionHash: receipt.TransactionHash,
		Message:         receipt.Message,
	})
}

type galleryItemPayload struct {
	NFTID         string `json:"nft_id"`
	SoldAtSeconds int64  `json:"sold_at_s"`
}

func (h *httpHandler) handleGallery(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	owned, err := h.metaverse.Gallery(c.Request.Context(), wallet.String())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	items := make([]galleryItemPayload, 0, len(owned))
	for _, ownership := range owned {
		items = append(items, galleryItemPayload{
			NFTID:         ownership.NFTID,
			SoldAtSeconds: ownership.SoldAtSeconds,
		})
	}
	c.JSON(http.StatusOK, gin.H{"nfts": items})
}
