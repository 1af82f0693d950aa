package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kryptomurat/backend/internal/aigen"
	"github.com/kryptomurat/backend/internal/claims"
	"github.com/kryptomurat/backend/internal/metaverse"
	"github.com/kryptomurat/backend/internal/story"
	"github.com/kryptomurat/backend/internal/streaming"
	"go.uber.org/zap"
)

const walletContextKey = "murat_wallet_address"

const storyVoteResourcePrefix = "story_"

var (
	errMissingAuthenticator = errors.New("wallet authenticator dependency required")
	errMissingTokenManager  = errors.New("token manager dependency required")
	errMissingCatalog       = errors.New("story catalog dependency required")
	errMissingLedger        = errors.New("story ledger dependency required")
	errMissingResolver      = errors.New("story resolver dependency required")
	errMissingClaims        = errors.New("claims service dependency required")
	errMissingMetaverse     = errors.New("metaverse service dependency required")
	errMissingAccessPass    = errors.New("access pass verifier dependency required")
	errInvalidAuthorization = errors.New("authorization header missing or invalid")
)

// WalletAuthenticator runs the two-step wallet login.
type WalletAuthenticator interface {
	BeginLogin(ctx context.Context, rawAddress string) (string, string, error)
	CompleteLogin(ctx context.Context, rawAddress, signature string) (string, int64, error)
}

// BackendTokenValidator checks bearer tokens and returns the wallet subject.
type BackendTokenValidator interface {
	ValidateToken(token string) (string, error)
}

// AccessPassVerifier answers NFT-ownership proofs for gated content.
type AccessPassVerifier interface {
	HoldsAccessPass(ctx context.Context, wallet string) (bool, error)
}

// Dependencies wires the HTTP surface to the domain services.
type Dependencies struct {
	Authenticator WalletAuthenticator
	TokenManager  BackendTokenValidator
	Catalog       *story.Catalog
	Ledger        *story.Ledger
	Resolver      *story.Resolver
	Claims        *claims.Service
	Metaverse     *metaverse.Service
	AccessPass    AccessPassVerifier
	AIGen         *aigen.Service
	Streaming     *streaming.TokenIssuer
	Logger        *zap.Logger
}

// NewHTTPHandler builds the gin router for the API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Authenticator == nil {
		return nil, errMissingAuthenticator
	}
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.Catalog == nil {
		return nil, errMissingCatalog
	}
	if deps.Ledger == nil {
		return nil, errMissingLedger
	}
	if deps.Resolver == nil {
		return nil, errMissingResolver
	}
	if deps.Claims == nil {
		return nil, errMissingClaims
	}
	if deps.Metaverse == nil {
		return nil, errMissingMetaverse
	}
	if deps.AccessPass == nil {
		return nil, errMissingAccessPass
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		authenticator: deps.Authenticator,
		tokens:        deps.TokenManager,
		catalog:       deps.Catalog,
		ledger:        deps.Ledger,
		resolver:      deps.Resolver,
		claims:        deps.Claims,
		metaverse:     deps.Metaverse,
		accessPass:    deps.AccessPass,
		aigen:         deps.AIGen,
		streaming:     deps.Streaming,
		logger:        logger,
	}

	router.POST("/auth/wallet/nonce", handler.handleWalletNonce)
	router.POST("/auth/wallet", handler.handleWalletLogin)
	router.GET("/story/chapters", handler.handleStoryChapters)
	router.GET("/metaverse/world", handler.handleWorld)
	router.GET("/metaverse/airdrops", handler.handleAirdrops)
	router.GET("/metaverse/voting/proposals", handler.handleProposals)
	router.GET("/metaverse/voting/results/:proposal", handler.handleVoteResults)
	router.GET("/metaverse/marketplace/nfts", handler.handleMarketplaceNFTs)

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.GET("/story/progress", handler.handleStoryProgress)
	protected.POST("/story/initialize", handler.handleStoryInitialize)
	protected.GET("/story/chapter/:id", handler.handleStoryChapter)
	protected.POST("/story/choice", handler.handleStoryChoice)
	protected.POST("/story/vote", handler.handleStoryVote)
	protected.GET("/story/votes/:vote_type", handler.handleStoryVoteResults)
	protected.POST("/metaverse/airdrop/claim", handler.handleAirdropClaim)
	protected.POST("/metaverse/voting/vote", handler.handleCastVote)
	protected.POST("/metaverse/marketplace/buy", handler.handleMarketplaceBuy)
	protected.GET("/metaverse/gallery", handler.handleGallery)
	protected.POST("/ai/generate", handler.handleAIGenerate)
	protected.POST("/streaming/token", handler.handleStreamToken)

	return router, nil
}

type httpHandler struct {
	authenticator WalletAuthenticator
	tokens        BackendTokenValidator
	catalog       *story.Catalog
	ledger        *story.Ledger
	resolver      *story.Resolver
	claims        *claims.Service
	metaverse     *metaverse.Service
	accessPass    AccessPassVerifier
	aigen         *aigen.Service
	streaming     *streaming.TokenIssuer
	logger        *zap.Logger
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	wallet, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(walletContextKey, wallet)
	c.Next()
}

func (h *httpHandler) contextWallet(c *gin.Context) (story.WalletAddress, bool) {
	raw := c.GetString(walletContextKey)
	wallet, err := story.NewWalletAddress(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return wallet, true
}

func (h *httpHandler) holdsAccessPass(c *gin.Context, wallet story.WalletAddress) (bool, bool) {
	hasProof, err := h.accessPass.HoldsAccessPass(c.Request.Context(), wallet.String())
	if err != nil {
		h.respondDomainError(c, err)
		return false, false
	}
	return hasProof, true
}
