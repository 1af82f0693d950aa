package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errMissingNonceStore = errors.New("auth: nonce store required")
	errMissingVerifier   = errors.New("auth: signature verifier required")
	errMissingTokens     = errors.New("auth: token issuer required")
)

// WalletAuthenticatorConfig describes the wallet login dependencies.
type WalletAuthenticatorConfig struct {
	Nonces   NonceStore
	Verifier SignatureVerifier
	Tokens   *TokenIssuer
	Logger   *zap.Logger
}

// WalletAuthenticator runs the two-step wallet login: issue a single-use
// challenge nonce, then trade a verified signature for a backend token.
type WalletAuthenticator struct {
	nonces   NonceStore
	verifier SignatureVerifier
	tokens   *TokenIssuer
	logger   *zap.Logger
}

// NewWalletAuthenticator constructs the authenticator.
func NewWalletAuthenticator(cfg WalletAuthenticatorConfig) (*WalletAuthenticator, error) {
	if cfg.Nonces == nil {
		return nil, errMissingNonceStore
	}
	if cfg.Verifier == nil {
		return nil, errMissingVerifier
	}
	if cfg.Tokens == nil {
		return nil, errMissingTokens
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletAuthenticator{
		nonces:   cfg.Nonces,
		verifier: cfg.Verifier,
		tokens:   cfg.Tokens,
		logger:   logger,
	}, nil
}

// BeginLogin stores a fresh nonce for the address and returns the message
// the wallet must sign.
func (a *WalletAuthenticator) BeginLogin(ctx context.Context, rawAddress string) (string, string, error) {
	address, err := NormalizeWalletAddress(rawAddress)
	if err != nil {
		return "", "", err
	}

	nonce, err := uuid.NewV7()
	if err != nil {
		return "", "", err
	}
	if err := a.nonces.Put(ctx, address, nonce.String()); err != nil {
		return "", "", err
	}

	return address, LoginMessage(address, nonce.String()), nil
}

// CompleteLogin consumes the pending nonce, verifies the signature over the
// login message, and issues a backend token for the address. The nonce is
// consumed before verification, so a rejected signature burns the challenge.
func (a *WalletAuthenticator) CompleteLogin(ctx context.Context, rawAddress, signature string) (string, int64, error) {
	address, err := NormalizeWalletAddress(rawAddress)
	if err != nil {
		return "", 0, err
	}

	nonce, err := a.nonces.Consume(ctx, address)
	if err != nil {
		return "", 0, err
	}

	message := LoginMessage(address, nonce)
	if err := a.verifier.VerifySignature(ctx, address, message, signature); err != nil {
		a.logger.Warn("wallet signature verification failed",
			zap.String("wallet_address", address),
			zap.Error(err),
		)
		return "", 0, err
	}

	return a.tokens.IssueBackendToken(ctx, address)
}
