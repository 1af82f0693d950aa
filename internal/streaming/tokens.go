package streaming

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultPlaybackTTL = 15 * time.Minute

var (
	errMissingSigningSecret = errors.New("streaming: signing secret required")
	errMissingWallet        = errors.New("streaming: wallet address required")
	errMissingStreamID      = errors.New("streaming: stream id required")
)

// TokenIssuerConfig configures the playback token issuer.
type TokenIssuerConfig struct {
	SigningSecret []byte
	BaseURL       string
	TokenTTL      time.Duration
	Clock         func() time.Time
}

// TokenIssuer signs short-lived playback tokens for the NFT-gated stream.
// Video delivery stays with the external streaming provider; the token only
// proves that this backend admitted the wallet.
type TokenIssuer struct {
	signingSecret []byte
	baseURL       string
	ttl           time.Duration
	clock         func() time.Time
}

// NewTokenIssuer constructs the playback token issuer.
func NewTokenIssuer(cfg TokenIssuerConfig) (*TokenIssuer, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, errMissingSigningSecret
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultPlaybackTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TokenIssuer{
		signingSecret: cfg.SigningSecret,
		baseURL:       cfg.BaseURL,
		ttl:           ttl,
		clock:         clock,
	}, nil
}

type playbackClaims struct {
	StreamID string `json:"stream_id"`
	jwt.RegisteredClaims
}

// PlaybackGrant is the signed admission to a stream.
type PlaybackGrant struct {
	Token       string
	PlaybackURL string
	ExpiresIn   int64
}

// IssuePlaybackToken signs a playback token for the wallet and stream.
func (i *TokenIssuer) IssuePlaybackToken(walletAddress, streamID string) (PlaybackGrant, error) {
	if walletAddress == "" {
		return PlaybackGrant{}, errMissingWallet
	}
	if streamID == "" {
		return PlaybackGrant{}, errMissingStreamID
	}

	now := i.clock().UTC()
	expiresAt := now.Add(i.ttl)

	claims := playbackClaims{
		StreamID: streamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   walletAddress,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.signingSecret)
	if err != nil {
		return PlaybackGrant{}, err
	}

	return PlaybackGrant{
		Token:       signed,
		PlaybackURL: fmt.Sprintf("%s?token=%s", i.baseURL, signed),
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
	}, nil
}

// ValidatePlaybackToken checks the token and returns the wallet and stream
// it was issued for.
func (i *TokenIssuer) ValidatePlaybackToken(tokenString string) (string, string, error) {
	claims := &playbackClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing algorithm: %s", token.Method.Alg())
			}
			return i.signingSecret, nil
		},
		jwt.WithTimeFunc(i.clock),
	)
	if err != nil {
		return "", "", err
	}
	if claims.Subject == "" || claims.StreamID == "" {
		return "", "", errors.New("streaming: incomplete playback claims")
	}
	return claims.Subject, claims.StreamID, nil
}
