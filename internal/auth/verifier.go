package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrSignatureRejected indicates the wallet-linking service did not accept
// the signature for the given address and message.
var ErrSignatureRejected = errors.New("auth: signature rejected")

// SignatureVerifier checks that a signature over the login message was
// produced by the wallet. Signature cryptography lives in the external
// wallet-linking service; this process only forwards and trusts its verdict.
type SignatureVerifier interface {
	VerifySignature(ctx context.Context, address, message, signature string) error
}

// HTTPVerifierConfig configures the wallet-linking service client.
type HTTPVerifierConfig struct {
	VerifyURL  string
	HTTPClient *http.Client
}

// HTTPVerifier forwards signature checks to the wallet-linking service.
type HTTPVerifier struct {
	verifyURL string
	client    *http.Client
}

// NewHTTPVerifier constructs the verifier client.
func NewHTTPVerifier(cfg HTTPVerifierConfig) (*HTTPVerifier, error) {
	if cfg.VerifyURL == "" {
		return nil, errors.New("auth: verify url required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPVerifier{verifyURL: cfg.VerifyURL, client: client}, nil
}

type verifyRequestPayload struct {
	WalletAddress string `json:"wallet_address"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
}

// VerifySignature posts the triple to the linking service; any non-200
// response is a rejection.
func (v *HTTPVerifier) VerifySignature(ctx context.Context, address, message, signature string) error {
	body, err := json.Marshal(verifyRequestPayload{
		WalletAddress: address,
		Message:       message,
		Signature:     signature,
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := v.client.Do(request)
	if err != nil {
		return fmt.Errorf("auth: wallet-linking service unreachable: %w", err)
	}
	defer response.Body.Close() //nolint:errcheck

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrSignatureRejected, response.StatusCode)
	}
	return nil
}

// InsecureAllowAllVerifier accepts every signature. Local development only;
// wired when no verify URL is configured, with a startup warning.
type InsecureAllowAllVerifier struct{}

// VerifySignature always succeeds.
func (InsecureAllowAllVerifier) VerifySignature(context.Context, string, string, string) error {
	return nil
}
