package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidWalletAddress indicates the address is not a 0x-prefixed
// 40-hex-character string.
var ErrInvalidWalletAddress = errors.New("auth: invalid wallet address")

var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// NormalizeWalletAddress lowercases and validates an EVM-style wallet
// address. The rest of the service treats the result as an opaque identity.
func NormalizeWalletAddress(rawInput string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawInput))
	if !walletAddressPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidWalletAddress, rawInput)
	}
	return normalized, nil
}

// LoginMessage renders the message a wallet must sign to prove control of
// the address. The nonce binds the signature to one login attempt.
func LoginMessage(address, nonce string) string {
	return fmt.Sprintf("KryptoMurat Login\nWallet: %s\nNonce: %s", address, nonce)
}
