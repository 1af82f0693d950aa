package claims

import (
	"errors"
	"fmt"
)

// Kind separates exclusive one-shot claims from overwritable votes.
type Kind string

const (
	// KindAirdrop marks exclusive claims: at most one per wallet and resource.
	KindAirdrop Kind = "airdrop"
	// KindVote marks overwritable records: the latest vote per wallet and
	// proposal replaces the prior one.
	KindVote Kind = "vote"
)

var (
	// ErrAlreadyClaimed indicates a duplicate exclusive claim.
	ErrAlreadyClaimed = errors.New("claims: resource already claimed")
	// ErrUnknownResource indicates the resource id is not in the catalog.
	ErrUnknownResource = errors.New("claims: unknown resource")
	// ErrInvalidOption indicates a vote option outside the proposal's list.
	ErrInvalidOption = errors.New("claims: invalid vote option")
	// ErrStoreUnavailable indicates the persistence layer failed.
	ErrStoreUnavailable = errors.New("claims: store unavailable")
)

// ClaimRecord is one row per (wallet, resource, kind). For airdrops the row
// is immutable once written; for votes the payload and timestamp are
// overwritten in place.
type ClaimRecord struct {
	WalletAddress    string `gorm:"column:wallet_address;primaryKey;size:190;not null"`
	ResourceID       string `gorm:"column:resource_id;primaryKey;size:190;not null"`
	Kind             Kind   `gorm:"column:kind;primaryKey;size:16;not null"`
	Payload          string `gorm:"column:payload;size:190;not null"`
	CreatedAtSeconds int64  `gorm:"column:created_at_s;not null"`
	UpdatedAtSeconds int64  `gorm:"column:updated_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (ClaimRecord) TableName() string {
	return "claim_records"
}

// ServiceError carries a machine-readable code alongside the wrapped cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code returns the structured error code in <operation>.<reason> form.
func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}
