package story

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no progress record exists for the wallet.
	ErrNotFound = errors.New("story: progress record not found")
	// ErrUnknownChapter indicates the chapter id is not part of the catalog.
	ErrUnknownChapter = errors.New("story: unknown chapter")
	// ErrInvalidChoice indicates the choice index is out of range for the chapter.
	ErrInvalidChoice = errors.New("story: choice index out of range")
	// ErrAccessDenied indicates the chapter is gated and no NFT proof was supplied.
	ErrAccessDenied = errors.New("story: nft proof required")
	// ErrStateMismatch indicates the submitted chapter does not match live progress.
	ErrStateMismatch = errors.New("story: stale chapter state")
	// ErrStoreUnavailable indicates the persistence layer failed.
	ErrStoreUnavailable = errors.New("story: store unavailable")
)

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
