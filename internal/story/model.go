package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ChapterCompleted is the terminal sentinel stored in current_chapter once a
// choice with no follow-up chapter has been committed.
const ChapterCompleted = "story_completed"

const maxIdentifierLength = 190

// ErrInvalidWalletAddress indicates an empty or oversized wallet identifier.
var ErrInvalidWalletAddress = errors.New("story: invalid wallet address")

// WalletAddress represents a validated, normalized wallet identifier. The
// engine treats it as opaque; format checks belong to the auth layer.
type WalletAddress string

// NewWalletAddress validates raw input and returns a WalletAddress.
func NewWalletAddress(rawInput string) (WalletAddress, error) {
	trimmed := strings.ToLower(strings.TrimSpace(rawInput))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidWalletAddress)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidWalletAddress, maxIdentifierLength)
	}
	return WalletAddress(trimmed), nil
}

// String returns the underlying address string.
func (a WalletAddress) String() string {
	return string(a)
}

// Choice is an edge from a chapter to its follow-up, carrying the reputation
// delta applied when the choice commits. An empty Next ends the story.
type Choice struct {
	Text            string
	ReputationDelta int64
	Consequence     string
	Next            string
	PathTag         string
}

// Chapter is a node in the static narrative graph. Gated chapters require
// proof of NFT ownership to enter.
type Chapter struct {
	ID          string
	Number      int
	Title       string
	Description string
	Content     string
	Gated       bool
	PathTag     string
	Choices     []Choice
}

// ProgressRecord is the per-wallet story state. Mutated only by the choice
// resolver through the ledger's guarded update.
type ProgressRecord struct {
	WalletAddress     string `gorm:"column:wallet_address;primaryKey;size:190;not null"`
	CurrentChapter    string `gorm:"column:current_chapter;size:64;not null"`
	CompletedChapters string `gorm:"column:completed_chapters;type:text;not null;default:'[]'"`
	ReputationScore   int64  `gorm:"column:reputation_score;not null;default:0"`
	StoryPath         string `gorm:"column:story_path;size:64;not null;default:''"`
	CreatedAtSeconds  int64  `gorm:"column:created_at_s;not null"`
	UpdatedAtSeconds  int64  `gorm:"column:updated_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (ProgressRecord) TableName() string {
	return "story_progress"
}

// CompletedList decodes the completed chapter ids in completion order.
func (r ProgressRecord) CompletedList() ([]string, error) {
	if strings.TrimSpace(r.CompletedChapters) == "" {
		return []string{}, nil
	}
	var completed []string
	if err := json.Unmarshal([]byte(r.CompletedChapters), &completed); err != nil {
		return nil, fmt.Errorf("story: decode completed chapters: %w", err)
	}
	return completed, nil
}

// CompletedSet exposes completed chapter ids for constant-time membership checks.
func (r ProgressRecord) CompletedSet() (map[string]struct{}, error) {
	completed, err := r.CompletedList()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		set[id] = struct{}{}
	}
	return set, nil
}

func encodeCompleted(completed []string) (string, error) {
	encoded, err := json.Marshal(completed)
	if err != nil {
		return "", fmt.Errorf("story: encode completed chapters: %w", err)
	}
	return string(encoded), nil
}
