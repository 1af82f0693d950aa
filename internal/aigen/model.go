package aigen

import (
	"errors"
	"fmt"
	"strings"
)

// ContentType enumerates the supported generator modes.
type ContentType string

const (
	ContentTypeMeme  ContentType = "meme"
	ContentTypeComic ContentType = "comic"
	ContentTypeStory ContentType = "story"
	ContentTypeText  ContentType = "text"
)

// ErrInvalidContentType indicates an unsupported content type value.
var ErrInvalidContentType = errors.New("aigen: invalid content type")

// ParseContentType validates raw input against the closed type set.
func ParseContentType(rawInput string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(rawInput)) {
	case string(ContentTypeMeme):
		return ContentTypeMeme, nil
	case string(ContentTypeComic):
		return ContentTypeComic, nil
	case string(ContentTypeStory):
		return ContentTypeStory, nil
	case string(ContentTypeText):
		return ContentTypeText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, rawInput)
	}
}

// GeneratedContent persists one generator invocation per wallet.
type GeneratedContent struct {
	ContentID        string      `gorm:"column:content_id;primaryKey;size:190;not null"`
	WalletAddress    string      `gorm:"column:wallet_address;size:190;not null;index:idx_ai_content_wallet"`
	Prompt           string      `gorm:"column:prompt;type:text;not null"`
	ContentType      ContentType `gorm:"column:content_type;size:16;not null"`
	Content          string      `gorm:"column:content;type:text;not null"`
	SessionID        string      `gorm:"column:session_id;size:190;not null"`
	CreatedAtSeconds int64       `gorm:"column:created_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (GeneratedContent) TableName() string {
	return "ai_content"
}
