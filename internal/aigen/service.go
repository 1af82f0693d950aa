package aigen

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	opServiceNew = "aigen.service.new"
	opGenerate   = "aigen.generate"

	reasonMissingDatabase   = "missing_database"
	reasonMissingIDProvider = "missing_id_provider"
	reasonEmptyPrompt       = "empty_prompt"
	reasonInsertFailed      = "insert_failed"
	reasonIDFailed          = "id_generation_failed"

	completionMaxTokens   = 500
	completionTemperature = 0.8
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	errEmptyPrompt       = errors.New("prompt is required")
	noOpLogger           = zap.NewNop()
)

// CompletionClient is the slice of the OpenAI client the generator needs.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// IDProvider issues content and session identifiers.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies of the content generator.
type ServiceConfig struct {
	Database   *gorm.DB
	Client     CompletionClient
	Model      string
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service generates themed content through the completion API, falling back
// to the canned content table when the API is unavailable. Every generated
// item is persisted per wallet.
type Service struct {
	db         *gorm.DB
	client     CompletionClient
	model      string
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService constructs the generator. A nil Client is allowed and routes
// every request to the fallback table.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("%s.%s: %w", opServiceNew, reasonMissingDatabase, errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("%s.%s: %w", opServiceNew, reasonMissingIDProvider, errMissingIDProvider)
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:         cfg.Database,
		client:     cfg.Client,
		model:      model,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// GenerateResult is the user-facing generator output.
type GenerateResult struct {
	Content     string
	ContentType ContentType
	SessionID   string
}

// Generate produces content for the prompt and persists the result.
func (s *Service) Generate(ctx context.Context, wallet, prompt string, contentType ContentType) (GenerateResult, error) {
	if prompt == "" {
		return GenerateResult{}, fmt.Errorf("%s.%s: %w", opGenerate, reasonEmptyPrompt, errEmptyPrompt)
	}

	content := s.complete(ctx, prompt, contentType)

	contentID, err := s.idProvider.NewID()
	if err != nil {
		return GenerateResult{}, fmt.Errorf("%s.%s: %w", opGenerate, reasonIDFailed, err)
	}
	sessionID, err := s.idProvider.NewID()
	if err != nil {
		return GenerateResult{}, fmt.Errorf("%s.%s: %w", opGenerate, reasonIDFailed, err)
	}

	record := GeneratedContent{
		ContentID:        contentID,
		WalletAddress:    wallet,
		Prompt:           prompt,
		ContentType:      contentType,
		Content:          content,
		SessionID:        sessionID,
		CreatedAtSeconds: s.clock().UTC().Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logger.Error("ai content insert failed",
			zap.String("operation", opGenerate),
			zap.String("reason", reasonInsertFailed),
			zap.String("wallet_address", wallet),
			zap.Error(err),
		)
		return GenerateResult{}, fmt.Errorf("%s.%s: %w", opGenerate, reasonInsertFailed, err)
	}

	return GenerateResult{
		Content:     content,
		ContentType: contentType,
		SessionID:   sessionID,
	}, nil
}

func (s *Service) complete(ctx context.Context, prompt string, contentType ContentType) string {
	if s.client == nil {
		return fallbackContent(contentType, prompt)
	}

	completion, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage(contentType)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		s.logger.Warn("completion api failed, serving fallback content",
			zap.String("content_type", string(contentType)),
			zap.Error(err),
		)
		return fallbackContent(contentType, prompt)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return fallbackContent(contentType, prompt)
	}
	return completion.Choices[0].Message.Content
}

// History lists the wallet's generated content, newest first.
func (s *Service) History(ctx context.Context, wallet string) ([]GeneratedContent, error) {
	var records []GeneratedContent
	err := s.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Order("created_at_s DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%s.query_failed: %w", opGenerate, err)
	}
	return records, nil
}
