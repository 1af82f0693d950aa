package story

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	opResolverNew   = "story.resolver.new"
	opResolveChoice = "story.resolve_choice"
	opViewChapter   = "story.view_chapter"

	reasonMissingCatalog = "missing_catalog"
	reasonMissingLedger  = "missing_ledger"
	reasonGated          = "gated"
	reasonChoiceRange    = "choice_out_of_range"
)

var (
	errMissingCatalog = errors.New("chapter catalog is required")
	errMissingLedger  = errors.New("progress ledger is required")
)

// ChoiceOutcome is the committed result of a choice: the follow-up chapter
// (empty when the story ended), the applied reputation delta, the consequence
// text, and the updated progress record.
type ChoiceOutcome struct {
	NextChapter     string
	ReputationDelta int64
	Consequence     string
	Progress        ProgressRecord
}

// ResolverConfig describes the dependencies of the choice resolver.
type ResolverConfig struct {
	Catalog *Catalog
	Ledger  *Ledger
	Logger  *zap.Logger
}

// Resolver is the sole authority for story state transitions. It validates
// every submitted choice against the catalog and the live progress record
// before committing; client-supplied chapter ids are never trusted on their
// own.
type Resolver struct {
	catalog *Catalog
	ledger  *Ledger
	logger  *zap.Logger
}

// NewResolver constructs the choice resolver.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Catalog == nil {
		return nil, newServiceError(opResolverNew, reasonMissingCatalog, errMissingCatalog)
	}
	if cfg.Ledger == nil {
		return nil, newServiceError(opResolverNew, reasonMissingLedger, errMissingLedger)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Resolver{catalog: cfg.Catalog, ledger: cfg.Ledger, logger: logger}, nil
}

// ViewChapter returns the chapter for display, enforcing the NFT gate.
func (r *Resolver) ViewChapter(chapterID string, hasNftProof bool) (Chapter, error) {
	chapter, err := r.catalog.Chapter(chapterID)
	if err != nil {
		return Chapter{}, newServiceError(opViewChapter, "unknown_chapter", err)
	}
	if chapter.Gated && !hasNftProof {
		return Chapter{}, newServiceError(opViewChapter, reasonGated, ErrAccessDenied)
	}
	return chapter, nil
}

// ResolveChoice validates the submitted choice and commits the transition.
// Failure kinds, in validation order: ErrUnknownChapter, ErrAccessDenied,
// ErrInvalidChoice, ErrNotFound (no progress record), ErrStateMismatch
// (live current_chapter differs from the submitted chapter, before or during
// the commit).
func (r *Resolver) ResolveChoice(ctx context.Context, wallet WalletAddress, chapterID string, choiceIndex int, hasNftProof bool) (ChoiceOutcome, error) {
	chapter, err := r.catalog.Chapter(chapterID)
	if err != nil {
		return ChoiceOutcome{}, newServiceError(opResolveChoice, "unknown_chapter", err)
	}
	if chapter.Gated && !hasNftProof {
		return ChoiceOutcome{}, newServiceError(opResolveChoice, reasonGated, ErrAccessDenied)
	}
	if choiceIndex < 0 || choiceIndex >= len(chapter.Choices) {
		return ChoiceOutcome{}, newServiceError(opResolveChoice, reasonChoiceRange,
			fmt.Errorf("%w: index %d of %d choices", ErrInvalidChoice, choiceIndex, len(chapter.Choices)))
	}

	progress, err := r.ledger.GetProgress(ctx, wallet)
	if err != nil {
		return ChoiceOutcome{}, err
	}
	if progress.CurrentChapter != chapterID {
		return ChoiceOutcome{}, newServiceError(opResolveChoice, reasonStaleChapter,
			fmt.Errorf("%w: live chapter %s, submitted %s", ErrStateMismatch, progress.CurrentChapter, chapterID))
	}

	choice := chapter.Choices[choiceIndex]
	updated, err := r.ledger.ApplyTransition(ctx, wallet, chapterID, choice.Next, choice.ReputationDelta, choice.PathTag)
	if err != nil {
		return ChoiceOutcome{}, err
	}

	r.logger.Info("story choice committed",
		zap.String("wallet_address", wallet.String()),
		zap.String("chapter_id", chapterID),
		zap.Int("choice_index", choiceIndex),
		zap.Int64("reputation_delta", choice.ReputationDelta),
		zap.String("next_chapter", choice.Next),
	)

	return ChoiceOutcome{
		NextChapter:     choice.Next,
		ReputationDelta: choice.ReputationDelta,
		Consequence:     choice.Consequence,
		Progress:        updated,
	}, nil
}
