package story

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	opLedgerNew       = "story.ledger.new"
	opGetOrInit       = "story.get_or_init_progress"
	opGetProgress     = "story.get_progress"
	opApplyTransition = "story.apply_transition"

	reasonMissingDatabase = "missing_database"
	reasonMissingStart    = "missing_start_chapter"
	reasonInsertFailed    = "insert_failed"
	reasonLookupFailed    = "lookup_failed"
	reasonRecordMissing   = "record_missing"
	reasonDecodeFailed    = "decode_failed"
	reasonEncodeFailed    = "encode_failed"
	reasonUpdateFailed    = "update_failed"
	reasonStaleChapter    = "stale_chapter"
)

var (
	errMissingDatabase     = errors.New("database handle is required")
	errMissingStartChapter = errors.New("starting chapter is required")
	noOpLogger             = zap.NewNop()
)

// LedgerConfig describes the dependencies of the progress ledger.
type LedgerConfig struct {
	Database     *gorm.DB
	StartChapter string
	Clock        func() time.Time
	Logger       *zap.Logger
}

// Ledger owns the per-wallet progress records. Every mutation is a single
// atomic statement against the store; no read-then-write from here is
// trusted without a guard on current_chapter.
type Ledger struct {
	db           *gorm.DB
	startChapter string
	clock        func() time.Time
	logger       *zap.Logger
}

// NewLedger constructs the progress ledger.
func NewLedger(cfg LedgerConfig) (*Ledger, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opLedgerNew, reasonMissingDatabase, errMissingDatabase)
	}
	if cfg.StartChapter == "" {
		return nil, newServiceError(opLedgerNew, reasonMissingStart, errMissingStartChapter)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Ledger{
		db:           cfg.Database,
		startChapter: cfg.StartChapter,
		clock:        clock,
		logger:       logger,
	}, nil
}

// GetOrInitProgress returns the wallet's progress record, lazily creating it
// at the starting chapter. The insert uses ON CONFLICT DO NOTHING so two
// racing first requests produce exactly one record; the loser reads the
// winner's row.
func (l *Ledger) GetOrInitProgress(ctx context.Context, wallet WalletAddress) (ProgressRecord, error) {
	now := l.clock().UTC().Unix()
	record := ProgressRecord{
		WalletAddress:     wallet.String(),
		CurrentChapter:    l.startChapter,
		CompletedChapters: "[]",
		ReputationScore:   0,
		StoryPath:         "",
		CreatedAtSeconds:  now,
		UpdatedAtSeconds:  now,
	}

	err := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet_address"}},
			DoNothing: true,
		}).
		Create(&record).Error
	if err != nil {
		l.logError(opGetOrInit, reasonInsertFailed, err, wallet)
		return ProgressRecord{}, newServiceError(opGetOrInit, reasonInsertFailed, errors.Join(ErrStoreUnavailable, err))
	}

	var stored ProgressRecord
	if err := l.db.WithContext(ctx).
		Where("wallet_address = ?", wallet.String()).
		Take(&stored).Error; err != nil {
		l.logError(opGetOrInit, reasonLookupFailed, err, wallet)
		return ProgressRecord{}, newServiceError(opGetOrInit, reasonLookupFailed, errors.Join(ErrStoreUnavailable, err))
	}

	return stored, nil
}

// GetProgress returns the wallet's progress record or ErrNotFound.
func (l *Ledger) GetProgress(ctx context.Context, wallet WalletAddress) (ProgressRecord, error) {
	var stored ProgressRecord
	err := l.db.WithContext(ctx).
		Where("wallet_address = ?", wallet.String()).
		Take(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProgressRecord{}, newServiceError(opGetProgress, reasonRecordMissing, ErrNotFound)
	}
	if err != nil {
		l.logError(opGetProgress, reasonLookupFailed, err, wallet)
		return ProgressRecord{}, newServiceError(opGetProgress, reasonLookupFailed, errors.Join(ErrStoreUnavailable, err))
	}
	return stored, nil
}

// ApplyTransition commits a chapter completion: appends fromChapter to the
// completed set, moves current_chapter to nextChapter (or the terminal
// sentinel when empty), increments the reputation score in SQL, and sets the
// story path on first non-empty tag. The whole write is guarded by a
// compare-and-set on current_chapter, so the values computed from the read
// snapshot only commit if no concurrent transition advanced the record first.
func (l *Ledger) ApplyTransition(ctx context.Context, wallet WalletAddress, fromChapter, nextChapter string, reputationDelta int64, pathTag string) (ProgressRecord, error) {
	current, err := l.GetProgress(ctx, wallet)
	if err != nil {
		return ProgressRecord{}, err
	}
	if current.CurrentChapter != fromChapter {
		return ProgressRecord{}, newServiceError(opApplyTransition, reasonStaleChapter, ErrStateMismatch)
	}

	completed, err := current.CompletedList()
	if err != nil {
		l.logError(opApplyTransition, reasonDecodeFailed, err, wallet)
		return ProgressRecord{}, newServiceError(opApplyTransition, reasonDecodeFailed, err)
	}
	alreadyCompleted := false
	for _, id := range completed {
		if id == fromChapter {
			alreadyCompleted = true
			break
		}
	}
	if !alreadyCompleted {
		completed = append(completed, fromChapter)
	}
	completedJSON, err := encodeCompleted(completed)
	if err != nil {
		l.logError(opApplyTransition, reasonEncodeFailed, err, wallet)
		return ProgressRecord{}, newServiceError(opApplyTransition, reasonEncodeFailed, err)
	}

	target := nextChapter
	if target == "" {
		target = ChapterCompleted
	}

	updates := map[string]interface{}{
		"current_chapter":    target,
		"completed_chapters": completedJSON,
		"reputation_score":   gorm.Expr("reputation_score + ?", reputationDelta),
		"updated_at_s":       l.clock().UTC().Unix(),
	}
	if pathTag != "" && current.StoryPath == "" {
		updates["story_path"] = pathTag
	}

	result := l.db.WithContext(ctx).
		Model(&ProgressRecord{}).
		Where("wallet_address = ? AND current_chapter = ?", wallet.String(), fromChapter).
		Updates(updates)
	if result.Error != nil {
		l.logError(opApplyTransition, reasonUpdateFailed, result.Error, wallet)
		return ProgressRecord{}, newServiceError(opApplyTransition, reasonUpdateFailed, errors.Join(ErrStoreUnavailable, result.Error))
	}
	if result.RowsAffected == 0 {
		// Lost the race: either the record vanished or another request
		// already advanced current_chapter.
		if _, lookupErr := l.GetProgress(ctx, wallet); lookupErr != nil {
			return ProgressRecord{}, lookupErr
		}
		return ProgressRecord{}, newServiceError(opApplyTransition, reasonStaleChapter, ErrStateMismatch)
	}

	return l.GetProgress(ctx, wallet)
}

func (l *Ledger) logError(operation, reason string, err error, wallet WalletAddress) {
	l.logger.Error("story ledger error",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("wallet_address", wallet.String()),
		zap.Error(err),
	)
}
