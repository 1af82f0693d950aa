package story

import (
	"context"
	"errors"
	"testing"
)

func TestGetOrInitProgressCreatesRecordAtStart(t *testing.T) {
	ledger, _ := newTestLedger(t, StartChapterID)
	wallet := mustWallet(t, "0x1111111111111111111111111111111111111111")

	record, err := ledger.GetOrInitProgress(context.Background(), wallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.CurrentChapter != StartChapterID {
		t.Fatalf("expected current chapter %s, got %s", StartChapterID, record.CurrentChapter)
	}
	if record.ReputationScore != 0 {
		t.Fatalf("expected zero reputation, got %d", record.ReputationScore)
	}
	completed, err := record.CompletedList()
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(completed) != 0 {
		t.Fatalf("expected empty completed list, got %v", completed)
	}
}

func TestGetOrInitProgressPreservesExistingRecord(t *testing.T) {
	ledger, _ := newTestLedger(t, StartChapterID)
	wallet := mustWallet(t, "0x1111111111111111111111111111111111111111")
	ctx := context.Background()

	if _, err := ledger.GetOrInitProgress(ctx, wallet); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if _, err := ledger.ApplyTransition(ctx, wallet, StartChapterID, "ch2", 5, PathRisiko); err != nil {
		t.Fatalf("unexpected transition error: %v", err)
	}

	record, err := ledger.GetOrInitProgress(ctx, wallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.CurrentChapter != "ch2" {
		t.Fatalf("expected advanced record to survive re-init, got chapter %s", record.CurrentChapter)
	}
	if record.ReputationScore != 5 {
		t.Fatalf("expected reputation 5, got %d", record.ReputationScore)
	}
}

func TestGetProgressUnknownWallet(t *testing.T) {
	ledger, _ := newTestLedger(t, StartChapterID)
	wallet := mustWallet(t, "0x2222222222222222222222222222222222222222")

	_, err := ledger.GetProgress(context.Background(), wallet)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyTransitionAccumulatesReputation(t *testing.T) {
	ledger, _ := newTestLedger(t, StartChapterID)
	wallet := mustWallet(t, "0x3333333333333333333333333333333333333333")
	ctx := context.Background()

	if _, err := ledger.GetOrInitProgress(ctx, wallet); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if _, err := ledger.ApplyTransition(ctx, wallet, StartChapterID, "ch2", 5, PathRisiko); err != nil {
		t.Fatalf("unexpected first transition error: %v", err)
	}
	record, err := ledger.ApplyTransition(ctx, wallet, "ch2", "ch5", -2, "")
	if err != nil {
		t.Fatalf("unexpected second transition error: %v", err)
	}

	if record.ReputationScore != 3 {
		t.Fatalf("expected reputation 3, got %d", record.ReputationScore)
	}
	if record.CurrentChapter != "ch5" {
		t.Fatalf("expected current chapter ch5, got %s", record.CurrentChapter)
	}
	completed, err := record.CompletedList()
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(completed) != 2 || completed[0] != StartChapterID || completed[1] != "ch2" {
		t.Fatalf("unexpected completed list: %v", completed)
	}
}

func TestApplyTransitionKeepsStoryPathSticky(t *testing.T) {
	ledger, _ := newTestLedger(t, StartChapterID)
	wallet := mustWallet(t, "0x4444444444444444444444444444444444444444")
	ctx := context.Background()

	if _, err := ledger.GetOrInitProgress(ctx, wallet); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	first, err := ledger.ApplyTransition(ctx, wallet, StartChapterID, "ch3", 2, PathGeduld)
	if err != nil {
		t.Fatalf("unexpected first transition error: %v", err)
	}
	if first.StoryPath != PathGeduld {
		t.Fatalf("expected path %s, got %q", PathGeduld, first.StoryPath)
	}

	second, err := ledger.ApplyTransition(ctx, wallet, "ch3", "ch4", 4, PathRisiko)
	if err != nil {
		t.Fatalf("unexpected second transition error: %v", err)
	}
	if second.StoryPath != PathGeduld {
		t.Fatalf("expected path to stay %s, got %q", PathGeduld, second.StoryPath)
	}
}

func TestApplyTransitionTerminalChapter(t *testing.T) {
	ledger, _ := newTestLedger(t, "ch6")
	wallet := mustWallet(t, "0x5555555555555555555555555555555555555555")
	ctx := context.Background()

	if _, err := ledger.GetOrInitProgress(ctx, wallet); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	record, err := ledger.ApplyTransition(ctx, wallet, "ch6", "", 15, "")
	if err != nil {
		t.Fatalf("unexpected transition error: %v", err)
	}

	if record.CurrentChapter != ChapterCompleted {
		t.Fatalf("expected terminal marker %s, got %s", ChapterCompleted, record.CurrentChapter)
	}
}

func TestApplyTransitionStaleChapter(t *testing.T) {
	ledger, _ := newTestLedger(t, StartChapterID)
	wallet := mustWallet(t, "0x6666666666666666666666666666666666666666")
	ctx := context.Background()

	if _, err := ledger.GetOrInitProgress(ctx, wallet); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if _, err := ledger.ApplyTransition(ctx, wallet, StartChapterID, "ch2", 5, PathRisiko); err != nil {
		t.Fatalf("unexpected transition error: %v", err)
	}

	_, err := ledger.ApplyTransition(ctx, wallet, StartChapterID, "ch3", 2, PathGeduld)
	if !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("expected ErrStateMismatch, got %v", err)
	}

	record, err := ledger.GetProgress(ctx, wallet)
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if record.CurrentChapter != "ch2" {
		t.Fatalf("expected chapter ch2 after rejected replay, got %s", record.CurrentChapter)
	}
	if record.ReputationScore != 5 {
		t.Fatalf("expected reputation unchanged at 5, got %d", record.ReputationScore)
	}
}

func TestApplyTransitionUnknownWallet(t *testing.T) {
	ledger, _ := newTestLedger(t, StartChapterID)
	wallet := mustWallet(t, "0x7777777777777777777777777777777777777777")

	_, err := ledger.ApplyTransition(context.Background(), wallet, StartChapterID, "ch2", 5, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
