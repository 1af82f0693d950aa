package story

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func mustWallet(t *testing.T, value string) WalletAddress {
	t.Helper()
	wallet, err := NewWalletAddress(value)
	if err != nil {
		t.Fatalf("unexpected wallet address error: %v", err)
	}
	return wallet
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	return catalog
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&ProgressRecord{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestLedger(t *testing.T, startChapter string) (*Ledger, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	ledger, err := NewLedger(LedgerConfig{
		Database:     db,
		StartChapter: startChapter,
		Clock:        func() time.Time { return time.Unix(1750000000, 0) },
	})
	if err != nil {
		t.Fatalf("unexpected ledger error: %v", err)
	}
	return ledger, db
}
