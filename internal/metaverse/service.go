package metaverse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	opServiceNew = "metaverse.service.new"
	opPurchase   = "metaverse.purchase"
	opGallery    = "metaverse.gallery"
	opAccessPass = "metaverse.holds_access_pass"

	reasonMissingDatabase   = "missing_database"
	reasonMissingIDProvider = "missing_id_provider"
	reasonUnknownNFT        = "unknown_nft"
	reasonTxFailed          = "transaction_failed"
	reasonQueryFailed       = "query_failed"
	reasonIDFailed          = "id_generation_failed"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// IDProvider issues identifiers for purchase rows and transaction hashes.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies of the metaverse service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service serves the world description and the NFT marketplace, and answers
// access-pass checks for gated content.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
	listings   []NFTListing
	world      World
}

// NewService constructs the metaverse service with the default catalogs.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, reasonMissingDatabase, errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, reasonMissingIDProvider, errMissingIDProvider)
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
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
		listings:   defaultListings,
		world:      defaultWorld,
	}, nil
}

// World returns the metaverse hub description.
func (s *Service) World() World {
	return s.world
}

// Listings returns the marketplace catalog.
func (s *Service) Listings() []NFTListing {
	listings := make([]NFTListing, len(s.listings))
	copy(listings, s.listings)
	return listings
}

// PurchaseReceipt is the user-facing result of a completed purchase.
type PurchaseReceipt struct {
	NFT             NFTListing
	TransactionHash string
	Message         string
}

// Purchase records the purchase and moves ownership to the wallet. The
// purchase row and the ownership upsert commit in one transaction.
func (s *Service) Purchase(ctx context.Context, wallet, nftID string) (PurchaseReceipt, error) {
	var listing *NFTListing
	for index := range s.listings {
		if s.listings[index].ID == nftID {
			listing = &s.listings[index]
			break
		}
	}
	if listing == nil {
		return PurchaseReceipt{}, newServiceError(opPurchase, reasonUnknownNFT,
			fmt.Errorf("%w: %s", ErrUnknownNFT, nftID))
	}

	purchaseID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opPurchase, reasonIDFailed, err, wallet, nftID)
		return PurchaseReceipt{}, newServiceError(opPurchase, reasonIDFailed, err)
	}
	hashSeed, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opPurchase, reasonIDFailed, err, wallet, nftID)
		return PurchaseReceipt{}, newServiceError(opPurchase, reasonIDFailed, err)
	}
	transactionHash := "0x" + strings.ReplaceAll(hashSeed, "-", "")

	now := s.clock().UTC().Unix()
	purchase := NFTPurchase{
		PurchaseID:       purchaseID,
		WalletAddress:    wallet,
		NFTID:            nftID,
		Price:            listing.Price,
		TransactionHash:  transactionHash,
		CreatedAtSeconds: now,
	}
	ownership := NFTOwnership{
		NFTID:            nftID,
		OwnerAddress:     wallet,
		Listed:           false,
		SoldAtSeconds:    now,
		UpdatedAtSeconds: now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "nft_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"owner_address": wallet,
				"is_listed":     false,
				"sold_at_s":     now,
				"updated_at_s":  now,
			}),
		}).Create(&ownership).Error
	})
	if txErr != nil {
		s.logError(opPurchase, reasonTxFailed, txErr, wallet, nftID)
		return PurchaseReceipt{}, newServiceError(opPurchase, reasonTxFailed, errors.Join(ErrStoreUnavailable, txErr))
	}

	s.logger.Info("nft purchased",
		zap.String("wallet_address", wallet),
		zap.String("nft_id", nftID),
		zap.Int64("price", listing.Price),
	)

	return PurchaseReceipt{
		NFT:             *listing,
		TransactionHash: transactionHash,
		Message:         fmt.Sprintf("Successfully purchased %s for %d MURAT!", listing.Name, listing.Price),
	}, nil
}

// Gallery lists the NFTs currently owned by the wallet.
func (s *Service) Gallery(ctx context.Context, wallet string) ([]NFTOwnership, error) {
	var owned []NFTOwnership
	err := s.db.WithContext(ctx).
		Where("owner_address = ?", wallet).
		Order("sold_at_s DESC").
		Find(&owned).Error
	if err != nil {
		s.logError(opGallery, reasonQueryFailed, err, wallet, "")
		return nil, newServiceError(opGallery, reasonQueryFailed, errors.Join(ErrStoreUnavailable, err))
	}
	return owned, nil
}

// HoldsAccessPass reports whether the wallet owns at least one NFT. Gated
// story chapters and the stream viewer use this as the ownership proof.
func (s *Service) HoldsAccessPass(ctx context.Context, wallet string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&NFTOwnership{}).
		Where("owner_address = ?", wallet).
		Count(&count).Error
	if err != nil {
		s.logError(opAccessPass, reasonQueryFailed, err, wallet, "")
		return false, newServiceError(opAccessPass, reasonQueryFailed, errors.Join(ErrStoreUnavailable, err))
	}
	return count > 0, nil
}

func (s *Service) logError(operation, reason string, err error, wallet, nftID string) {
	s.logger.Error("metaverse service error",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("wallet_address", wallet),
		zap.String("nft_id", nftID),
		zap.Error(err),
	)
}
