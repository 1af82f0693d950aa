package metaverse

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNFT indicates the NFT id is not in the marketplace catalog.
	ErrUnknownNFT = errors.New("metaverse: unknown nft")
	// ErrStoreUnavailable indicates the persistence layer failed.
	ErrStoreUnavailable = errors.New("metaverse: store unavailable")
)

// NFTListing is a marketplace catalog entry. Prices are MURAT tokens.
type NFTListing struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"image_url"`
}

// NFTPurchase is the append-only purchase history row.
type NFTPurchase struct {
	PurchaseID       string `gorm:"column:purchase_id;primaryKey;size:190;not null"`
	WalletAddress    string `gorm:"column:wallet_address;size:190;not null;index:idx_purchases_wallet"`
	NFTID            string `gorm:"column:nft_id;size:190;not null"`
	Price            int64  `gorm:"column:price;not null"`
	TransactionHash  string `gorm:"column:transaction_hash;size:190;not null"`
	CreatedAtSeconds int64  `gorm:"column:created_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (NFTPurchase) TableName() string {
	return "nft_purchases"
}

// NFTOwnership tracks the current owner per NFT. One row per NFT id,
// overwritten on resale.
type NFTOwnership struct {
	NFTID            string `gorm:"column:nft_id;primaryKey;size:190;not null"`
	OwnerAddress     string `gorm:"column:owner_address;size:190;not null;index:idx_ownership_owner"`
	Listed           bool   `gorm:"column:is_listed;not null;default:false"`
	SoldAtSeconds    int64  `gorm:"column:sold_at_s;not null"`
	UpdatedAtSeconds int64  `gorm:"column:updated_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (NFTOwnership) TableName() string {
	return "nft_ownership"
}

// Area is a named region of the metaverse world.
type Area struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Position    Position `json:"position"`
	AccessLevel string   `json:"access_level"`
}

// Position locates an area on the world map.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// World describes the metaverse hub served to clients.
type World struct {
	WorldName string `json:"world_name"`
	Areas     []Area `json:"areas"`
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
