package claims

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	opServiceNew   = "claims.service.new"
	opClaimOnce    = "claims.claim_once"
	opUpsertVote   = "claims.upsert_vote"
	opClaimAirdrop = "claims.claim_airdrop"
	opCastVote     = "claims.cast_vote"
	opTallyVotes   = "claims.tally_votes"
	opListClaims   = "claims.list_claims"

	reasonMissingDatabase = "missing_database"
	reasonInsertFailed    = "insert_failed"
	reasonUpsertFailed    = "upsert_failed"
	reasonQueryFailed     = "query_failed"
	reasonDuplicate       = "duplicate"
	reasonUnknownResource = "unknown_resource"
	reasonInactive        = "inactive"
	reasonInvalidOption   = "invalid_option"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

// ServiceConfig describes the dependencies of the claim/vote service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service is the idempotency layer for airdrop claims and governance votes.
// Both operations are single atomic check-then-write statements against the
// claim_records table; concurrent duplicates race on the primary key.
type Service struct {
	db        *gorm.DB
	clock     func() time.Time
	logger    *zap.Logger
	airdrops  []Airdrop
	proposals []Proposal
}

// NewService constructs the claim service with the default catalogs.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, reasonMissingDatabase, errMissingDatabase)
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
		db:        cfg.Database,
		clock:     clock,
		logger:    logger,
		airdrops:  defaultAirdrops,
		proposals: defaultProposals(clock().UTC()),
	}, nil
}

// Airdrops lists the claimable airdrop catalog.
func (s *Service) Airdrops() []Airdrop {
	airdrops := make([]Airdrop, len(s.airdrops))
	copy(airdrops, s.airdrops)
	return airdrops
}

// Proposals lists the governance proposal catalog.
func (s *Service) Proposals() []Proposal {
	proposals := make([]Proposal, len(s.proposals))
	copy(proposals, s.proposals)
	return proposals
}

// ClaimOnce writes the record iff no record with the same (wallet, resource,
// kind) exists. The conflict target is the composite primary key, so under
// concurrent duplicates exactly one insert wins; the rest see zero affected
// rows and fail with ErrAlreadyClaimed without writing.
func (s *Service) ClaimOnce(ctx context.Context, wallet, resourceID string, kind Kind, payload string) (ClaimRecord, error) {
	now := s.clock().UTC().Unix()
	record := ClaimRecord{
		WalletAddress:    wallet,
		ResourceID:       resourceID,
		Kind:             kind,
		Payload:          payload,
		CreatedAtSeconds: now,
		UpdatedAtSeconds: now,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "wallet_address"}, {Name: "resource_id"}, {Name: "kind"},
			},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		s.logError(opClaimOnce, reasonInsertFailed, result.Error, wallet, resourceID)
		return ClaimRecord{}, newServiceError(opClaimOnce, reasonInsertFailed, errors.Join(ErrStoreUnavailable, result.Error))
	}
	if result.RowsAffected == 0 {
		return ClaimRecord{}, newServiceError(opClaimOnce, reasonDuplicate,
			fmt.Errorf("%w: %s/%s/%s", ErrAlreadyClaimed, wallet, resourceID, kind))
	}

	return record, nil
}

// UpsertVote writes or overwrites the wallet's vote for the proposal. Last
// vote wins; repeats never fail. The insert and the overwrite are one
// atomic ON CONFLICT DO UPDATE statement.
func (s *Service) UpsertVote(ctx context.Context, wallet, proposalID, option string) (ClaimRecord, error) {
	now := s.clock().UTC().Unix()
	record := ClaimRecord{
		WalletAddress:    wallet,
		ResourceID:       proposalID,
		Kind:             KindVote,
		Payload:          option,
		CreatedAtSeconds: now,
		UpdatedAtSeconds: now,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "wallet_address"}, {Name: "resource_id"}, {Name: "kind"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"payload":      option,
				"updated_at_s": now,
			}),
		}).
		Create(&record).Error
	if err != nil {
		s.logError(opUpsertVote, reasonUpsertFailed, err, wallet, proposalID)
		return ClaimRecord{}, newServiceError(opUpsertVote, reasonUpsertFailed, errors.Join(ErrStoreUnavailable, err))
	}

	var stored ClaimRecord
	if err := s.db.WithContext(ctx).
		Where("wallet_address = ? AND resource_id = ? AND kind = ?", wallet, proposalID, KindVote).
		Take(&stored).Error; err != nil {
		s.logError(opUpsertVote, reasonQueryFailed, err, wallet, proposalID)
		return ClaimRecord{}, newServiceError(opUpsertVote, reasonQueryFailed, errors.Join(ErrStoreUnavailable, err))
	}
	return stored, nil
}

// AirdropClaim is the user-facing result of a successful airdrop claim.
type AirdropClaim struct {
	Amount  int64
	Message string
}

// ClaimAirdrop validates the airdrop against the catalog and claims it
// exactly once for the wallet.
func (s *Service) ClaimAirdrop(ctx context.Context, wallet, airdropID string) (AirdropClaim, error) {
	var airdrop *Airdrop
	for index := range s.airdrops {
		if s.airdrops[index].ID == airdropID {
			airdrop = &s.airdrops[index]
			break
		}
	}
	if airdrop == nil {
		return AirdropClaim{}, newServiceError(opClaimAirdrop, reasonUnknownResource,
			fmt.Errorf("%w: airdrop %s", ErrUnknownResource, airdropID))
	}
	if !airdrop.Active {
		return AirdropClaim{}, newServiceError(opClaimAirdrop, reasonInactive,
			fmt.Errorf("%w: airdrop %s is inactive", ErrUnknownResource, airdropID))
	}

	payload := strconv.FormatInt(airdrop.Amount, 10)
	if _, err := s.ClaimOnce(ctx, wallet, airdropID, KindAirdrop, payload); err != nil {
		return AirdropClaim{}, err
	}

	s.logger.Info("airdrop claimed",
		zap.String("wallet_address", wallet),
		zap.String("airdrop_id", airdropID),
		zap.Int64("amount", airdrop.Amount),
	)

	return AirdropClaim{
		Amount:  airdrop.Amount,
		Message: fmt.Sprintf("Successfully claimed %d MURAT tokens!", airdrop.Amount),
	}, nil
}

// CastVote validates the proposal and option, then upserts the wallet's vote.
func (s *Service) CastVote(ctx context.Context, wallet, proposalID, option string) error {
	var proposal *Proposal
	for index := range s.proposals {
		if s.proposals[index].ID == proposalID {
			proposal = &s.proposals[index]
			break
		}
	}
	if proposal == nil {
		return newServiceError(opCastVote, reasonUnknownResource,
			fmt.Errorf("%w: proposal %s", ErrUnknownResource, proposalID))
	}
	validOption := false
	for _, candidate := range proposal.Options {
		if candidate == option {
			validOption = true
			break
		}
	}
	if !validOption {
		return newServiceError(opCastVote, reasonInvalidOption,
			fmt.Errorf("%w: %q for proposal %s", ErrInvalidOption, option, proposalID))
	}

	if _, err := s.UpsertVote(ctx, wallet, proposalID, option); err != nil {
		return err
	}
	return nil
}

// TallyVotes counts votes per option for the proposal.
func (s *Service) TallyVotes(ctx context.Context, proposalID string) (map[string]int64, error) {
	type tallyRow struct {
		Payload string
		Total   int64
	}
	var rows []tallyRow
	err := s.db.WithContext(ctx).
		Model(&ClaimRecord{}).
		Select("payload, COUNT(*) AS total").
		Where("resource_id = ? AND kind = ?", proposalID, KindVote).
		Group("payload").
		Scan(&rows).Error
	if err != nil {
		s.logError(opTallyVotes, reasonQueryFailed, err, "", proposalID)
		return nil, newServiceError(opTallyVotes, reasonQueryFailed, errors.Join(ErrStoreUnavailable, err))
	}

	tally := make(map[string]int64, len(rows))
	for _, row := range rows {
		tally[row.Payload] = row.Total
	}
	return tally, nil
}

// ListClaims returns the wallet's claim and vote records, newest first.
func (s *Service) ListClaims(ctx context.Context, wallet string) ([]ClaimRecord, error) {
	var records []ClaimRecord
	err := s.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Order("updated_at_s DESC").
		Find(&records).Error
	if err != nil {
		s.logError(opListClaims, reasonQueryFailed, err, wallet, "")
		return nil, newServiceError(opListClaims, reasonQueryFailed, errors.Join(ErrStoreUnavailable, err))
	}
	return records, nil
}

func (s *Service) logError(operation, reason string, err error, wallet, resourceID string) {
	s.logger.Error("claims service error",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("wallet_address", wallet),
		zap.String("resource_id", resourceID),
		zap.Error(err),
	)
}
