// services/claim_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"enb-blast-service/chain"
	"enb-blast-service/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrWalletMismatch = errors.New("Invalid wallet address")
	ErrNotRegistered  = errors.New("user is not registered on-chain")
	ErrNoPendingClaim = errors.New("no pending claim")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidPoints  = errors.New("points must be non-negative")
)

// ChainReader is the read surface the claim flow needs from the contracts.
// Satisfied by *chain.Client.
type ChainReader interface {
	GameAddress() common.Address
	PowerUpAddress() common.Address
	GetUserProfile(ctx context.Context, fid int64) (*chain.UserProfile, error)
	UserNonce(ctx context.Context, wallet common.Address) (*big.Int, error)
	PowerUpNonce(ctx context.Context, fid int64) (*big.Int, error)
	MintPrice(ctx context.Context) (*big.Int, error)
	CycleConfig(ctx context.Context) (maxClaims, cooldownSec *big.Int, err error)
}

type ClaimService struct {
	DB          *gorm.DB
	Chain       ChainReader
	Signer      *chain.Signer
	Leaderboard *LeaderboardService
}

func NewClaimService(db *gorm.DB, chainClient ChainReader, signer *chain.Signer, leaderboard *LeaderboardService) *ClaimService {
	return &ClaimService{DB: db, Chain: chainClient, Signer: signer, Leaderboard: leaderboard}
}

type SignatureResult struct {
	Signature string `json:"signature"`
	Nonce     uint64 `json:"nonce"`
}

type MintSignatureResult struct {
	Signature string `json:"signature"`
	Nonce     uint64 `json:"nonce"`
	PriceWei  string `json:"price_wei"`
}

// IssueClaimSignature authorizes a token claim: it binds (contract, wallet,
// amount, current on-chain nonce) into an EIP-191 signature the contract
// verifies. Point credit and the claim record are persisted in one
// transaction before the signature is returned, so a retried request cannot
// double-credit. Once the contract advances the nonce, the signature is
// spent by construction.
func (s *ClaimService) IssueClaimSignature(ctx context.Context, fid int64, walletAddress string, amount float64, points int64) (*SignatureResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if points < 0 {
		return nil, ErrInvalidPoints
	}

	user, err := s.userWithWallet(fid, walletAddress)
	if err != nil {
		return nil, err
	}

	wallet := common.HexToAddress(walletAddress)
	nonce, err := s.Chain.UserNonce(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("read claim nonce: %w", err)
	}

	hash := chain.ClaimMessageHash(s.Chain.GameAddress(), wallet, toWei(amount), nonce)
	sig, err := s.Signer.SignHash(hash)
	if err != nil {
		return nil, err
	}

	result := &SignatureResult{
		Signature: hexutil.Encode(sig),
		Nonce:     nonce.Uint64(),
	}

	credited := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// A retry before the contract advances the nonce resolves to the
		// already-issued record; only one row per (fid, nonce) ever credits.
		var existing models.ClaimRecord
		err := tx.Where("fid = ? AND nonce = ?", fid, nonce.Uint64()).First(&existing).Error
		if err == nil {
			result.Signature = existing.Signature
			result.Nonce = existing.Nonce
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := &models.ClaimRecord{
			ID:            uuid.NewString(),
			FID:           fid,
			WalletAddress: wallet.Hex(),
			Amount:        amount,
			Nonce:         nonce.Uint64(),
			Signature:     result.Signature,
			PointsAwarded: points,
			Status:        models.ClaimStatusPending,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if points > 0 {
			user.TotalPoints += points
			user.WeeklyPoints += points
			if err := tx.Save(user).Error; err != nil {
				return err
			}
			credited = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if credited && s.Leaderboard != nil {
		if err := s.Leaderboard.AddWeeklyPoints(ctx, fid, points); err != nil {
			log.Printf("leaderboard update failed for fid %d: %v", fid, err)
		}
	}

	return result, nil
}

// ConfirmClaim marks the user's pending claim confirmed and applies the
// calendar-day claim streak: same UTC day leaves it, yesterday increments,
// anything older resets to 1.
func (s *ClaimService) ConfirmClaim(fid int64, txHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var record models.ClaimRecord
		if err := tx.Where("fid = ? AND status = ?", fid, models.ClaimStatusPending).
			Order("created_at DESC").
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoPendingClaim
			}
			return err
		}

		record.Status = models.ClaimStatusConfirmed
		record.TxHash = txHash
		record.ConfirmedAt = &now
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		if err := tx.Where("fid = ?", fid).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		user.Streak = NextClaimStreak(user.Streak, user.LastClaimedAt, now)
		user.LastClaimedAt = &now
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Status derives the current claim allowance from contract reads alone.
func (s *ClaimService) Status(ctx context.Context, fid int64) (*chain.ClaimState, error) {
	profile, err := s.Chain.GetUserProfile(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("read user profile: %w", err)
	}
	if !profile.IsRegistered {
		return nil, ErrNotRegistered
	}

	maxClaims, cooldown, err := s.Chain.CycleConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cycle config: %w", err)
	}

	state := chain.DeriveClaimState(profile, maxClaims, cooldown, time.Now().UTC())
	return &state, nil
}

// IssueMintSignature is the power-up NFT variant: signs (contract, wallet,
// tokenType, powerUpNonce) and reports the current mint price.
func (s *ClaimService) IssueMintSignature(ctx context.Context, fid int64, walletAddress string, tokenType int64) (*MintSignatureResult, error) {
	if _, err := s.userWithWallet(fid, walletAddress); err != nil {
		return nil, err
	}

	nonce, err := s.Chain.PowerUpNonce(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("read power-up nonce: %w", err)
	}
	price, err := s.Chain.MintPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("read mint price: %w", err)
	}

	wallet := common.HexToAddress(walletAddress)
	hash := chain.MintMessageHash(s.Chain.PowerUpAddress(), wallet, big.NewInt(tokenType), nonce)
	sig, err := s.Signer.SignHash(hash)
	if err != nil {
		return nil, err
	}

	return &MintSignatureResult{
		Signature: hexutil.Encode(sig),
		Nonce:     nonce.Uint64(),
		PriceWei:  price.String(),
	}, nil
}

// userWithWallet loads the FID's profile and checks the request wallet
// against the stored binding, case-insensitively.
func (s *ClaimService) userWithWallet(fid int64, walletAddress string) (*models.User, error) {
	if !common.IsHexAddress(walletAddress) {
		return nil, ErrWalletMismatch
	}

	var user models.User
	if err := s.DB.Where("fid = ?", fid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.WalletAddress == "" || !strings.EqualFold(user.WalletAddress, walletAddress) {
		return nil, ErrWalletMismatch
	}
	return &user, nil
}

// toWei converts a whole-token amount to wei (18 decimals).
func toWei(amount float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(amount), big.NewFloat(1e18)).Int(nil)
	return wei
}
