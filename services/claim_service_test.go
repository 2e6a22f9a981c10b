package services

import (
	"context"
	"math/big"
	"testing"
	"time"

	"enb-blast-service/chain"
	"enb-blast-service/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stubSignerKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	stubWallet    = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
)

// stubChain serves fixed reads; the nonce does not advance, like a node
// between signature issuance and the on-chain claim.
type stubChain struct {
	nonce int64
}

func (s *stubChain) GameAddress() common.Address {
	return common.HexToAddress("0x1111111111111111111111111111111111111111")
}

func (s *stubChain) PowerUpAddress() common.Address {
	return common.HexToAddress("0x2222222222222222222222222222222222222222")
}

func (s *stubChain) GetUserProfile(ctx context.Context, fid int64) (*chain.UserProfile, error) {
	return &chain.UserProfile{
		IsRegistered:         true,
		RegistrationDate:     big.NewInt(0),
		LastClaimTimestamp:   big.NewInt(0),
		ClaimNonce:           big.NewInt(s.nonce),
		TotalClaimed:         big.NewInt(0),
		ClaimsInCurrentCycle: big.NewInt(0),
	}, nil
}

func (s *stubChain) UserNonce(ctx context.Context, wallet common.Address) (*big.Int, error) {
	return big.NewInt(s.nonce), nil
}

func (s *stubChain) PowerUpNonce(ctx context.Context, fid int64) (*big.Int, error) {
	return big.NewInt(s.nonce), nil
}

func (s *stubChain) MintPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000_000_000), nil
}

func (s *stubChain) CycleConfig(ctx context.Context) (*big.Int, *big.Int, error) {
	return big.NewInt(3), big.NewInt(86400), nil
}

func newClaimTestService(t *testing.T) *ClaimService {
	t.Helper()
	signer, err := chain.NewSigner(stubSignerKey)
	require.NoError(t, err)
	return NewClaimService(newTestDB(t), &stubChain{nonce: 7}, signer, nil)
}

func TestIssueClaimSignature_RetryDoesNotDoubleCredit(t *testing.T) {
	svc := newClaimTestService(t)
	require.NoError(t, svc.DB.Create(&models.User{FID: 42, WalletAddress: stubWallet}).Error)

	ctx := context.Background()
	first, err := svc.IssueClaimSignature(ctx, 42, stubWallet, 10, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 7, first.Nonce)
	assert.NotEmpty(t, first.Signature)

	// Same request again, nonce unchanged on-chain: same signature back,
	// no second record, no second credit.
	second, err := svc.IssueClaimSignature(ctx, 42, stubWallet, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, first.Signature, second.Signature)
	assert.Equal(t, first.Nonce, second.Nonce)

	var user models.User
	require.NoError(t, svc.DB.Where("fid = ?", int64(42)).First(&user).Error)
	assert.Equal(t, int64(100), user.TotalPoints)
	assert.Equal(t, int64(100), user.WeeklyPoints)

	var count int64
	require.NoError(t, svc.DB.Model(&models.ClaimRecord{}).Where("fid = ?", int64(42)).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIssueClaimSignature_WalletMustMatchBinding(t *testing.T) {
	svc := newClaimTestService(t)
	require.NoError(t, svc.DB.Create(&models.User{FID: 42, WalletAddress: stubWallet}).Error)

	_, err := svc.IssueClaimSignature(context.Background(), 42,
		"0x3333333333333333333333333333333333333333", 10, 100)
	assert.ErrorIs(t, err, ErrWalletMismatch)
}

func TestConfirmClaim_NoPendingClaim(t *testing.T) {
	svc := newClaimTestService(t)
	require.NoError(t, svc.DB.Create(&models.User{FID: 42, WalletAddress: stubWallet}).Error)

	_, err := svc.ConfirmClaim(42, "0xdeadbeef", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNoPendingClaim)
}

func TestConfirmClaim_AppliesClaimStreak(t *testing.T) {
	svc := newClaimTestService(t)
	require.NoError(t, svc.DB.Create(&models.User{FID: 42, WalletAddress: stubWallet}).Error)

	ctx := context.Background()
	_, err := svc.IssueClaimSignature(ctx, 42, stubWallet, 10, 0)
	require.NoError(t, err)

	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	user, err := svc.ConfirmClaim(42, "0xabc123", now)
	require.NoError(t, err)
	assert.Equal(t, 1, user.Streak)
	require.NotNil(t, user.LastClaimedAt)
	assert.True(t, user.LastClaimedAt.Equal(now))

	// Confirming again without a fresh pending record is refused.
	_, err = svc.ConfirmClaim(42, "0xabc123", now)
	assert.ErrorIs(t, err, ErrNoPendingClaim)
}
