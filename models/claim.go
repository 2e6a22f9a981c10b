package models

import "time"

type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusConfirmed ClaimStatus = "confirmed"
)

// ClaimRecord is written in the same transaction that credits points for a
// signature request, so a retried request cannot double-credit: the (fid,
// nonce) pair is unique, and a retry resolves to the stored signature instead
// of creating a second row. The on-chain claim itself happens later and
// asynchronously; the contract's nonce check makes a stale signature unusable.
type ClaimRecord struct {
	ID            string      `gorm:"primaryKey;type:uuid" json:"id"`
	FID           int64       `gorm:"column:fid;index;uniqueIndex:idx_claim_fid_nonce;not null" json:"fid"`
	WalletAddress string      `gorm:"not null" json:"wallet_address"`
	Amount        float64     `gorm:"not null" json:"amount"`
	Nonce         uint64      `gorm:"uniqueIndex:idx_claim_fid_nonce;not null" json:"nonce"`
	Signature     string      `gorm:"not null" json:"signature"`
	PointsAwarded int64       `gorm:"default:0" json:"points_awarded"`
	Status        ClaimStatus `gorm:"index;default:'pending'" json:"status"`
	TxHash        string      `json:"tx_hash,omitempty"`
	ConfirmedAt   *time.Time  `json:"confirmed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime"`
}
