package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BountyStatus tracks bounty lifecycle.
type BountyStatus string

const (
	BountyStatusOpen      BountyStatus = "OPEN"
	BountyStatusClaimed   BountyStatus = "CLAIMED"
	BountyStatusCompleted BountyStatus = "COMPLETED"
)

// Bounty is a task posted with a CritCoin reward.
type Bounty struct {
	ID            string          `db:"id" json:"id"`
	WalletAddress string          `db:"wallet_address" json:"walletAddress"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description" json:"description"`
	Reward        decimal.Decimal `db:"reward" json:"reward"`
	Status        BountyStatus    `db:"status" json:"status"`
	ClaimedBy     *string         `db:"claimed_by" json:"claimedBy,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}
