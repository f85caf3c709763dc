package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a student submission competing in one project slot.
type Project struct {
	ID            string          `db:"id" json:"id"`
	WalletAddress string          `db:"wallet_address" json:"walletAddress"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description" json:"description"`
	Slot          int             `db:"slot" json:"slot"`
	Link          string          `db:"link" json:"link"`
	Image         string          `db:"image" json:"image"`
	TotalReceived decimal.Decimal `db:"total_received" json:"totalReceived"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}
