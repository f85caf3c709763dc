package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors one on-chain CritCoin transfer recorded by the explorer.
type Transaction struct {
	ID         string          `db:"id" json:"id"`
	FromWallet string          `db:"from_wallet" json:"fromWallet"`
	ToWallet   string          `db:"to_wallet" json:"toWallet"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	TxHash     string          `db:"tx_hash" json:"txHash"`
	Memo       string          `db:"memo" json:"memo"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}
