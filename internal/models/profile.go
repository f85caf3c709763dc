package models

import "time"

// Profile is a student profile keyed by wallet address.
type Profile struct {
	ID            string    `db:"id" json:"id"`
	WalletAddress string    `db:"wallet_address" json:"walletAddress"`
	Name          string    `db:"name" json:"name"`
	Photo         string    `db:"photo" json:"photo"`
	Bio           string    `db:"bio" json:"bio"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
