package dto

import "github.com/critcoin/critcoin-api/internal/models"

// AdminProof carries the signed admin message accompanying every admin request.
type AdminProof struct {
	Message     string `json:"message" form:"message"`
	Signature   string `json:"signature" form:"signature"`
	AdminWallet string `json:"adminWallet" form:"adminWallet"`
}

// CreateSemesterArchiveRequest snapshots the live platform under a new name.
type CreateSemesterArchiveRequest struct {
	AdminProof
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=1000"`
}

// ClearCurrentSemesterRequest purges the live collections.
type ClearCurrentSemesterRequest struct {
	AdminProof
	Confirmed bool `json:"confirmed"`
}

// UpdateSemesterArchiveRequest edits archive metadata. At least one field must be set.
type UpdateSemesterArchiveRequest struct {
	AdminProof
	ID          string  `json:"id" validate:"required"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// DeleteSemesterArchiveRequest removes one archive.
type DeleteSemesterArchiveRequest struct {
	AdminProof
	ID string `json:"id" validate:"required"`
}

// SemesterArchiveListQuery paginates archive summaries.
type SemesterArchiveListQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// ClearCurrentSemesterResponse reports what a clear removed.
type ClearCurrentSemesterResponse struct {
	Deleted models.ClearedCounts `json:"deleted"`
}

