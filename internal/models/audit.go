package models

import "time"

// AuditAction constants represent administrative actions to be logged.
const (
	AuditActionArchiveCreate = "ARCHIVE_CREATE"
	AuditActionArchiveUpdate = "ARCHIVE_UPDATE"
	AuditActionArchiveDelete = "ARCHIVE_DELETE"
	AuditActionClearCurrent  = "ARCHIVE_CLEAR_CURRENT"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Actor      string    `db:"actor" json:"actor"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	RequestID  string    `db:"request_id" json:"request_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
