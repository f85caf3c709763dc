package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateArchiveName is returned when the unique index on semester_archives.name rejects a write.
var ErrDuplicateArchiveName = errors.New("semester archive name already exists")

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
