package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsStorageConflict reports whether err is a storage-level uniqueness or
// exclusion violation. The database constraint is the final authority on
// double-booking; a violation slipping past the application-level check is
// translated to the same conflict outcome, never leaked raw.
func IsStorageConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23P01 exclusion_violation
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}
