package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// Two racing inserts for the same free interval both pass the row-locked
// re-check (nothing exists to lock yet); the appointments_no_overlap
// exclusion constraint is what stops the second one, as SQLSTATE 23P01.
// That violation, and plain unique violations, must read as conflicts.
func TestIsStorageConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "exclusion violation from overlap constraint",
			err: &pgconn.PgError{
				Code:           "23P01",
				ConstraintName: "appointments_no_overlap",
			},
			want: true,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505"},
			want: true,
		},
		{
			name: "wrapped exclusion violation",
			err:  fmt.Errorf("create appointment: %w", &pgconn.PgError{Code: "23P01"}),
			want: true,
		},
		{
			name: "unrelated pg error",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "non-pg error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStorageConflict(tt.err))
		})
	}
}
