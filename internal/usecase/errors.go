package usecase

import (
	"errors"
	"strings"

	"medilink/internal/domain/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrForbidden = errors.New("access denied")
)

// SuppliesUnavailableError rejects a booking because at least one required
// supply is out of stock. Nothing was persisted.
type SuppliesUnavailableError struct {
	Supplies []entity.Supply
}

func (e *SuppliesUnavailableError) Error() string {
	names := make([]string, len(e.Supplies))
	for i, s := range e.Supplies {
		names[i] = s.Name
	}
	return "appointment cannot be booked due to unavailable supplies: " + strings.Join(names, ", ")
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
