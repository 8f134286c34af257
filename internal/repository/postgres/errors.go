package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"clinicapi/internal/database/migration"
	"clinicapi/internal/repository"
)

const uniqueViolation = "23505"

// classify maps PostgreSQL unique violations onto repository sentinels.
// Any other error is returned unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case migration.CompanyEmailConstraint:
		return fmt.Errorf("%w: %v", repository.ErrDuplicateEmail, err)
	case migration.PatientDocumentConstraint:
		return fmt.Errorf("%w: %v", repository.ErrDuplicateDocument, err)
	case migration.UsernameConstraint:
		return fmt.Errorf("%w: %v", repository.ErrDuplicateUsername, err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// placeholders returns "$from, $from+1, ..." for n arguments.
func placeholders(from, n int) string {
	b := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, fmt.Sprintf("$%d", from+i)...)
	}
	return string(b)
}
