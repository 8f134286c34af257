package service

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("not found")

	ErrNameRequired          = errors.New("name is required")
	ErrEmailRequired         = errors.New("at least one email address is required")
	ErrDocumentRequired      = errors.New("document number is required")
	ErrCompanyRequired       = errors.New("company is required")
	ErrUnknownCompany        = errors.New("company does not exist")
	ErrPatientRequired       = errors.New("patient is required")
	ErrPatientWithoutCompany = errors.New("patient has no company assigned")
	ErrDiagnosisRequired     = errors.New("diagnosis is required")
	ErrDateRequired          = errors.New("date is required")
	ErrNegativeDays          = errors.New("justified days must not be negative")
	ErrNegativeAge           = errors.New("age must not be negative")
	ErrNoCompaniesSelected   = errors.New("no companies selected")

	ErrInvalidCredentials = errors.New("invalid username or password")
)

var validationErrors = []error{
	ErrIDRequired,
	ErrNameRequired,
	ErrEmailRequired,
	ErrDocumentRequired,
	ErrCompanyRequired,
	ErrUnknownCompany,
	ErrPatientRequired,
	ErrPatientWithoutCompany,
	ErrDiagnosisRequired,
	ErrDateRequired,
	ErrNegativeDays,
	ErrNegativeAge,
	ErrNoCompaniesSelected,
}

// IsValidation reports whether err is caused by invalid caller input.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// notFound maps sql.ErrNoRows to ErrNotFound naming the missing entity.
func notFound(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return err
}

// ListResult is the service-level DTO for paginated listings.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
