package repository

import (
	"context"

	"clinicapi/internal/model"
)

// CompanyRepository defines data access for companies.
type CompanyRepository interface {
	// Create inserts a company and returns the stored row.
	// A taken email yields ErrDuplicateEmail.
	Create(ctx context.Context, c *model.Company) (*model.Company, error)

	FindByID(ctx context.Context, id int64) (*model.Company, error)

	// List returns companies whose name contains search (case-insensitive),
	// ordered by name. An empty search matches every company.
	List(ctx context.Context, search string, pq PageQuery) (*PageResult[model.Company], error)

	// Update overwrites every mutable field of the company identified by c.ID.
	Update(ctx context.Context, c *model.Company) (*model.Company, error)

	// Delete removes the company together with its patients and every
	// medical record of those patients, in one transaction.
	Delete(ctx context.Context, id int64) error
}
