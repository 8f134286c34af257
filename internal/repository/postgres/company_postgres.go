package postgres

import (
	"context"
	"database/sql"

	"clinicapi/internal/database"
	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// CompanyPostgres is a PostgreSQL implementation of repository.CompanyRepository.
type CompanyPostgres struct {
	db *sql.DB
}

// NewCompanyPostgres creates a new CompanyPostgres repository.
func NewCompanyPostgres(db *sql.DB) *CompanyPostgres {
	return &CompanyPostgres{db: db}
}

var _ repository.CompanyRepository = (*CompanyPostgres)(nil)

func scanCompany(s rowScanner) (*model.Company, error) {
	var c model.Company
	if err := s.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a company row and returns the stored record.
func (r *CompanyPostgres) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	const q = `
		INSERT INTO companies (name, address, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, COALESCE(address, ''), COALESCE(phone, ''), email
	`
	out, err := scanCompany(r.db.QueryRowContext(ctx, q, c.Name, c.Address, c.Phone, c.Email))
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// FindByID fetches a single company by its ID.
func (r *CompanyPostgres) FindByID(ctx context.Context, id int64) (*model.Company, error) {
	const q = `
		SELECT id, name, COALESCE(address, ''), COALESCE(phone, ''), email
		FROM companies
		WHERE id = $1
	`
	return scanCompany(r.db.QueryRowContext(ctx, q, id))
}

// List returns companies matching search using LIMIT/OFFSET pagination and a total count.
func (r *CompanyPostgres) List(ctx context.Context, search string, pq repository.PageQuery) (*repository.PageResult[model.Company], error) {
	const qCount = `
		SELECT COUNT(*)
		FROM companies
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, search).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, name, COALESCE(address, ''), COALESCE(phone, ''), email
		FROM companies
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, search, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Company]{Items: items, Total: total}, nil
}

// Update overwrites the company row. A missing row yields sql.ErrNoRows.
func (r *CompanyPostgres) Update(ctx context.Context, c *model.Company) (*model.Company, error) {
	const q = `
		UPDATE companies
		SET name = $1, address = $2, phone = $3, email = $4
		WHERE id = $5
		RETURNING id, name, COALESCE(address, ''), COALESCE(phone, ''), email
	`
	out, err := scanCompany(r.db.QueryRowContext(ctx, q, c.Name, c.Address, c.Phone, c.Email, c.ID))
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// Delete removes the company, its patients and their records atomically.
// Records snapshotted to the company are removed as well, even when their
// patient has since moved to another employer.
func (r *CompanyPostgres) Delete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		const qRecords = `
			DELETE FROM medical_records
			WHERE company_id = $1
			   OR patient_id IN (SELECT id FROM patients WHERE company_id = $1)
		`
		if _, err := tx.ExecContext(ctx, qRecords, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE company_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}
