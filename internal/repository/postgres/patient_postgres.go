package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clinicapi/internal/database"
	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// PatientPostgres is a PostgreSQL implementation of repository.PatientRepository.
type PatientPostgres struct {
	db *sql.DB
}

// NewPatientPostgres creates a new PatientPostgres repository.
func NewPatientPostgres(db *sql.DB) *PatientPostgres {
	return &PatientPostgres{db: db}
}

var _ repository.PatientRepository = (*PatientPostgres)(nil)

const patientSelect = `
	SELECT p.id, p.name, p.surname, p.document_number,
	       COALESCE(p.phone, ''), COALESCE(p.email, ''), p.age, p.company_id,
	       COALESCE(c.name, '')
	FROM patients p
	LEFT JOIN companies c ON c.id = p.company_id
`

func scanPatient(s rowScanner) (*model.Patient, error) {
	var p model.Patient
	if err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Surname,
		&p.DocumentNumber,
		&p.Phone,
		&p.Email,
		&p.Age,
		&p.CompanyID,
		&p.CompanyName,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a patient and returns it joined with its company name.
func (r *PatientPostgres) Create(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	const q = `
		INSERT INTO patients (name, surname, document_number, phone, email, age, company_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, q,
		p.Name,
		p.Surname,
		p.DocumentNumber,
		p.Phone,
		p.Email,
		p.Age,
		p.CompanyID,
	).Scan(&id); err != nil {
		return nil, classify(err)
	}
	return r.FindByID(ctx, id)
}

// FindByID fetches a single patient by its ID.
func (r *PatientPostgres) FindByID(ctx context.Context, id int64) (*model.Patient, error) {
	return scanPatient(r.db.QueryRowContext(ctx, patientSelect+` WHERE p.id = $1`, id))
}

// FindByDocument fetches a single patient by document number.
func (r *PatientPostgres) FindByDocument(ctx context.Context, documentNumber string) (*model.Patient, error) {
	return scanPatient(r.db.QueryRowContext(ctx, patientSelect+` WHERE p.document_number = $1`, documentNumber))
}

// List returns patients matching f using LIMIT/OFFSET pagination and a total count.
func (r *PatientPostgres) List(ctx context.Context, f repository.PatientFilter, pq repository.PageQuery) (*repository.PageResult[model.Patient], error) {
	if f.ByCompany && len(f.CompanyIDs) == 0 {
		return &repository.PageResult[model.Patient]{Items: []model.Patient{}}, nil
	}

	var (
		conds []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, f.Search)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(p.name ILIKE '%%' || $%d || '%%' OR p.surname ILIKE '%%' || $%d || '%%' OR p.document_number ILIKE '%%' || $%d || '%%')",
			n, n, n))
	}
	if f.ByCompany {
		from := len(args) + 1
		for _, id := range f.CompanyIDs {
			args = append(args, id)
		}
		conds = append(conds, "p.company_id IN ("+placeholders(from, len(f.CompanyIDs))+")")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	qCount := `SELECT COUNT(*) FROM patients p` + where
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := patientSelect + where + fmt.Sprintf(` ORDER BY p.surname, p.name, p.id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Patient]{Items: items, Total: total}, nil
}

// Update overwrites the patient row. Existing records keep their company snapshot.
func (r *PatientPostgres) Update(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	const q = `
		UPDATE patients
		SET name = $1, surname = $2, document_number = $3, phone = $4, email = $5, age = $6, company_id = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, q,
		p.Name,
		p.Surname,
		p.DocumentNumber,
		p.Phone,
		p.Email,
		p.Age,
		p.CompanyID,
		p.ID,
	)
	if err != nil {
		return nil, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}
	return r.FindByID(ctx, p.ID)
}

// Delete removes the patient and its records atomically.
func (r *PatientPostgres) Delete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM medical_records WHERE patient_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
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
