package postgres

import (
	"context"
	"database/sql"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// MedicalRecordPostgres is a PostgreSQL implementation of repository.MedicalRecordRepository.
type MedicalRecordPostgres struct {
	db *sql.DB
}

// NewMedicalRecordPostgres creates a new MedicalRecordPostgres repository.
func NewMedicalRecordPostgres(db *sql.DB) *MedicalRecordPostgres {
	return &MedicalRecordPostgres{db: db}
}

var _ repository.MedicalRecordRepository = (*MedicalRecordPostgres)(nil)

const recordColumns = `
	mr.id, mr.patient_id, mr.company_id, mr.diagnosis, mr.date,
	COALESCE(mr.license_type, ''), mr.justified_days,
	mr.license_start, mr.license_end, mr.return_date,
	COALESCE(mr.observations, ''), mr.created_at
`

func recordDest(r *model.MedicalRecord) []any {
	return []any{
		&r.ID,
		&r.PatientID,
		&r.CompanyID,
		&r.Diagnosis,
		&r.Date,
		&r.LicenseType,
		&r.JustifiedDays,
		&r.LicenseStart,
		&r.LicenseEnd,
		&r.ReturnDate,
		&r.Observations,
		&r.CreatedAt,
	}
}

func scanRecord(s rowScanner) (*model.MedicalRecord, error) {
	var r model.MedicalRecord
	if err := s.Scan(recordDest(&r)...); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a record and returns the stored row.
func (r *MedicalRecordPostgres) Create(ctx context.Context, rec *model.MedicalRecord) (*model.MedicalRecord, error) {
	const q = `
		INSERT INTO medical_records AS mr
			(patient_id, company_id, diagnosis, date, license_type, justified_days,
			 license_start, license_end, return_date, observations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + recordColumns
	return scanRecord(r.db.QueryRowContext(ctx, q,
		rec.PatientID,
		rec.CompanyID,
		rec.Diagnosis,
		rec.Date,
		rec.LicenseType,
		rec.JustifiedDays,
		rec.LicenseStart,
		rec.LicenseEnd,
		rec.ReturnDate,
		rec.Observations,
	))
}

// FindByID fetches a single record by its ID.
func (r *MedicalRecordPostgres) FindByID(ctx context.Context, id int64) (*model.MedicalRecord, error) {
	q := `SELECT ` + recordColumns + ` FROM medical_records mr WHERE mr.id = $1`
	return scanRecord(r.db.QueryRowContext(ctx, q, id))
}

// FindDetail fetches a record joined with patient and snapshotted company.
func (r *MedicalRecordPostgres) FindDetail(ctx context.Context, id int64) (*model.RecordDetail, error) {
	q := `
		SELECT ` + recordColumns + `,
		       p.name, p.surname, p.document_number, c.name, c.email
		FROM medical_records mr
		JOIN patients p ON p.id = mr.patient_id
		JOIN companies c ON c.id = mr.company_id
		WHERE mr.id = $1
	`
	var d model.RecordDetail
	dest := append(recordDest(&d.MedicalRecord),
		&d.PatientName,
		&d.PatientSurname,
		&d.DocumentNumber,
		&d.CompanyName,
		&d.CompanyEmail,
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(dest...); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByPatient returns the patient's records, newest visit first.
func (r *MedicalRecordPostgres) ListByPatient(ctx context.Context, patientID int64) ([]model.MedicalRecord, error) {
	q := `
		SELECT ` + recordColumns + `
		FROM medical_records mr
		WHERE mr.patient_id = $1
		ORDER BY mr.date DESC, mr.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MedicalRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	return items, rows.Err()
}

// Update rewrites the editable fields of a record. A missing row yields sql.ErrNoRows.
func (r *MedicalRecordPostgres) Update(ctx context.Context, rec *model.MedicalRecord) (*model.MedicalRecord, error) {
	const q = `
		UPDATE medical_records AS mr
		SET diagnosis = $1, date = $2, license_type = $3, justified_days = $4,
		    license_start = $5, license_end = $6, return_date = $7, observations = $8
		WHERE mr.id = $9
		RETURNING ` + recordColumns
	return scanRecord(r.db.QueryRowContext(ctx, q,
		rec.Diagnosis,
		rec.Date,
		rec.LicenseType,
		rec.JustifiedDays,
		rec.LicenseStart,
		rec.LicenseEnd,
		rec.ReturnDate,
		rec.Observations,
		rec.ID,
	))
}

// Delete removes a record by ID. A missing row yields sql.ErrNoRows.
func (r *MedicalRecordPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
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
}

// CompaniesWithRecordsOn lists companies with at least one record created on day.
func (r *MedicalRecordPostgres) CompaniesWithRecordsOn(ctx context.Context, day model.Date) ([]model.CompanySummary, error) {
	const q = `
		SELECT DISTINCT c.id, c.name, c.email
		FROM companies c
		JOIN medical_records mr ON mr.company_id = c.id
		WHERE DATE(mr.created_at) = $1::date
		ORDER BY c.name, c.id
	`
	rows, err := r.db.QueryContext(ctx, q, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CompanySummary, 0)
	for rows.Next() {
		var c model.CompanySummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// RecordRefsOn lists the ids of records created on day for the given companies.
func (r *MedicalRecordPostgres) RecordRefsOn(ctx context.Context, day model.Date, companyIDs []int64) ([]model.DailyRecordRef, error) {
	if len(companyIDs) == 0 {
		return []model.DailyRecordRef{}, nil
	}
	args := make([]any, 0, len(companyIDs)+1)
	args = append(args, day.String())
	for _, id := range companyIDs {
		args = append(args, id)
	}
	q := `
		SELECT mr.id, c.email, c.name
		FROM medical_records mr
		JOIN companies c ON c.id = mr.company_id
		WHERE DATE(mr.created_at) = $1::date
		  AND mr.company_id IN (` + placeholders(2, len(companyIDs)) + `)
		ORDER BY c.name, mr.id
	`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DailyRecordRef, 0)
	for rows.Next() {
		var ref model.DailyRecordRef
		if err := rows.Scan(&ref.RecordID, &ref.CompanyEmail, &ref.CompanyName); err != nil {
			return nil, err
		}
		items = append(items, ref)
	}
	return items, rows.Err()
}
