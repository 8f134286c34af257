package repository

import (
	"context"

	"clinicapi/internal/model"
)

// MedicalRecordRepository defines data access for medical records.
type MedicalRecordRepository interface {
	// Create inserts a record. CreatedAt is assigned by the database.
	Create(ctx context.Context, r *model.MedicalRecord) (*model.MedicalRecord, error)

	FindByID(ctx context.Context, id int64) (*model.MedicalRecord, error)

	// FindDetail returns the record joined with its patient and its
	// snapshotted company.
	FindDetail(ctx context.Context, id int64) (*model.RecordDetail, error)

	// ListByPatient returns the patient's history, newest visit first.
	ListByPatient(ctx context.Context, patientID int64) ([]model.MedicalRecord, error)

	// Update rewrites the clinical and license fields. PatientID, CompanyID
	// and CreatedAt are never touched.
	Update(ctx context.Context, r *model.MedicalRecord) (*model.MedicalRecord, error)

	Delete(ctx context.Context, id int64) error

	// CompaniesWithRecordsOn lists the distinct companies owning at least one
	// record created on day.
	CompaniesWithRecordsOn(ctx context.Context, day model.Date) ([]model.CompanySummary, error)

	// RecordRefsOn lists records created on day that belong to companyIDs,
	// ordered by company name then record id.
	RecordRefsOn(ctx context.Context, day model.Date, companyIDs []int64) ([]model.DailyRecordRef, error)
}
