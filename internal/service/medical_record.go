package service

import (
	"context"
	"strings"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// RecordInput carries the editable fields of a medical record.
type RecordInput struct {
	Diagnosis     string
	Date          model.Date
	LicenseTypes  []string
	JustifiedDays *int
	LicenseStart  model.Date
	LicenseEnd    model.Date
	ReturnDate    model.Date
	Observations  string
}

// MedicalRecordService defines the use cases for medical records.
type MedicalRecordService interface {
	// Create stores a record for the patient, snapshotting the patient's
	// current company onto it.
	Create(ctx context.Context, patientID int64, in RecordInput) (*model.MedicalRecord, error)
	Get(ctx context.Context, id int64) (*model.RecordDetail, error)
	// History returns the patient's records, newest visit first.
	History(ctx context.Context, patientID int64) ([]model.MedicalRecord, error)
	// Update rewrites the clinical and license fields; the company snapshot is kept.
	Update(ctx context.Context, id int64, in RecordInput) (*model.MedicalRecord, error)
	Delete(ctx context.Context, id int64) error
}

type medicalRecordService struct {
	repo     repository.MedicalRecordRepository
	patients repository.PatientRepository
}

// NewMedicalRecordService constructs a new MedicalRecordService.
func NewMedicalRecordService(repo repository.MedicalRecordRepository, patients repository.PatientRepository) MedicalRecordService {
	return &medicalRecordService{repo: repo, patients: patients}
}

func (in RecordInput) validate() error {
	if strings.TrimSpace(in.Diagnosis) == "" {
		return ErrDiagnosisRequired
	}
	if in.Date.IsZero() {
		return ErrDateRequired
	}
	if in.JustifiedDays != nil && *in.JustifiedDays < 0 {
		return ErrNegativeDays
	}
	return nil
}

func (in RecordInput) apply(r *model.MedicalRecord) {
	r.Diagnosis = strings.TrimSpace(in.Diagnosis)
	r.Date = in.Date
	r.LicenseType = model.JoinLicenseTypes(in.LicenseTypes)
	r.JustifiedDays = in.JustifiedDays
	r.LicenseStart = in.LicenseStart
	r.LicenseEnd = in.LicenseEnd
	r.ReturnDate = in.ReturnDate
	r.Observations = strings.TrimSpace(in.Observations)
}

func (s *medicalRecordService) Create(ctx context.Context, patientID int64, in RecordInput) (*model.MedicalRecord, error) {
	if patientID <= 0 {
		return nil, ErrPatientRequired
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		return nil, notFound(err, "patient")
	}
	if p.CompanyID == nil {
		return nil, ErrPatientWithoutCompany
	}

	rec := &model.MedicalRecord{PatientID: p.ID, CompanyID: *p.CompanyID}
	in.apply(rec)
	return s.repo.Create(ctx, rec)
}

func (s *medicalRecordService) Get(ctx context.Context, id int64) (*model.RecordDetail, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	d, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "medical record")
	}
	return d, nil
}

func (s *medicalRecordService) History(ctx context.Context, patientID int64) ([]model.MedicalRecord, error) {
	if patientID <= 0 {
		return nil, ErrIDRequired
	}
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, notFound(err, "patient")
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *medicalRecordService) Update(ctx context.Context, id int64, in RecordInput) (*model.MedicalRecord, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	rec := &model.MedicalRecord{ID: id}
	in.apply(rec)
	out, err := s.repo.Update(ctx, rec)
	if err != nil {
		return nil, notFound(err, "medical record")
	}
	return out, nil
}

func (s *medicalRecordService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	return notFound(s.repo.Delete(ctx, id), "medical record")
}
