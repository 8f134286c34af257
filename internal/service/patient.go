package service

import (
	"context"
	"errors"
	"strings"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// PatientService defines the use cases for patients.
type PatientService interface {
	Create(ctx context.Context, p model.Patient) (*model.Patient, error)
	Get(ctx context.Context, id int64) (*model.Patient, error)
	GetByDocument(ctx context.Context, documentNumber string) (*model.Patient, error)
	List(ctx context.Context, search string, limit, offset int) (*ListResult[model.Patient], error)
	Update(ctx context.Context, id int64, p model.Patient) (*model.Patient, error)
	// Delete removes the patient and every record of the patient.
	Delete(ctx context.Context, id int64) error
}

type patientService struct {
	repo      repository.PatientRepository
	companies repository.CompanyRepository
}

// NewPatientService constructs a new PatientService.
func NewPatientService(repo repository.PatientRepository, companies repository.CompanyRepository) PatientService {
	return &patientService{repo: repo, companies: companies}
}

func (s *patientService) validate(ctx context.Context, p *model.Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Surname = strings.TrimSpace(p.Surname)
	p.DocumentNumber = strings.TrimSpace(p.DocumentNumber)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.CompanyName = ""

	if p.Name == "" || p.Surname == "" {
		return ErrNameRequired
	}
	if p.DocumentNumber == "" {
		return ErrDocumentRequired
	}
	if p.Age != nil && *p.Age < 0 {
		return ErrNegativeAge
	}
	if p.CompanyID == nil || *p.CompanyID <= 0 {
		return ErrCompanyRequired
	}
	if _, err := s.companies.FindByID(ctx, *p.CompanyID); err != nil {
		if errors.Is(notFound(err, "company"), ErrNotFound) {
			return ErrUnknownCompany
		}
		return err
	}
	return nil
}

func (s *patientService) Create(ctx context.Context, p model.Patient) (*model.Patient, error) {
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}
	p.ID = 0
	return s.repo.Create(ctx, &p)
}

func (s *patientService) Get(ctx context.Context, id int64) (*model.Patient, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "patient")
	}
	return p, nil
}

func (s *patientService) GetByDocument(ctx context.Context, documentNumber string) (*model.Patient, error) {
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return nil, ErrDocumentRequired
	}
	p, err := s.repo.FindByDocument(ctx, documentNumber)
	if err != nil {
		return nil, notFound(err, "patient")
	}
	return p, nil
}

func (s *patientService) List(ctx context.Context, search string, limit, offset int) (*ListResult[model.Patient], error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.repo.List(ctx,
		repository.PatientFilter{Search: strings.TrimSpace(search)},
		repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult[model.Patient]{Items: res.Items, Total: res.Total}, nil
}

// Update rewrites the patient. Records already written keep the company
// they were snapshotted with.
func (s *patientService) Update(ctx context.Context, id int64, p model.Patient) (*model.Patient, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}
	p.ID = id
	out, err := s.repo.Update(ctx, &p)
	if err != nil {
		return nil, notFound(err, "patient")
	}
	return out, nil
}

func (s *patientService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	return notFound(s.repo.Delete(ctx, id), "patient")
}
