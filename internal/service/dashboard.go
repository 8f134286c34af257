package service

import (
	"context"
	"errors"
	"strings"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

const dashboardLimit = 200

// Dashboard is the operator's landing view.
type Dashboard struct {
	Companies []model.Company       `json:"companies"`
	Patients  []model.Patient       `json:"patients"`
	Patient   *model.Patient        `json:"patient,omitempty"`
	History   []model.MedicalRecord `json:"history,omitempty"`
	Message   string                `json:"message,omitempty"`
}

// DashboardService assembles the dashboard.
type DashboardService interface {
	// Load lists companies whose name matches companySearch and the patients
	// of those companies. A non-empty patientDocument also selects that
	// patient with their history; a miss is reported in Message, not as an error.
	Load(ctx context.Context, companySearch, patientDocument string) (*Dashboard, error)
}

type dashboardService struct {
	companies repository.CompanyRepository
	patients  repository.PatientRepository
	records   repository.MedicalRecordRepository
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(companies repository.CompanyRepository, patients repository.PatientRepository, records repository.MedicalRecordRepository) DashboardService {
	return &dashboardService{companies: companies, patients: patients, records: records}
}

func (s *dashboardService) Load(ctx context.Context, companySearch, patientDocument string) (*Dashboard, error) {
	companySearch = strings.TrimSpace(companySearch)
	page := repository.PageQuery{Limit: dashboardLimit}

	companies, err := s.companies.List(ctx, companySearch, page)
	if err != nil {
		return nil, err
	}

	filter := repository.PatientFilter{}
	if companySearch != "" {
		filter.ByCompany = true
		filter.CompanyIDs = make([]int64, 0, len(companies.Items))
		for _, c := range companies.Items {
			filter.CompanyIDs = append(filter.CompanyIDs, c.ID)
		}
	}
	patients, err := s.patients.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{Companies: companies.Items, Patients: patients.Items}

	patientDocument = strings.TrimSpace(patientDocument)
	if patientDocument == "" {
		return out, nil
	}
	p, err := s.patients.FindByDocument(ctx, patientDocument)
	if err != nil {
		if errors.Is(notFound(err, "patient"), ErrNotFound) {
			out.Message = "Paciente no encontrado"
			return out, nil
		}
		return nil, err
	}
	history, err := s.records.ListByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out.Patient = p
	out.History = history
	return out, nil
}
