package repository

import (
	"context"

	"clinicapi/internal/model"
)

// PatientFilter narrows patient listings.
type PatientFilter struct {
	// Search matches name, surname or document number (case-insensitive).
	Search string
	// ByCompany restricts the listing to CompanyIDs. An empty CompanyIDs
	// with ByCompany set matches nothing.
	ByCompany  bool
	CompanyIDs []int64
}

// PatientRepository defines data access for patients. Returned patients carry
// the name of their current company when they have one.
type PatientRepository interface {
	// Create inserts a patient. A taken document number yields ErrDuplicateDocument.
	Create(ctx context.Context, p *model.Patient) (*model.Patient, error)

	FindByID(ctx context.Context, id int64) (*model.Patient, error)
	FindByDocument(ctx context.Context, documentNumber string) (*model.Patient, error)

	List(ctx context.Context, f PatientFilter, pq PageQuery) (*PageResult[model.Patient], error)

	Update(ctx context.Context, p *model.Patient) (*model.Patient, error)

	// Delete removes the patient and every medical record of the patient in
	// one transaction.
	Delete(ctx context.Context, id int64) error
}
