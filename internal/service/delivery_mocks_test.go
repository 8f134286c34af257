package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clinicapi/internal/mailer"
	"clinicapi/internal/model"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, d model.RecordDetail) ([]byte, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, env mailer.Envelope) error {
	return m.Called(ctx, env).Error(0)
}

func detailFor(id int64, company, email string) *model.RecordDetail {
	return &model.RecordDetail{
		MedicalRecord:  model.MedicalRecord{ID: id},
		PatientName:    "Ana",
		PatientSurname: "Pérez",
		DocumentNumber: "30111222",
		CompanyName:    company,
		CompanyEmail:   email,
	}
}

// withID matches a RecordDetail by record id.
func withID(id int64) any {
	return mock.MatchedBy(func(d model.RecordDetail) bool { return d.ID == id })
}
