package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clinicapi/internal/model"
)

type MockMedicalRecordRepository struct {
	mock.Mock
}

func (m *MockMedicalRecordRepository) Create(ctx context.Context, r *model.MedicalRecord) (*model.MedicalRecord, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) FindByID(ctx context.Context, id int64) (*model.MedicalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) FindDetail(ctx context.Context, id int64) (*model.RecordDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecordDetail), args.Error(1)
}

func (m *MockMedicalRecordRepository) ListByPatient(ctx context.Context, patientID int64) ([]model.MedicalRecord, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) Update(ctx context.Context, r *model.MedicalRecord) (*model.MedicalRecord, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMedicalRecordRepository) CompaniesWithRecordsOn(ctx context.Context, day model.Date) ([]model.CompanySummary, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CompanySummary), args.Error(1)
}

func (m *MockMedicalRecordRepository) RecordRefsOn(ctx context.Context, day model.Date, companyIDs []int64) ([]model.DailyRecordRef, error) {
	args := m.Called(ctx, day, companyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyRecordRef), args.Error(1)
}
