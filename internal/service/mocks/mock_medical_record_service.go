package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

type MockMedicalRecordService struct {
	mock.Mock
}

func (m *MockMedicalRecordService) Create(ctx context.Context, patientID int64, in service.RecordInput) (*model.MedicalRecord, error) {
	args := m.Called(ctx, patientID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordService) Get(ctx context.Context, id int64) (*model.RecordDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecordDetail), args.Error(1)
}

func (m *MockMedicalRecordService) History(ctx context.Context, patientID int64) ([]model.MedicalRecord, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordService) Update(ctx context.Context, id int64, in service.RecordInput) (*model.MedicalRecord, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
