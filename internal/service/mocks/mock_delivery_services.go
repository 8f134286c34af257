package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clinicapi/internal/model"
	"clinicapi/internal/service"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, recordID int64) ([]byte, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportService) SendRecord(ctx context.Context, recordID int64) (*service.DeliveryResult, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeliveryResult), args.Error(1)
}

type MockDailyService struct {
	mock.Mock
}

func (m *MockDailyService) Candidates(ctx context.Context) ([]model.CompanySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CompanySummary), args.Error(1)
}

func (m *MockDailyService) Send(ctx context.Context, companyIDs []int64) (*service.DailyResult, error) {
	args := m.Called(ctx, companyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DailyResult), args.Error(1)
}
