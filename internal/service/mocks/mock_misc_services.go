package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clinicapi/internal/service"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Load(ctx context.Context, companySearch, patientDocument string) (*service.Dashboard, error) {
	args := m.Called(ctx, companySearch, patientDocument)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}
