package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clinicapi/internal/auth"
	"clinicapi/internal/config"
	serviceMocks "clinicapi/internal/service/mocks"
)

func bootstrapConfig(initDB bool) *config.AppConfig {
	return &config.AppConfig{
		InitDBOnStartup: initDB,
		Database:        config.DatabaseConfig{Host: "db.local"},
		Auth:            config.AuthConfig{AdminUser: "admin", AdminPassword: "secret"},
	}
}

func TestBootstrapDB(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		initDB     bool
		setupMocks func(sqlmock.Sqlmock, *serviceMocks.MockAuthService)
		wantLog    string
	}{
		{
			name:       "disabled touches nothing",
			initDB:     false,
			setupMocks: func(sqlmock.Sqlmock, *serviceMocks.MockAuthService) {},
		},
		{
			name:   "migrates then creates admin",
			initDB: true,
			setupMocks: func(db sqlmock.Sqlmock, a *serviceMocks.MockAuthService) {
				db.ExpectQuery("SELECT to_regclass").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				a.On("EnsureAdmin", mock.Anything, "admin", "secret").Return(nil).Once()
			},
		},
		{
			name:   "migration failure is logged and skips admin",
			initDB: true,
			setupMocks: func(db sqlmock.Sqlmock, a *serviceMocks.MockAuthService) {
				db.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("connection refused"))
			},
			wantLog: "startup_db_init_failed",
		},
		{
			name:   "admin failure is logged",
			initDB: true,
			setupMocks: func(db sqlmock.Sqlmock, a *serviceMocks.MockAuthService) {
				db.ExpectQuery("SELECT to_regclass").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				a.On("EnsureAdmin", mock.Anything, "admin", "secret").
					Return(errors.New(`relation "users" does not exist`)).Once()
			},
			wantLog: "startup_admin_bootstrap_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, dbMock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			admin := new(serviceMocks.MockAuthService)
			tt.setupMocks(dbMock, admin)

			var buf bytes.Buffer
			assert.NotPanics(t, func() {
				bootstrapDB(ctx, bootstrapConfig(tt.initDB), db, admin, zerolog.New(&buf))
			})

			if tt.wantLog != "" {
				assert.Contains(t, buf.String(), tt.wantLog)
				assert.Contains(t, buf.String(), `"level":"warn"`)
			}
			if !tt.initDB || tt.wantLog == "startup_db_init_failed" {
				admin.AssertNotCalled(t, "EnsureAdmin", mock.Anything, mock.Anything, mock.Anything)
			}
			admin.AssertExpectations(t)
			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func TestBuildServices_IssuesNoQueries(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	svcs := buildServices(db, bootstrapConfig(false), zerolog.Nop(), tokens, nil, nil)

	assert.NotNil(t, svcs.Auth)
	assert.NotNil(t, svcs.Daily)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestDBHost(t *testing.T) {
	assert.Equal(t, "pg.internal", dbHost(config.DatabaseConfig{URL: "postgres://u:p@pg.internal:5432/clinic"}))
	assert.Equal(t, "db.local", dbHost(config.DatabaseConfig{Host: "db.local"}))
}
