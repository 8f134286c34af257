package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
	"clinicapi/internal/service"
	serviceMocks "clinicapi/internal/service/mocks"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := newApp()
	app.Post("/auth/login", Login(mockSvc))

	t.Run("success", func(t *testing.T) {
		exp := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
		mockSvc.On("Login", mock.Anything, "admin", "secret").
			Return(&service.LoginResult{AccessToken: "tok", TokenType: "Bearer", ExpiresAt: exp}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/auth/login", loginRequest{Username: "admin", Password: "secret"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res service.LoginResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "tok", res.AccessToken)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "admin", "nope").Return(nil, service.ErrInvalidCredentials).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/auth/login", loginRequest{Username: "admin", Password: "nope"}))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/auth/login", "{"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
}

func TestDashboard(t *testing.T) {
	mockSvc := new(serviceMocks.MockDashboardService)
	app := newApp()
	app.Get("/api/dashboard", Dashboard(mockSvc))

	mockSvc.On("Load", mock.Anything, "acme", "999").
		Return(&service.Dashboard{
			Companies: []model.Company{{ID: 1, Name: "Acme"}},
			Patients:  []model.Patient{},
			Message:   "Paciente no encontrado",
		}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard?search_company_name=acme&search_patient_document=999", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var res service.Dashboard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Len(t, res.Companies, 1)
	assert.Equal(t, "Paciente no encontrado", res.Message)
	mockSvc.AssertExpectations(t)
}

func TestListCompanies(t *testing.T) {
	mockSvc := new(serviceMocks.MockCompanyService)
	app := newApp()
	app.Get("/api/companies", ListCompanies(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "ac", 10, 0).
			Return(&service.ListResult[model.Company]{Items: []model.Company{{ID: 1, Name: "Acme"}}, Total: 1}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies?search=ac&limit=10&offset=0", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.ListResult[model.Company]
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies?offset=x", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "", 50, 0).Return(nil, errors.New("service error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Equal(t, "internal server error", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateCompany(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setupMocks func(*serviceMocks.MockCompanyService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: companyRequest{Name: "Acme", Email: "rrhh@acme.test"},
			setupMocks: func(m *serviceMocks.MockCompanyService) {
				m.On("Create", mock.Anything, model.Company{Name: "Acme", Email: "rrhh@acme.test"}).
					Return(&model.Company{ID: 3, Name: "Acme", Email: "rrhh@acme.test"}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing name",
			body: companyRequest{Email: "rrhh@acme.test"},
			setupMocks: func(m *serviceMocks.MockCompanyService) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrNameRequired).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name: "duplicate email",
			body: companyRequest{Name: "Acme", Email: "rrhh@acme.test"},
			setupMocks: func(m *serviceMocks.MockCompanyService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: duplicate key", repository.ErrDuplicateEmail)).Once()
			},
			wantStatus: http.StatusConflict,
			wantCode:   "DUPLICATE_EMAIL",
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			setupMocks: func(m *serviceMocks.MockCompanyService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockCompanyService)
			tt.setupMocks(mockSvc)

			app := newApp()
			app.Post("/api/companies", CreateCompany(mockSvc))

			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/companies", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCompanyByID(t *testing.T) {
	mockSvc := new(serviceMocks.MockCompanyService)
	app := newApp()
	app.Get("/api/companies/:id", GetCompany(mockSvc))
	app.Put("/api/companies/:id", UpdateCompany(mockSvc))
	app.Delete("/api/companies/:id", DeleteCompany(mockSvc))

	t.Run("get", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7)).Return(&model.Company{ID: 7, Name: "Acme"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies/7", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var co model.Company
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&co))
		assert.Equal(t, "Acme", co.Name)
	})

	t.Run("get missing", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(8)).Return(nil, fmt.Errorf("company %w", service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies/8", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		assert.Equal(t, "company not found", body.Error.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3"} {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies/"+id, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, id)
			assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		in := model.Company{Name: "Acme SA", Email: "a@acme.test, b@acme.test"}
		mockSvc.On("Update", mock.Anything, int64(7), in).Return(&model.Company{ID: 7, Name: "Acme SA", Email: in.Email}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/companies/7", companyRequest{Name: in.Name, Email: in.Email}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(7)).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/companies/7", nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestPatients(t *testing.T) {
	mockSvc := new(serviceMocks.MockPatientService)
	app := newApp()
	app.Get("/api/patients", ListPatients(mockSvc))
	app.Post("/api/patients", CreatePatient(mockSvc))
	app.Get("/api/patients/:id", GetPatient(mockSvc))
	app.Put("/api/patients/:id", UpdatePatient(mockSvc))
	app.Delete("/api/patients/:id", DeletePatient(mockSvc))

	companyID := int64(2)
	age := 40

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "perez", 50, 0).
			Return(&service.ListResult[model.Patient]{Items: []model.Patient{{ID: 1, Surname: "Pérez"}}, Total: 1}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/patients?search=perez", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("create", func(t *testing.T) {
		want := model.Patient{Name: "Ana", Surname: "Pérez", DocumentNumber: "30111222", Age: &age, CompanyID: &companyID}
		mockSvc.On("Create", mock.Anything, want).Return(&model.Patient{ID: 5, Name: "Ana"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/patients", patientRequest{
			Name: "Ana", Surname: "Pérez", DocumentNumber: "30111222", Age: &age, CompanyID: &companyID,
		}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("create without company", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(p model.Patient) bool { return p.CompanyID == nil })).
			Return(nil, service.ErrCompanyRequired).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/patients", patientRequest{Name: "Ana", Surname: "Pérez", DocumentNumber: "1"}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Equal(t, service.ErrCompanyRequired.Error(), body.Error.Message)
	})

	t.Run("duplicate document", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(5), mock.Anything).
			Return(nil, fmt.Errorf("%w: pg detail", repository.ErrDuplicateDocument)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/patients/5", patientRequest{Name: "Ana", CompanyID: &companyID}))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "DUPLICATE_DOCUMENT", body.Error.Code)
		assert.NotContains(t, body.Error.Message, "pg detail")
	})

	t.Run("get and delete", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(5)).Return(&model.Patient{ID: 5}, nil).Once()
		mockSvc.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/patients/5", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/api/patients/5", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestCreatePatientRecord(t *testing.T) {
	days := 3
	body := map[string]any{
		"diagnosis":      "Lumbalgia",
		"date":           "2024-06-10",
		"license_types":  []string{"ART"},
		"justified_days": days,
	}
	matchInput := mock.MatchedBy(func(in service.RecordInput) bool {
		return in.Diagnosis == "Lumbalgia" &&
			in.Date == model.NewDate(2024, time.June, 10) &&
			len(in.LicenseTypes) == 1 && in.LicenseTypes[0] == "ART" &&
			in.JustifiedDays != nil && *in.JustifiedDays == days
	})
	saved := &model.MedicalRecord{ID: 11, PatientID: 4, CompanyID: 2, Diagnosis: "Lumbalgia"}

	t.Run("save only", func(t *testing.T) {
		records := new(serviceMocks.MockMedicalRecordService)
		reports := new(serviceMocks.MockReportService)
		records.On("Create", mock.Anything, int64(4), matchInput).Return(saved, nil).Once()

		app := newApp()
		app.Post("/api/patients/:id/records", CreatePatientRecord(records, reports))

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/patients/4/records", body))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res recordCreated
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, int64(11), res.Record.ID)
		assert.Nil(t, res.Delivery)
		records.AssertExpectations(t)
		reports.AssertNotCalled(t, "SendRecord", mock.Anything, mock.Anything)
	})

	t.Run("save and send keeps record when email fails", func(t *testing.T) {
		records := new(serviceMocks.MockMedicalRecordService)
		reports := new(serviceMocks.MockReportService)
		records.On("Create", mock.Anything, int64(4), matchInput).Return(saved, nil).Once()
		reports.On("SendRecord", mock.Anything, int64(11)).
			Return(&service.DeliveryResult{CompanyName: "Acme", Sent: false, Error: "email delivery failed"}, nil).Once()

		app := newApp()
		app.Post("/api/patients/:id/records", CreatePatientRecord(records, reports))

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/patients/4/records?action=save_and_send", body))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res recordCreated
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, int64(11), res.Record.ID)
		require.NotNil(t, res.Delivery)
		assert.False(t, res.Delivery.Sent)
		records.AssertExpectations(t)
		reports.AssertExpectations(t)
	})

	t.Run("patient without company", func(t *testing.T) {
		records := new(serviceMocks.MockMedicalRecordService)
		records.On("Create", mock.Anything, int64(4), mock.Anything).Return(nil, service.ErrPatientWithoutCompany).Once()

		app := newApp()
		app.Post("/api/patients/:id/records", CreatePatientRecord(records, new(serviceMocks.MockReportService)))

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/patients/4/records", body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad date", func(t *testing.T) {
		app := newApp()
		app.Post("/api/patients/:id/records", CreatePatientRecord(new(serviceMocks.MockMedicalRecordService), new(serviceMocks.MockReportService)))

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/patients/4/records", `{"diagnosis":"x","date":"10/06/2024"}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
}

func TestCreateRecord_BodyPatient(t *testing.T) {
	records := new(serviceMocks.MockMedicalRecordService)
	reports := new(serviceMocks.MockReportService)
	records.On("Create", mock.Anything, int64(9), mock.Anything).Return(&model.MedicalRecord{ID: 1, PatientID: 9}, nil).Once()
	reports.On("SendRecord", mock.Anything, int64(1)).Return(&service.DeliveryResult{Sent: true}, nil).Once()

	app := newApp()
	app.Post("/api/records", CreateRecord(records, reports))

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/records", map[string]any{
		"patient_id": 9, "diagnosis": "Gripe", "date": "2024-06-10", "action": "save_and_send",
	}))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	records.AssertExpectations(t)
	reports.AssertExpectations(t)
}

func TestRecordByID(t *testing.T) {
	records := new(serviceMocks.MockMedicalRecordService)
	app := newApp()
	app.Get("/api/patients/:id/records", PatientRecords(records))
	app.Get("/api/records/:id", GetRecord(records))
	app.Put("/api/records/:id", UpdateRecord(records))
	app.Delete("/api/records/:id", DeleteRecord(records))

	t.Run("history", func(t *testing.T) {
		records.On("History", mock.Anything, int64(4)).Return(nil, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/patients/4/records", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"data":[]}`, string(raw))
	})

	t.Run("detail", func(t *testing.T) {
		records.On("Get", mock.Anything, int64(11)).
			Return(&model.RecordDetail{MedicalRecord: model.MedicalRecord{ID: 11}, CompanyName: "Acme"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/records/11", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		records.On("Update", mock.Anything, int64(11), mock.MatchedBy(func(in service.RecordInput) bool {
			return in.Diagnosis == "Gripe" && in.ReturnDate == model.NewDate(2024, time.June, 14)
		})).Return(&model.MedicalRecord{ID: 11, Diagnosis: "Gripe"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/records/11", map[string]any{
			"diagnosis": "Gripe", "date": "2024-06-10", "return_date": "2024-06-14",
		}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete missing", func(t *testing.T) {
		records.On("Delete", mock.Anything, int64(12)).Return(fmt.Errorf("medical record %w", service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/records/12", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	records.AssertExpectations(t)
}

func TestRecordPDF(t *testing.T) {
	reports := new(serviceMocks.MockReportService)
	app := newApp()
	app.Get("/api/records/:id/pdf", RecordPDF(reports))

	t.Run("inline pdf", func(t *testing.T) {
		pdf := []byte("%PDF-1.3 test")
		reports.On("Generate", mock.Anything, int64(11)).Return(pdf, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/records/11/pdf", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `inline; filename="medical_record_11.pdf"`, resp.Header.Get("Content-Disposition"))
		assert.Equal(t, "no-cache, no-store, must-revalidate, max-age=0", resp.Header.Get("Cache-Control"))
		raw, _ := io.ReadAll(resp.Body)
		assert.Equal(t, pdf, raw)
	})

	t.Run("unknown record", func(t *testing.T) {
		reports.On("Generate", mock.Anything, int64(99)).Return(nil, fmt.Errorf("medical record %w", service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/records/99/pdf", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	reports.AssertExpectations(t)
}

func TestSendRecord(t *testing.T) {
	reports := new(serviceMocks.MockReportService)
	app := newApp()
	app.Post("/api/records/:id/send", SendRecord(reports))

	t.Run("sent", func(t *testing.T) {
		reports.On("SendRecord", mock.Anything, int64(1)).
			Return(&service.DeliveryResult{CompanyName: "Acme", CompanyEmail: "rrhh@acme.test", Attachments: 1, Sent: true}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/records/1/send", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not sent", func(t *testing.T) {
		reports.On("SendRecord", mock.Anything, int64(2)).
			Return(&service.DeliveryResult{CompanyName: "Acme", Error: "email delivery failed"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/records/2/send", nil))

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		var res service.DeliveryResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "email delivery failed", res.Error)
	})

	reports.AssertExpectations(t)
}

func TestDailyReports(t *testing.T) {
	daily := new(serviceMocks.MockDailyService)
	app := newApp()
	app.Get("/api/daily-reports/companies", DailyCandidates(daily))
	app.Post("/api/daily-reports/send", DailySend(daily))

	t.Run("candidates", func(t *testing.T) {
		daily.On("Candidates", mock.Anything).
			Return([]model.CompanySummary{{ID: 1, Name: "Acme", Email: "rrhh@acme.test"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/daily-reports/companies", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data []model.CompanySummary `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Data, 1)
	})

	t.Run("send", func(t *testing.T) {
		daily.On("Send", mock.Anything, []int64{1, 2}).Return(&service.DailyResult{
			Date:   "2024-06-10",
			Groups: []service.DeliveryResult{{CompanyName: "Acme", Attachments: 2, Sent: true}},
		}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/daily-reports/send", dailySendRequest{CompanyIDs: []int64{1, 2}}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res service.DailyResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "2024-06-10", res.Date)
		assert.Len(t, res.Groups, 1)
	})

	t.Run("nothing selected", func(t *testing.T) {
		daily.On("Send", mock.Anything, []int64(nil)).Return(nil, service.ErrNoCompaniesSelected).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/daily-reports/send", `{}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, resp).Error.Code)
	})

	daily.AssertExpectations(t)
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/unauthorized", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	})
	app.Get("/throttled", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts")
	})
	app.Get("/panic-free", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		target     string
		wantStatus int
		wantCode   string
	}{
		{"/unauthorized", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"/throttled", http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"/panic-free", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/missing", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
		})
	}
}

func TestRegisterRoutes_Protect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	companies := new(serviceMocks.MockCompanyService)
	app := newApp()
	RegisterRoutes(app, db, Services{Companies: companies}, Guards{
		Protect: func(c *fiber.Ctx) error {
			if c.Get("Authorization") != "Bearer ok" {
				return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
			}
			return c.Next()
		},
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/companies/1", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	companies.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)

	companies.On("Get", mock.Anything, int64(1)).Return(&model.Company{ID: 1}, nil).Once()
	req := httptest.NewRequest(http.MethodGet, "/api/companies/1", nil)
	req.Header.Set("Authorization", "Bearer ok")
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	companies.AssertExpectations(t)
}
