package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

var patientCols = []string{"id", "name", "surname", "document_number", "phone", "email", "age", "company_id", "company_name"}

func TestPatientPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)
	ctx := context.Background()
	companyID := int64(3)
	p := &model.Patient{Name: "Ana", Surname: "Pérez", DocumentNumber: "30111222", CompanyID: &companyID}

	t.Run("returns stored patient with company name", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO patients").
			WithArgs("Ana", "Pérez", "30111222", "", "", nil, int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(patientCols).AddRow(7, "Ana", "Pérez", "30111222", "", "", nil, 3, "Acme"))

		out, err := repo.Create(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(7), out.ID)
		assert.Nil(t, out.Age)
		require.NotNil(t, out.CompanyID)
		assert.Equal(t, int64(3), *out.CompanyID)
		assert.Equal(t, "Acme", out.CompanyName)
	})

	t.Run("duplicate document number", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO patients").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_patients_document_number"})

		out, err := repo.Create(ctx, p)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, repository.ErrDuplicateDocument)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_FindByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.document_number = $1")).
		WithArgs("30111222").
		WillReturnRows(sqlmock.NewRows(patientCols).AddRow(7, "Ana", "Pérez", "30111222", "", "", 41, nil, ""))

	out, err := repo.FindByDocument(context.Background(), "30111222")
	require.NoError(t, err)
	require.NotNil(t, out.Age)
	assert.Equal(t, 41, *out.Age)
	assert.Nil(t, out.CompanyID)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.document_number = $1")).
		WithArgs("0").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByDocument(context.Background(), "0")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPatientPostgres_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by company ids", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM patients p WHERE p.company_id IN ($1, $2)")).
			WithArgs(int64(1), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("p.company_id IN ($1, $2) ORDER BY p.surname, p.name, p.id LIMIT $3 OFFSET $4")).
			WithArgs(int64(1), int64(2), 50, 0).
			WillReturnRows(sqlmock.NewRows(patientCols).AddRow(7, "Ana", "Pérez", "30111222", "", "", nil, 1, "Acme"))

		res, err := NewPatientPostgres(db).List(ctx,
			repository.PatientFilter{ByCompany: true, CompanyIDs: []int64{1, 2}},
			repository.PageQuery{Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, "Acme", res.Items[0].CompanyName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search without company filter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("p.document_number ILIKE '%' || $1 || '%'")).
			WithArgs("301").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
			WithArgs("301", 10, 20).
			WillReturnRows(sqlmock.NewRows(patientCols))

		res, err := NewPatientPostgres(db).List(ctx, repository.PatientFilter{Search: "301"}, repository.PageQuery{Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty company selection matches nothing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		res, err := NewPatientPostgres(db).List(ctx, repository.PatientFilter{ByCompany: true}, repository.PageQuery{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.Zero(t, res.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPatientPostgres_Update_DuplicateDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE patients").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_patients_document_number"})

	_, err = NewPatientPostgres(db).Update(context.Background(), &model.Patient{ID: 7, Name: "Ana", Surname: "P", DocumentNumber: "1"})
	assert.ErrorIs(t, err, repository.ErrDuplicateDocument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM medical_records WHERE patient_id").WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM patients WHERE id").WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, NewPatientPostgres(db).Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
