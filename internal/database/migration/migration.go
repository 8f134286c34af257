package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// Constraint names the repository layer relies on to classify unique violations.
const (
	CompanyEmailConstraint    = "uq_companies_email"
	PatientDocumentConstraint = "uq_patients_document_number"
	UsernameConstraint        = "uq_users_username"
)

var steps = []migrationStep{
	{
		Name: "create_table_companies",
		SQL: `CREATE TABLE IF NOT EXISTS companies (
  id      SERIAL PRIMARY KEY,
  name    TEXT NOT NULL,
  address TEXT,
  phone   TEXT,
  email   TEXT NOT NULL,
  CONSTRAINT ` + CompanyEmailConstraint + ` UNIQUE (email)
);`,
	},
	{
		Name: "create_table_patients",
		SQL: `CREATE TABLE IF NOT EXISTS patients (
  id              SERIAL PRIMARY KEY,
  name            TEXT NOT NULL,
  surname         TEXT NOT NULL,
  document_number TEXT NOT NULL,
  phone           TEXT,
  email           TEXT,
  age             INTEGER CHECK (age IS NULL OR age >= 0),
  company_id      INTEGER REFERENCES companies(id),
  CONSTRAINT ` + PatientDocumentConstraint + ` UNIQUE (document_number)
);`,
	},
	{
		Name: "create_table_medical_records",
		SQL: `CREATE TABLE IF NOT EXISTS medical_records (
  id             SERIAL PRIMARY KEY,
  patient_id     INTEGER NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
  diagnosis      TEXT NOT NULL,
  date           DATE NOT NULL,
  company_id     INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
  license_type   TEXT,
  justified_days INTEGER CHECK (justified_days IS NULL OR justified_days >= 0),
  license_start  DATE,
  license_end    DATE,
  return_date    DATE,
  observations   TEXT,
  created_at     TIMESTAMP NOT NULL DEFAULT NOW()
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            SERIAL PRIMARY KEY,
  username      TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  CONSTRAINT ` + UsernameConstraint + ` UNIQUE (username)
);`,
	},
	{
		Name: "create_index_patients_company_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_patients_company_id ON patients (company_id);`,
	},
	{
		Name: "create_index_medical_records_patient_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_medical_records_patient_id ON medical_records (patient_id);`,
	},
	{
		Name: "create_index_medical_records_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_medical_records_created_at ON medical_records (created_at);`,
	},
}

// EnsureMigrated checks whether the sentinel table exists and creates the
// schema when it does not. Every step is idempotent, so concurrent instances
// starting at the same time do not break each other.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	query := "SELECT to_regclass('public.medical_records') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Err(err).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}
