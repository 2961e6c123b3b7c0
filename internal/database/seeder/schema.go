package seeder

import (
	"context"
	"fmt"

	"career-compass/internal/database"
)

type SchemaSeeder struct{}

func (SchemaSeeder) Name() string { return "schema" }

// Run creates the posting store tables when they do not exist yet. The
// column types are the portable subset accepted by both Postgres and
// SQLite.
func (SchemaSeeder) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS postings (
			job_id TEXT PRIMARY KEY,
			title TEXT,
			description TEXT,
			min_salary DOUBLE PRECISION,
			max_salary DOUBLE PRECISION,
			med_salary DOUBLE PRECISION,
			location TEXT,
			company_name TEXT,
			skills_desc TEXT,
			formatted_experience_level TEXT,
			formatted_work_type TEXT,
			remote_allowed TEXT,
			views BIGINT,
			applies BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS salaries (
			job_id TEXT,
			min_salary DOUBLE PRECISION,
			max_salary DOUBLE PRECISION
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
