package storage

import (
	"database/sql"
	"fmt"
	"log"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS classes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		section TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		roll_no TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		class_id UUID NOT NULL REFERENCES classes(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS exams (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		class_id UUID NOT NULL REFERENCES classes(id),
		start_date DATE,
		end_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS exam_subjects (
		exam_id UUID NOT NULL REFERENCES exams(id),
		subject_id UUID NOT NULL REFERENCES subjects(id),
		position INT NOT NULL,
		max_marks NUMERIC(6,2) NOT NULL DEFAULT 0,
		PRIMARY KEY (exam_id, subject_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		class_id UUID NOT NULL,
		date DATE NOT NULL,
		student_id UUID NOT NULL,
		status VARCHAR(10) NOT NULL,
		marked_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (class_id, date, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS marks (
		student_id UUID NOT NULL,
		exam_id UUID NOT NULL,
		subject_id UUID NOT NULL,
		marks_obtained NUMERIC(6,2) NOT NULL,
		max_marks NUMERIC(6,2) NOT NULL DEFAULT 100,
		entered_by UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (student_id, exam_id, subject_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fee_records (
		student_id UUID NOT NULL,
		class_id UUID NOT NULL,
		term TEXT NOT NULL DEFAULT '',
		amount_due NUMERIC(12,2) NOT NULL DEFAULT 0,
		amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		PRIMARY KEY (student_id, term)
	)`,
}

// Migrate creates the ledger tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	log.Println("Database migrations completed")
	return nil
}
