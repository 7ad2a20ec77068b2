// Command seed provisions the database schema and loads a small demo data
// set for local development. It is idempotent; re-running it leaves existing
// rows untouched.
package main

import (
	"context"
	"flag"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduvillage/eduvillage-api/pkg/config"
	"github.com/eduvillage/eduvillage-api/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		revoked_at TIMESTAMPTZ,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		roll_number TEXT NOT NULL UNIQUE,
		department TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		subject TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		option_a TEXT NOT NULL,
		option_b TEXT NOT NULL,
		option_c TEXT NOT NULL,
		option_d TEXT NOT NULL,
		correct TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		teacher_id TEXT NOT NULL REFERENCES teachers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		lesson_order INT NOT NULL,
		quiz_id TEXT UNIQUE REFERENCES quizzes(id)
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS progress (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		lesson_id TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, lesson_id)
	)`,
	`CREATE TABLE IF NOT EXISTS student_answers (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		selected TEXT NOT NULL,
		is_correct BOOLEAN NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, question_id)
	)`,
	`CREATE TABLE IF NOT EXISTS student_passed_quizzes (
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
		PRIMARY KEY (student_id, quiz_id)
	)`,
	`CREATE TABLE IF NOT EXISTS certificates (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_revoked BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (student_id, course_id)
	)`,
}

func main() {
	var (
		schemaOnly bool
		password   string
		timeout    time.Duration
	)

	flag.BoolVar(&schemaOnly, "schema-only", false, "Create tables without inserting demo data")
	flag.StringVar(&password, "password", "changeme123", "Password assigned to every demo account")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall execution timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := applySchema(ctx, db); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	log.Printf("schema applied (%d tables)", len(schema))

	if schemaOnly {
		return
	}

	if err := seedDemoData(ctx, db, password); err != nil {
		log.Fatalf("failed to seed demo data: %v", err)
	}
	log.Println("demo data seeded")
}

func applySchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type demoUser struct {
	email    string
	fullName string
	role     string
}

func seedDemoData(ctx context.Context, db *sqlx.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := map[string]demoUser{
		"admin":   {"admin@eduvillage.local", "Site Admin", "ADMIN"},
		"teacher": {"gopher.teacher@eduvillage.local", "Gopher Teacher", "TEACHER"},
		"student": {"ada.student@eduvillage.local", "Ada Student", "STUDENT"},
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userIDs := map[string]string{}
	for key, u := range users {
		id, err := upsertUser(ctx, tx, u, string(hash))
		if err != nil {
			return err
		}
		userIDs[key] = id
	}

	teacherID, err := upsertReturningID(ctx, tx,
		`INSERT INTO teachers (id, user_id, subject) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET subject = EXCLUDED.subject
		 RETURNING id`,
		uuid.NewString(), userIDs["teacher"], "Programming")
	if err != nil {
		return err
	}

	if _, err := upsertReturningID(ctx, tx,
		`INSERT INTO students (id, user_id, roll_number, department) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET roll_number = EXCLUDED.roll_number
		 RETURNING id`,
		uuid.NewString(), userIDs["student"], "S-001", "Computer Science"); err != nil {
		return err
	}

	quizID := "d2f1c7b4-0000-4000-8000-000000000001"
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quizzes (id, title) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		quizID, "Types and Values Check"); err != nil {
		return err
	}

	questions := []struct {
		text, a, b, c, d, correct string
	}{
		{"Which keyword declares a variable?", "var", "let", "def", "dim", "a"},
		{"What is the zero value of an int?", "nil", "0", "-1", "undefined", "b"},
		{"Which type holds text?", "rune", "byte", "string", "char", "c"},
	}
	for i, q := range questions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, quiz_id, text, option_a, option_b, option_c, option_d, correct)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
			demoID("question", i+1), quizID, q.text, q.a, q.b, q.c, q.d, q.correct); err != nil {
			return err
		}
	}

	courseID := "d2f1c7b4-0000-4000-8000-000000000100"
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, teacher_id) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		courseID, "Introduction to Go", "A gentle tour of the language basics.", teacherID); err != nil {
		return err
	}

	lessons := []struct {
		title, content string
		order          int
		quizID         *string
	}{
		{"Getting Started", "Installing the toolchain and writing hello world.", 1, nil},
		{"Types and Values", "Basic types, zero values and conversions.", 2, &quizID},
		{"Functions", "Declarations, multiple returns and errors.", 3, nil},
	}
	for i, l := range lessons {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lessons (id, course_id, title, content, lesson_order, quiz_id)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			demoID("lesson", i+1), courseID, l.title, l.content, l.order, l.quizID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertUser(ctx context.Context, tx *sqlx.Tx, u demoUser, hash string) (string, error) {
	return upsertReturningID(ctx, tx,
		`INSERT INTO users (id, email, password_hash, full_name, role, active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, role = EXCLUDED.role
		 RETURNING id`,
		uuid.NewString(), u.email, hash, u.fullName, u.role)
}

func upsertReturningID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (string, error) {
	var id string
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return "", err
	}
	return id, nil
}

// demoID yields stable per-kind identifiers so reruns hit the ON CONFLICT
// paths instead of duplicating rows.
func demoID(kind string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("eduvillage-seed/"+kind+"/"+strconv.Itoa(n))).String()
}
