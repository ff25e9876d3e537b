package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// sqliteSchema is applied with CREATE TABLE IF NOT EXISTS on open, the same
// inline-migration idiom the teacher uses for its own sqlite-backed store:
// golang-migrate's sqlite driver needs cgo (mattn/go-sqlite3), which is
// incompatible with the pure-Go modernc.org/sqlite driver used here for
// portability, so schema setup for this backend stays inline rather than
// going through golang-migrate.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	cron TEXT NOT NULL,
	task_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	last_run TIMESTAMP,
	status TEXT NOT NULL DEFAULT 'scheduled',
	message TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore is a JobStore backed by a local SQLite file, intended for
// single-process deployments and tests.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at path, creating its
// parent directory first if absent.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite parent dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	slog.Info("sqlite job store opened", "path", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, job domain.JobRaw) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, name, cron, task_type, payload, last_run, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Name, job.Cron, job.TaskType, job.Payload, job.LastRun, string(job.Status), job.Message,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.JobRaw, error) {
	var row jobRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name, cron, task_type, payload, last_run, status, message FROM jobs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobRaw{}, ErrNotFound
	}
	if err != nil {
		return domain.JobRaw{}, err
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.JobRaw, error) {
	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name, cron, task_type, payload, last_run, status, message FROM jobs`); err != nil {
		return nil, err
	}
	jobs := make([]domain.JobRaw, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, r.toDomain())
	}
	return jobs, nil
}

func (s *SQLiteStore) Update(ctx context.Context, job domain.JobRaw) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET name = ?, cron = ?, task_type = ?, payload = ?, last_run = ?, status = ?, message = ?
		WHERE id = ?`,
		job.Name, job.Cron, job.TaskType, job.Payload, job.LastRun, string(job.Status), job.Message, job.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// jobRow is the sqlx scan target; last_run needs a nullable scan type since
// domain.JobRaw.LastRun is a *time.Time.
type jobRow struct {
	ID       string     `db:"id"`
	Name     string     `db:"name"`
	Cron     string     `db:"cron"`
	TaskType string     `db:"task_type"`
	Payload  string     `db:"payload"`
	LastRun  *time.Time `db:"last_run"`
	Status   string     `db:"status"`
	Message  string     `db:"message"`
}

func (r jobRow) toDomain() domain.JobRaw {
	return domain.JobRaw{
		ID:       r.ID,
		Name:     r.Name,
		Cron:     r.Cron,
		TaskType: r.TaskType,
		Payload:  r.Payload,
		LastRun:  r.LastRun,
		Status:   domain.JobStatus(r.Status),
		Message:  r.Message,
	}
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
