package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// PostgresStore is a JobStore backed by Postgres, intended for
// horizontally-sharded multi-process deployments.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens a connection pool to dsn, runs pending migrations,
// and returns a ready store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	slog.Info("postgres job store opened")
	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("build migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		return fmt.Errorf("build migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, job domain.JobRaw) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, name, cron, task_type, payload, last_run, status, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.Name, job.Cron, job.TaskType, job.Payload, job.LastRun, string(job.Status), job.Message,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (domain.JobRaw, error) {
	var row jobRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name, cron, task_type, payload, last_run, status, message FROM jobs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobRaw{}, ErrNotFound
	}
	if err != nil {
		return domain.JobRaw{}, err
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.JobRaw, error) {
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

func (s *PostgresStore) Update(ctx context.Context, job domain.JobRaw) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET name = $1, cron = $2, task_type = $3, payload = $4, last_run = $5, status = $6, message = $7
		WHERE id = $8`,
		job.Name, job.Cron, job.TaskType, job.Payload, job.LastRun, string(job.Status), job.Message, job.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *PostgresStore) Close() error { return s.db.Close() }
