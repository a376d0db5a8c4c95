package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/feichai0017/resume-extractor/config"
	"github.com/feichai0017/resume-extractor/internal/models"
	"github.com/feichai0017/resume-extractor/pkg/logger"
)

var (
	ErrNotFound        = errors.New("resume not found")
	ErrNothingToDelete = errors.New("no entries to delete")
)

// ResumeRepository stores one row per processed résumé. Rows are never
// updated; only the newest one can be deleted.
type ResumeRepository interface {
	Insert(ctx context.Context, r *models.ResumeRecord) (int64, error)
	ListAll(ctx context.Context) ([]*models.ResumeRecord, error)
	Get(ctx context.Context, id int64) (*models.ResumeRecord, error)
	DeleteLast(ctx context.Context) (*models.ResumeRecord, error)
	Count(ctx context.Context) (int, error)
}

const columns = `id, name, email, phone, it_skills, programming, front_end, back_end, database, ai_ml, other_skills, experience`

var schemas = map[string]string{
	config.DriverSQLite: `
CREATE TABLE IF NOT EXISTS resume_data (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         VARCHAR(255),
    email        VARCHAR(255),
    phone        VARCHAR(20),
    it_skills    TEXT,
    programming  TEXT,
    front_end    TEXT,
    back_end     TEXT,
    database     TEXT,
    ai_ml        TEXT,
    other_skills TEXT,
    experience   TEXT
)`,
	config.DriverPostgres: `
CREATE TABLE IF NOT EXISTS resume_data (
    id           SERIAL PRIMARY KEY,
    name         TEXT,
    email        TEXT,
    phone        TEXT,
    it_skills    TEXT,
    programming  TEXT,
    front_end    TEXT,
    back_end     TEXT,
    database     TEXT,
    ai_ml        TEXT,
    other_skills TEXT,
    experience   TEXT
)`,
}

type SQLRepository struct {
	db     *sql.DB
	driver string
	logger logger.Logger
}

// Open connects to the configured database, verifies the connection and
// creates the table if needed.
func Open(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*SQLRepository, error) {
	if _, ok := schemas[cfg.Driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// one writer at a time; SQLite serializes anyway
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &SQLRepository{db: db, driver: cfg.Driver, logger: log.Named("repository")}
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemas[r.driver]); err != nil {
		return fmt.Errorf("failed to create resume_data table: %w", err)
	}
	return nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *SQLRepository) Insert(ctx context.Context, rec *models.ResumeRecord) (int64, error) {
	query := r.rebind(`INSERT INTO resume_data
        (name, email, phone, it_skills, programming, front_end, back_end, database, ai_ml, other_skills, experience)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.ITSkills,
		rec.Programming,
		rec.FrontEnd,
		rec.BackEnd,
		rec.Database,
		rec.AIML,
		rec.OtherSkills,
		rec.Experience,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert resume: %w", err)
	}
	rec.ID = id

	r.logger.Info("Resume stored", logger.Int64("id", id))
	return id, nil
}

// ListAll returns every row in insertion order.
func (r *SQLRepository) ListAll(ctx context.Context) ([]*models.ResumeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM resume_data ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []*models.ResumeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.ResumeRecord, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+columns+` FROM resume_data WHERE id = ?`), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resume %d: %w", id, err)
	}
	return rec, nil
}

// DeleteLast removes the row with the highest id and returns it.
func (r *SQLRepository) DeleteLast(ctx context.Context) (*models.ResumeRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := scanRecord(tx.QueryRowContext(ctx, `SELECT `+columns+` FROM resume_data ORDER BY id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNothingToDelete
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find last resume: %w", err)
	}

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM resume_data WHERE id = ?`), rec.ID); err != nil {
		return nil, fmt.Errorf("failed to delete resume %d: %w", rec.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delete: %w", err)
	}

	r.logger.Info("Resume deleted", logger.Int64("id", rec.ID))
	return rec, nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resume_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*models.ResumeRecord, error) {
	var (
		rec    models.ResumeRecord
		fields [11]sql.NullString
	)
	err := s.Scan(&rec.ID,
		&fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &fields[5],
		&fields[6], &fields[7], &fields[8], &fields[9], &fields[10],
	)
	if err != nil {
		return nil, err
	}

	// NULLs only appear in rows written by other tools; map them to sentinels
	value := func(i int, fallback string) string {
		if fields[i].Valid {
			return fields[i].String
		}
		return fallback
	}
	rec.Name = value(0, models.Unknown)
	rec.Email = value(1, models.Unknown)
	rec.Phone = value(2, models.Unknown)
	rec.ITSkills = value(3, models.None)
	rec.Programming = value(4, models.None)
	rec.FrontEnd = value(5, models.None)
	rec.BackEnd = value(6, models.None)
	rec.Database = value(7, models.None)
	rec.AIML = value(8, models.None)
	rec.OtherSkills = value(9, models.None)
	rec.Experience = value(10, models.None)
	return &rec, nil
}
