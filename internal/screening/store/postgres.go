package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vetgate/internal/screening/models"
	id "vetgate/pkg/domain"
	"vetgate/pkg/platform/sentinel"
)

// Postgres persists cases as JSONB rows keyed by case ID. Status and
// timestamps are lifted into columns for querying; the case body stays the
// source of truth.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the cases table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS screening_cases (
			case_id    TEXT PRIMARY KEY,
			status     TEXT NOT NULL,
			body       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure screening_cases schema: %w", err)
	}
	return nil
}

func (s *Postgres) Save(ctx context.Context, c models.Case) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal case: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO screening_cases (case_id, status, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (case_id) DO UPDATE SET
			status = EXCLUDED.status,
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at`,
		c.ID.String(), string(c.Status), body, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save case: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, caseID id.CaseID) (models.Case, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM screening_cases WHERE case_id = $1`,
		caseID.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Case{}, sentinel.ErrNotFound
		}
		return models.Case{}, fmt.Errorf("find case: %w", err)
	}
	var c models.Case
	if err := json.Unmarshal(body, &c); err != nil {
		return models.Case{}, fmt.Errorf("unmarshal case: %w", err)
	}
	return c, nil
}
