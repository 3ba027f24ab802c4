package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/videosync-go/internal/interview"
)

// Schema creates the tables PostgresStore needs.
const Schema = `
CREATE TABLE IF NOT EXISTS interviews (
	id              UUID PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	start_time      TIMESTAMPTZ NOT NULL,
	end_time        TIMESTAMPTZ,
	status          TEXT NOT NULL,
	call_id         TEXT NOT NULL UNIQUE,
	candidate_email TEXT NOT NULL,
	candidate_name  TEXT NOT NULL DEFAULT '',
	interviewer_ids TEXT[] NOT NULL DEFAULT '{}',
	created_by      TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id           UUID PRIMARY KEY,
	interview_id UUID NOT NULL REFERENCES interviews (id) ON DELETE CASCADE,
	author_id    TEXT NOT NULL,
	content      TEXT NOT NULL,
	rating       SMALLINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS comments_interview_id_idx ON comments (interview_id);
`

const interviewColumns = `id, title, description, start_time, end_time, status, call_id,
	candidate_email, candidate_name, interviewer_ids, created_by, created_at`

// PostgresStore is a PostgreSQL implementation of interview.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed interview store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies Schema.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, Schema)

	return err
}

func (p *PostgresStore) Save(ctx context.Context, iv *interview.Interview) error {
	query := `
		INSERT INTO interviews (` + interviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			status = EXCLUDED.status
	`

	interviewers := iv.InterviewerIDs
	if interviewers == nil {
		interviewers = []string{}
	}

	_, err := p.pool.Exec(ctx, query,
		iv.ID,
		iv.Title,
		iv.Description,
		iv.StartTime,
		iv.EndTime,
		string(iv.Status),
		iv.CallID,
		iv.CandidateEmail,
		iv.CandidateName,
		interviewers,
		iv.CreatedBy,
		iv.CreatedAt,
	)

	return err
}

func (p *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*interview.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`

	iv, err := scanInterview(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interview.ErrNotFound
		}

		return nil, err
	}

	return iv, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]*interview.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews ORDER BY start_time`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*interview.Interview

	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, iv)
	}

	return out, rows.Err()
}

func (p *PostgresStore) AddComment(ctx context.Context, c *interview.Comment) error {
	query := `
		INSERT INTO comments (id, interview_id, author_id, content, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query, c.ID, c.InterviewID, c.AuthorID, c.Content, c.Rating, c.CreatedAt)

	return err
}

func (p *PostgresStore) ListComments(ctx context.Context, interviewID uuid.UUID) ([]*interview.Comment, error) {
	if _, err := p.GetByID(ctx, interviewID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, interview_id, author_id, content, rating, created_at
		FROM comments
		WHERE interview_id = $1
		ORDER BY created_at
	`

	rows, err := p.pool.Query(ctx, query, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*interview.Comment

	for rows.Next() {
		var c interview.Comment
		if err := rows.Scan(&c.ID, &c.InterviewID, &c.AuthorID, &c.Content, &c.Rating, &c.CreatedAt); err != nil {
			return nil, err
		}

		out = append(out, &c)
	}

	return out, rows.Err()
}

func scanInterview(row pgx.Row) (*interview.Interview, error) {
	var (
		iv     interview.Interview
		status string
	)

	err := row.Scan(
		&iv.ID,
		&iv.Title,
		&iv.Description,
		&iv.StartTime,
		&iv.EndTime,
		&status,
		&iv.CallID,
		&iv.CandidateEmail,
		&iv.CandidateName,
		&iv.InterviewerIDs,
		&iv.CreatedBy,
		&iv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	iv.Status = interview.Status(status)

	return &iv, nil
}

// Compile-time check.
var _ interview.Repository = (*PostgresStore)(nil)
