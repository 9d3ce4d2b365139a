package repository

import (
	"context"
	"fmt"

	"dealer-kart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// contactRepository implements the ContactRepository interface using PostgreSQL.
type contactRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewContactRepository creates a new PostgreSQL-backed contact repository.
func NewContactRepository(pool *pgxpool.Pool, logger zerolog.Logger) ContactRepository {
	return &contactRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "contact").Logger(),
	}
}

// CreateContact stores a contact form message.
func (r *contactRepository) CreateContact(ctx context.Context, c *model.Contact) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contacts (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.Email, c.Subject, c.Message, c.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create contact")
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// ListContacts retrieves contact messages, newest first.
func (r *contactRepository) ListContacts(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, subject, message, created_at
		FROM contacts
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query contacts")
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan contact row")
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// CreateSubmission stores a test submission.
func (r *contactRepository) CreateSubmission(ctx context.Context, s *model.TestSubmission) error {
	payload := s.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO test_submissions (id, name, email, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.Name, s.Email, string(payload), s.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create test submission")
		return fmt.Errorf("failed to create test submission: %w", err)
	}
	return nil
}

// ListSubmissions retrieves test submissions, newest first.
func (r *contactRepository) ListSubmissions(ctx context.Context, limit, offset int) ([]model.TestSubmission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, payload::text, created_at
		FROM test_submissions
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query test submissions")
		return nil, fmt.Errorf("failed to query test submissions: %w", err)
	}
	defer rows.Close()

	submissions := []model.TestSubmission{}
	for rows.Next() {
		var (
			s       model.TestSubmission
			payload string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &payload, &s.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan test submission row")
			return nil, fmt.Errorf("failed to scan test submission: %w", err)
		}
		s.Payload = []byte(payload)
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test submissions: %w", err)
	}

	return submissions, nil
}
