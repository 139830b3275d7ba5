package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailtriage/internal/model"
)

var (
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("email not found")
	// ErrAlreadySent is returned when a send is attempted on a sent record.
	ErrAlreadySent = errors.New("email already sent")
)

type EmailRepository struct {
	db *pgxpool.Pool
}

func NewEmailRepository(db *pgxpool.Pool) *EmailRepository {
	return &EmailRepository{db: db}
}

// Create inserts a new triaged email and returns its id.
func (r *EmailRepository) Create(ctx context.Context, e *model.Email) (int, error) {
	query := `
        INSERT INTO emails (sender, subject, body, summary, draft_reply, intent, tone, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		e.Sender,
		e.Subject,
		e.Body,
		e.Summary,
		e.DraftReply,
		string(e.Intent),
		string(e.Tone),
		string(e.Status),
	).Scan(&id)
	return id, err
}

// FindByID returns one record by id.
func (r *EmailRepository) FindByID(ctx context.Context, id int) (*model.Email, error) {
	query := `
        SELECT id, sender, subject, body,
               COALESCE(summary, ''), COALESCE(draft_reply, ''),
               COALESCE(intent, ''), COALESCE(tone, ''),
               status, created_at
        FROM emails
        WHERE id = $1
    `
	var e model.Email
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Sender,
		&e.Subject,
		&e.Body,
		&e.Summary,
		&e.DraftReply,
		&e.Intent,
		&e.Tone,
		&e.Status,
		&e.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByRecency returns every record, newest first.
func (r *EmailRepository) ListByRecency(ctx context.Context) ([]model.Email, error) {
	query := `
        SELECT id, sender, subject, body,
               COALESCE(summary, ''), COALESCE(draft_reply, ''),
               COALESCE(intent, ''), COALESCE(tone, ''),
               status, created_at
        FROM emails
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.Email{}
	for rows.Next() {
		var e model.Email
		if err := rows.Scan(
			&e.ID,
			&e.Sender,
			&e.Subject,
			&e.Body,
			&e.Summary,
			&e.DraftReply,
			&e.Intent,
			&e.Tone,
			&e.Status,
			&e.Timestamp,
		); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// Update sets the operator-editable fields. Last write wins; intent is
// never touched after classification.
func (r *EmailRepository) Update(ctx context.Context, id int, draftReply string, tone model.ReplyTone, status model.EmailStatus) error {
	query := `
        UPDATE emails
        SET draft_reply = $1, tone = $2, status = $3
        WHERE id = $4
    `
	tag, err := r.db.Exec(ctx, query, draftReply, string(tone), string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDraft replaces the draft reply and tone, leaving intent and
// status unchanged (the regeneration path).
func (r *EmailRepository) UpdateDraft(ctx context.Context, id int, draftReply string, tone model.ReplyTone) error {
	query := `
        UPDATE emails
        SET draft_reply = $1, tone = $2
        WHERE id = $3
    `
	tag, err := r.db.Exec(ctx, query, draftReply, string(tone), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSent transitions a record to sent exactly once. The WHERE clause
// makes a concurrent double-send lose the race at the store.
func (r *EmailRepository) MarkSent(ctx context.Context, id int) error {
	query := `
        UPDATE emails
        SET status = $1
        WHERE id = $2 AND status <> $1
    `
	tag, err := r.db.Exec(ctx, query, string(model.StatusSent), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadySent
	}
	return nil
}
