package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const documentColumns = `
    id, candidate_id, name, type, status,
    COALESCE(issuer, ''), issued_on, expires_on,
    COALESCE(reason, ''), last_updated, created_at`

func scanDocument(row pgx.Row) (Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID, &doc.CandidateID, &doc.Name, &doc.Type, &doc.Status,
		&doc.Issuer, &doc.IssuedOn, &doc.ExpiresOn,
		&doc.Reason, &doc.LastUpdated, &doc.CreatedAt,
	)
	return doc, err
}

func (s *Store) ListByCandidate(ctx context.Context, candidateID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+documentColumns+`
    FROM candidate_documents
    WHERE candidate_id = $1
    ORDER BY created_at
  `, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) Get(ctx context.Context, candidateID, documentID string) (*Document, error) {
	doc, err := scanDocument(s.DB.QueryRow(ctx, `
    SELECT `+documentColumns+`
    FROM candidate_documents
    WHERE candidate_id = $1 AND id = $2
  `, candidateID, documentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) Create(ctx context.Context, doc Document) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO candidate_documents
      (candidate_id, name, type, status, issuer, issued_on, expires_on)
    VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7)
    RETURNING id
  `, doc.CandidateID, doc.Name, doc.Type, doc.Status,
		doc.Issuer, doc.IssuedOn, doc.ExpiresOn).Scan(&id)
	return id, err
}

func (s *Store) UpdateStatus(ctx context.Context, documentID, status, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE candidate_documents
    SET status = $2, reason = NULLIF($3,''), last_updated = now()
    WHERE id = $1
  `, documentID, status, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Replace(ctx context.Context, documentID, name string, doc Document) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE candidate_documents
    SET name = $2, status = $3, issuer = NULLIF($4,''), issued_on = $5,
        expires_on = $6, reason = NULL, last_updated = now()
    WHERE id = $1
  `, documentID, name, StatusPendingVerification, doc.Issuer, doc.IssuedOn, doc.ExpiresOn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, candidateID, documentID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM candidate_documents
    WHERE candidate_id = $1 AND id = $2
  `, candidateID, documentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireOverdue flips every document whose expiry date has passed to Expired.
// Run by the scheduled sweep; the stored status stays the source of truth for
// evaluation.
func (s *Store) ExpireOverdue(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE candidate_documents
    SET status = $1, last_updated = now()
    WHERE expires_on IS NOT NULL
      AND expires_on < now()
      AND status <> $1
  `, StatusExpired)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
