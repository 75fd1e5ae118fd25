package jobs

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

const jobColumns = `
    id, title, occupation_code, COALESCE(specialty_code, ''),
    facility, COALESCE(location, ''), COALESCE(pay_rate, 0),
    requirements, status, created_at, updated_at`

func scanJob(row pgx.Row) (Job, error) {
	var job Job
	err := row.Scan(
		&job.ID, &job.Title, &job.OccupationCode, &job.SpecialtyCode,
		&job.Facility, &job.Location, &job.PayRate,
		&job.Requirements, &job.Status, &job.CreatedAt, &job.UpdatedAt,
	)
	return job, err
}

func (s *Store) List(ctx context.Context, status string, limit, offset int) ([]Job, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+jobColumns+`
    FROM jobs
    WHERE ($1 = '' OR status = $1)
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, jobID string) (*Job, error) {
	job, err := scanJob(s.DB.QueryRow(ctx, `
    SELECT `+jobColumns+`
    FROM jobs
    WHERE id = $1
  `, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Store) Create(ctx context.Context, job Job) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO jobs
      (title, occupation_code, specialty_code, facility, location, pay_rate, requirements, status)
    VALUES ($1,$2,NULLIF($3,''),$4,NULLIF($5,''),NULLIF($6,0),$7,$8)
    RETURNING id
  `, job.Title, job.OccupationCode, job.SpecialtyCode, job.Facility,
		job.Location, job.PayRate, job.Requirements, job.Status).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, job Job) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE jobs
    SET title = $2, occupation_code = $3, specialty_code = NULLIF($4,''),
        facility = $5, location = NULLIF($6,''), pay_rate = NULLIF($7,0),
        requirements = $8, status = $9, updated_at = now()
    WHERE id = $1
  `, job.ID, job.Title, job.OccupationCode, job.SpecialtyCode, job.Facility,
		job.Location, job.PayRate, job.Requirements, job.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) HasApplication(ctx context.Context, jobID, candidateID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM job_applications
    WHERE job_id = $1 AND candidate_id = $2
  `, jobID, candidateID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateApplication(ctx context.Context, jobID, candidateID string, score int) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_applications (job_id, candidate_id, score, status)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, jobID, candidateID, score, ApplicationStatusSubmitted).Scan(&id)
	return id, err
}

func (s *Store) ListApplications(ctx context.Context, candidateID string) ([]Application, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_id, candidate_id, score, status, created_at
    FROM job_applications
    WHERE candidate_id = $1
    ORDER BY created_at DESC
  `, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		var app Application
		if err := rows.Scan(&app.ID, &app.JobID, &app.CandidateID, &app.Score, &app.Status, &app.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}
