package candidates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("candidate not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const candidateColumns = `
    id, COALESCE(user_id::text, ''), first_name, last_name, email,
    COALESCE(phone, ''), COALESCE(occupation_code, ''), specialty_codes,
    COALESCE(skills_summary, ''), COALESCE(shift_preference, ''),
    COALESCE(location_preference, ''), created_at, updated_at`

func scanCandidate(row pgx.Row) (Candidate, error) {
	var c Candidate
	err := row.Scan(
		&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email,
		&c.Phone, &c.OccupationCode, &c.SpecialtyCodes,
		&c.SkillsSummary, &c.ShiftPreference, &c.LocationPref,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (s *Store) Get(ctx context.Context, candidateID string) (*Candidate, error) {
	c, err := scanCandidate(s.DB.QueryRow(ctx, `
    SELECT `+candidateColumns+`
    FROM candidates
    WHERE id = $1
  `, candidateID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (*Candidate, error) {
	c, err := scanCandidate(s.DB.QueryRow(ctx, `
    SELECT `+candidateColumns+`
    FROM candidates
    WHERE user_id = $1
  `, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Candidate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+candidateColumns+`
    FROM candidates
    ORDER BY last_name, first_name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, c Candidate) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO candidates
      (user_id, first_name, last_name, email, phone, occupation_code,
       specialty_codes, skills_summary, shift_preference, location_preference)
    VALUES (NULLIF($1,'')::uuid,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),$7,
            NULLIF($8,''),NULLIF($9,''),NULLIF($10,''))
    RETURNING id
  `, c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.OccupationCode,
		c.SpecialtyCodes, c.SkillsSummary, c.ShiftPreference, c.LocationPref).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, c Candidate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE candidates
    SET first_name = $2, last_name = $3, email = $4, phone = NULLIF($5,''),
        occupation_code = NULLIF($6,''), specialty_codes = $7,
        skills_summary = NULLIF($8,''), shift_preference = NULLIF($9,''),
        location_preference = NULLIF($10,''), updated_at = now()
    WHERE id = $1
  `, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.OccupationCode,
		c.SpecialtyCodes, c.SkillsSummary, c.ShiftPreference, c.LocationPref)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
