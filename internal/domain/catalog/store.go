package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CountItems(ctx context.Context, includeInactive bool) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM compliance_items
    WHERE ($1 OR is_active)
  `, includeInactive).Scan(&count)
	return count, err
}

func (s *Store) ListItems(ctx context.Context, includeInactive bool, limit, offset int) ([]ComplianceItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, category, expiration_type,
           COALESCE(expiration_value, 0),
           COALESCE(expiration_interval, ''),
           issuer_required,
           COALESCE(issuer, ''),
           response_style, display_to_candidate, is_active,
           created_at, updated_at
    FROM compliance_items
    WHERE ($1 OR is_active)
    ORDER BY name
    LIMIT $2 OFFSET $3
  `, includeInactive, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ComplianceItem
	for rows.Next() {
		var item ComplianceItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.ExpirationType,
			&item.ExpirationValue, &item.ExpirationInterval,
			&item.IssuerRequired, &item.Issuer,
			&item.ResponseStyle, &item.DisplayToCandidate, &item.IsActive,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) GetItem(ctx context.Context, itemID string) (*ComplianceItem, error) {
	var item ComplianceItem
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, category, expiration_type,
           COALESCE(expiration_value, 0),
           COALESCE(expiration_interval, ''),
           issuer_required,
           COALESCE(issuer, ''),
           response_style, display_to_candidate, is_active,
           created_at, updated_at
    FROM compliance_items
    WHERE id = $1
  `, itemID).Scan(
		&item.ID, &item.Name, &item.Category, &item.ExpirationType,
		&item.ExpirationValue, &item.ExpirationInterval,
		&item.IssuerRequired, &item.Issuer,
		&item.ResponseStyle, &item.DisplayToCandidate, &item.IsActive,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateItem(ctx context.Context, item ComplianceItem) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO compliance_items
      (name, category, expiration_type, expiration_value, expiration_interval,
       issuer_required, issuer, response_style, display_to_candidate, is_active)
    VALUES ($1,$2,$3,NULLIF($4,0),NULLIF($5,''),$6,NULLIF($7,''),$8,$9,$10)
    RETURNING id
  `, item.Name, item.Category, item.ExpirationType, item.ExpirationValue,
		item.ExpirationInterval, item.IssuerRequired, item.Issuer,
		item.ResponseStyle, item.DisplayToCandidate, item.IsActive).Scan(&id)
	return id, err
}

func (s *Store) UpdateItem(ctx context.Context, item ComplianceItem) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE compliance_items
    SET name = $2, category = $3, expiration_type = $4,
        expiration_value = NULLIF($5,0), expiration_interval = NULLIF($6,''),
        issuer_required = $7, issuer = NULLIF($8,''),
        response_style = $9, display_to_candidate = $10, is_active = $11,
        updated_at = now()
    WHERE id = $1
  `, item.ID, item.Name, item.Category, item.ExpirationType,
		item.ExpirationValue, item.ExpirationInterval, item.IssuerRequired,
		item.Issuer, item.ResponseStyle, item.DisplayToCandidate, item.IsActive)
	return err
}

func (s *Store) SetItemActive(ctx context.Context, itemID string, active bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE compliance_items
    SET is_active = $2, updated_at = now()
    WHERE id = $1
  `, itemID, active)
	return err
}

// DeleteItem removes a catalog entry outright. Normal flow soft-disables via
// SetItemActive; this exists for admin cleanup only.
func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM compliance_items WHERE id = $1`, itemID)
	return err
}

func (s *Store) ListOccupations(ctx context.Context, includeInactive bool) ([]Occupation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, title, is_active
    FROM occupations
    WHERE ($1 OR is_active)
    ORDER BY code
  `, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var occupations []Occupation
	for rows.Next() {
		var occ Occupation
		if err := rows.Scan(&occ.ID, &occ.Code, &occ.Title, &occ.IsActive); err != nil {
			return nil, err
		}
		occupations = append(occupations, occ)
	}
	return occupations, rows.Err()
}

func (s *Store) CreateOccupation(ctx context.Context, code, title string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO occupations (code, title, is_active)
    VALUES ($1, $2, true)
    RETURNING id
  `, code, title).Scan(&id)
	return id, err
}

func (s *Store) SetOccupationActive(ctx context.Context, occupationID string, active bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE occupations SET is_active = $2 WHERE id = $1
  `, occupationID, active)
	return err
}

func (s *Store) ListSpecialties(ctx context.Context, includeInactive bool) ([]Specialty, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, title, is_active
    FROM specialties
    WHERE ($1 OR is_active)
    ORDER BY code
  `, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specialties []Specialty
	for rows.Next() {
		var spec Specialty
		if err := rows.Scan(&spec.ID, &spec.Code, &spec.Title, &spec.IsActive); err != nil {
			return nil, err
		}
		specialties = append(specialties, spec)
	}
	return specialties, rows.Err()
}

func (s *Store) CreateSpecialty(ctx context.Context, code, title string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO specialties (code, title, is_active)
    VALUES ($1, $2, true)
    RETURNING id
  `, code, title).Scan(&id)
	return id, err
}

func (s *Store) SetSpecialtyActive(ctx context.Context, specialtyID string, active bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE specialties SET is_active = $2 WHERE id = $1
  `, specialtyID, active)
	return err
}

func (s *Store) LinkOccupationSpecialty(ctx context.Context, occupationID, specialtyID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO occupation_specialties (occupation_id, specialty_id)
    VALUES ($1, $2)
    ON CONFLICT (occupation_id, specialty_id) DO UPDATE SET occupation_id = EXCLUDED.occupation_id
    RETURNING id
  `, occupationID, specialtyID).Scan(&id)
	return id, err
}

func (s *Store) ListOccupationSpecialties(ctx context.Context, occupationCode string) ([]OccupationSpecialty, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT os.id, os.occupation_id, os.specialty_id, o.code, sp.code,
           o.title || ' - ' || sp.title
    FROM occupation_specialties os
    JOIN occupations o ON os.occupation_id = o.id
    JOIN specialties sp ON os.specialty_id = sp.id
    WHERE o.is_active AND sp.is_active AND ($1 = '' OR o.code = $1)
    ORDER BY o.code, sp.code
  `, occupationCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []OccupationSpecialty
	for rows.Next() {
		var link OccupationSpecialty
		if err := rows.Scan(
			&link.ID, &link.OccupationID, &link.SpecialtyID,
			&link.OccupationCode, &link.SpecialtyCode, &link.DisplayName,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
