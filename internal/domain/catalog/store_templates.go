package catalog

import (
	"context"
)

func (s *Store) ListTemplates(ctx context.Context, occupationCode string, includeInactive bool) ([]WalletTemplate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, occupation_code, COALESCE(specialty_code, ''),
           list_item_ids, is_active, created_at
    FROM wallet_templates
    WHERE ($1 = '' OR occupation_code = $1) AND ($2 OR is_active)
    ORDER BY occupation_code, specialty_code NULLS FIRST, name
  `, occupationCode, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []WalletTemplate
	for rows.Next() {
		var tpl WalletTemplate
		if err := rows.Scan(
			&tpl.ID, &tpl.Name, &tpl.OccupationCode, &tpl.SpecialtyCode,
			&tpl.ListItemIDs, &tpl.IsActive, &tpl.CreatedAt,
		); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (s *Store) CreateTemplate(ctx context.Context, tpl WalletTemplate) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO wallet_templates (name, occupation_code, specialty_code, list_item_ids, is_active)
    VALUES ($1, $2, NULLIF($3,''), $4, $5)
    RETURNING id
  `, tpl.Name, tpl.OccupationCode, tpl.SpecialtyCode, tpl.ListItemIDs, tpl.IsActive).Scan(&id)
	return id, err
}

func (s *Store) UpdateTemplate(ctx context.Context, tpl WalletTemplate) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE wallet_templates
    SET name = $2, occupation_code = $3, specialty_code = NULLIF($4,''),
        list_item_ids = $5, is_active = $6
    WHERE id = $1
  `, tpl.ID, tpl.Name, tpl.OccupationCode, tpl.SpecialtyCode, tpl.ListItemIDs, tpl.IsActive)
	return err
}

func (s *Store) SetTemplateActive(ctx context.Context, templateID string, active bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE wallet_templates SET is_active = $2 WHERE id = $1
  `, templateID, active)
	return err
}

// LoadSnapshot reads the whole catalog, inactive rows included, into memory.
// The resolver filters on is_active itself so that activity rules live in one
// place and can be tested without a database.
func (s *Store) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Occupations, err = s.ListOccupations(ctx, true); err != nil {
		return Snapshot{}, err
	}
	if snap.Specialties, err = s.ListSpecialties(ctx, true); err != nil {
		return Snapshot{}, err
	}
	if snap.Templates, err = s.ListTemplates(ctx, "", true); err != nil {
		return Snapshot{}, err
	}

	count, err := s.CountItems(ctx, true)
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Items, err = s.ListItems(ctx, true, count+1, 0); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
