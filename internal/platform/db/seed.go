package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffready/internal/domain/auth"
	"staffready/internal/domain/catalog"
	"staffready/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}

	roleIDs, err := ensureRoles(ctx, pool)
	if err != nil {
		return err
	}

	if err := ensureRolePermissions(ctx, pool, roleIDs); err != nil {
		return err
	}

	if err := ensureAdminUser(ctx, pool, roleIDs[auth.RoleAdmin], cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	if cfg.SeedCatalog {
		if err := ensureStarterCatalog(ctx, pool); err != nil {
			return err
		}
	}

	return nil
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := pool.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	roleIDs := map[string]string{}
	for roleName := range auth.RolePermissions {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", roleName).Scan(&id)
		if err == nil {
			roleIDs[roleName] = id
			continue
		}

		err = pool.QueryRow(ctx, "INSERT INTO roles (name) VALUES ($1) RETURNING id", roleName).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[roleName] = id
	}
	return roleIDs, nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool, roleIDs map[string]string) error {
	permMap := map[string]string{}
	rows, err := pool.Query(ctx, "SELECT id, key FROM permissions")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return err
		}
		permMap[key] = id
	}

	for roleName, perms := range auth.RolePermissions {
		roleID := roleIDs[roleName]
		for _, permKey := range perms {
			permID, ok := permMap[permKey]
			if !ok {
				return errors.New("permission not found: " + permKey)
			}
			_, err := pool.Exec(ctx, "INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", roleID, permID)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, roleID, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx, "INSERT INTO users (email, password_hash, role_id) VALUES ($1, $2, $3) RETURNING id", email, hash, roleID).Scan(&id)
}

// ensureStarterCatalog loads a small nursing catalog so a fresh install has
// something to resolve against. Skipped when any occupation already exists.
func ensureStarterCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM occupations").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	occupations := map[string]string{}
	for _, occ := range []struct{ code, title string }{
		{"RN", "Registered Nurse"},
		{"LPN", "Licensed Practical Nurse"},
	} {
		var id string
		if err := pool.QueryRow(ctx, "INSERT INTO occupations (code, title, is_active) VALUES ($1, $2, true) RETURNING id", occ.code, occ.title).Scan(&id); err != nil {
			return err
		}
		occupations[occ.code] = id
	}

	specialties := map[string]string{}
	for _, spec := range []struct{ code, title string }{
		{"ICU", "Intensive Care"},
		{"ER", "Emergency"},
	} {
		var id string
		if err := pool.QueryRow(ctx, "INSERT INTO specialties (code, title, is_active) VALUES ($1, $2, true) RETURNING id", spec.code, spec.title).Scan(&id); err != nil {
			return err
		}
		specialties[spec.code] = id
	}

	for _, spec := range specialties {
		if _, err := pool.Exec(ctx, "INSERT INTO occupation_specialties (occupation_id, specialty_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", occupations["RN"], spec); err != nil {
			return err
		}
	}

	items := map[string]string{}
	for _, item := range []struct {
		name, category, expiration string
		display                    bool
	}{
		{"RN License", catalog.CategoryLicenses, catalog.ExpirationDate, false},
		{"BLS", catalog.CategoryCertification, catalog.ExpirationDate, false},
		{"ACLS", catalog.CategoryCertification, catalog.ExpirationDate, false},
		{"Background Check", catalog.CategoryBackground, catalog.ExpirationNone, false},
		{"Immunization Record", catalog.CategoryHealth, catalog.ExpirationNone, true},
	} {
		var id string
		err := pool.QueryRow(ctx, `
      INSERT INTO compliance_items (name, category, expiration_type, issuer_required, response_style, display_to_candidate, is_active)
      VALUES ($1, $2, $3, false, $4, $5, true)
      RETURNING id
    `, item.name, item.category, item.expiration, catalog.ResponseUpload, item.display).Scan(&id)
		if err != nil {
			return err
		}
		items[item.name] = id
	}

	if _, err := pool.Exec(ctx, `
    INSERT INTO wallet_templates (name, occupation_code, list_item_ids, is_active)
    VALUES ($1, $2, $3, true)
  `, "RN Core", "RN", []string{items["RN License"], items["BLS"], items["Background Check"]}); err != nil {
		return err
	}

	_, err := pool.Exec(ctx, `
    INSERT INTO wallet_templates (name, occupation_code, specialty_code, list_item_ids, is_active)
    VALUES ($1, $2, $3, $4, true)
  `, "RN ICU", "RN", "ICU", []string{items["ACLS"]})
	return err
}
