package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hr-screening/internal/types"
)

// SaveTemplate inserts a job template or replaces the one with the same role
// name.
func (db *DB) SaveTemplate(ctx context.Context, t *types.JobTemplate) (*types.JobTemplate, error) {
	skills, err := json.Marshal(t.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template skills: %w", err)
	}
	education, err := json.Marshal(t.Education)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal education requirements: %w", err)
	}
	bonus, err := json.Marshal(t.Bonus)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bonus rules: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_templates (role_name, jd_text, role_level, is_open, skills, education_requirements, bonus_rules)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (role_name) DO UPDATE SET
		     jd_text = $2, role_level = $3, is_open = $4,
		     skills = $5, education_requirements = $6, bonus_rules = $7,
		     updated_at = NOW()
		 RETURNING id, role_name, jd_text, role_level, is_open, skills, education_requirements, bonus_rules, created_at, updated_at`,
		t.RoleName, t.JDText, t.RoleLevel, t.IsOpen, skills, education, bonus,
	)
	return scanTemplate(row)
}

// GetTemplateByRole retrieves a job template by role name.
func (db *DB) GetTemplateByRole(ctx context.Context, role string) (*types.JobTemplate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, role_name, jd_text, role_level, is_open, skills, education_requirements, bonus_rules, created_at, updated_at
		 FROM job_templates WHERE role_name = $1`,
		role,
	)
	t, err := scanTemplate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// ListTemplates returns all job templates ordered by role name.
func (db *DB) ListTemplates(ctx context.Context) ([]types.JobTemplate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, role_name, jd_text, role_level, is_open, skills, education_requirements, bonus_rules, created_at, updated_at
		 FROM job_templates ORDER BY role_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []types.JobTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// SetTemplateOpen opens or closes a role. Returns false when the role does
// not exist.
func (db *DB) SetTemplateOpen(ctx context.Context, role string, open bool) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE job_templates SET is_open = $1, updated_at = NOW() WHERE role_name = $2`,
		open, role,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update template: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteTemplate removes a job template by ID. Returns false when no row matched.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete template: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTemplate(row pgx.Row) (*types.JobTemplate, error) {
	var t types.JobTemplate
	var skills, education, bonus []byte
	err := row.Scan(&t.ID, &t.RoleName, &t.JDText, &t.RoleLevel, &t.IsOpen,
		&skills, &education, &bonus, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}
	if err := json.Unmarshal(skills, &t.Skills); err != nil {
		return nil, fmt.Errorf("failed to parse template skills: %w", err)
	}
	if err := json.Unmarshal(education, &t.Education); err != nil {
		return nil, fmt.Errorf("failed to parse education requirements: %w", err)
	}
	if err := json.Unmarshal(bonus, &t.Bonus); err != nil {
		return nil, fmt.Errorf("failed to parse bonus rules: %w", err)
	}
	return &t, nil
}
