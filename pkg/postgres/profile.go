package postgres

import (
	"context"
	"fmt"

	"github.com/calvertross/rosterd/pkg/core/model"
)

// GetProfiles retrieves all profiles belonging to an organization
func (d *DB) GetProfiles(ctx context.Context, organizationID string) ([]model.Profile, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, organization_id, first_name, last_name, active
		FROM profiles
		WHERE organization_id = $1
		ORDER BY last_name, first_name
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.FirstName, &p.LastName, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// GetRoles retrieves an organization's roles, soft-deleted ones excluded
func (d *DB) GetRoles(ctx context.Context, organizationID string) ([]model.Role, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, organization_id, name, deleted
		FROM roles
		WHERE organization_id = $1 AND NOT deleted
		ORDER BY name
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var r model.Role
		if err := rows.Scan(&r.ID, &r.OrganizationID, &r.Name, &r.Deleted); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}

// GetShiftTemplates retrieves an organization's shift templates
func (d *DB) GetShiftTemplates(ctx context.Context, organizationID string) ([]model.ShiftTemplate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, organization_id, name, start_minute, end_minute
		FROM shift_templates
		WHERE organization_id = $1
		ORDER BY start_minute, name
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ShiftTemplate
	for rows.Next() {
		var t model.ShiftTemplate
		var start, end int
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.Name, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		t.Window = model.Window{Start: model.Clock(start), End: model.Clock(end)}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift templates: %w", err)
	}

	return templates, nil
}
