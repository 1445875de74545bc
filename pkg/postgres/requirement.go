package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/calvertross/rosterd/pkg/core/model"
)

// GetRequirementTemplate retrieves a requirement template with its items
func (d *DB) GetRequirementTemplate(ctx context.Context, templateID string) (*model.RequirementTemplate, error) {
	var tmpl model.RequirementTemplate
	err := d.pool.QueryRow(ctx, `
		SELECT id, organization_id, name
		FROM requirement_templates
		WHERE id = $1
	`, templateID).Scan(&tmpl.ID, &tmpl.OrganizationID, &tmpl.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("requirement template %s: %w", templateID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query requirement template: %w", err)
	}

	rows, err := d.pool.Query(ctx, `
		SELECT id, template_id, weekday, shift_template_id, role_id, required_count
		FROM requirement_items
		WHERE template_id = $1
		ORDER BY weekday, shift_template_id
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query requirement items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.RequirementItem
		var weekday int
		if err := rows.Scan(&item.ID, &item.TemplateID, &weekday, &item.ShiftTemplateID, &item.RoleID, &item.RequiredCount); err != nil {
			return nil, fmt.Errorf("failed to scan requirement item: %w", err)
		}
		item.Weekday = time.Weekday(weekday)
		tmpl.Items = append(tmpl.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requirement items: %w", err)
	}

	return &tmpl, nil
}
