package repositories

import (
	"context"
	"fmt"

	"github.com/fieldline-io/kpi-engine/pkg/database"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/retry"
)

// ProjectRepository provides read access to projects.
type ProjectRepository interface {
	ListAll(ctx context.Context) ([]*models.Project, error)
}

type projectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

var _ ProjectRepository = (*projectRepository)(nil)

func (r *projectRepository) ListAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		rows, err := r.db.Query(ctx, `
			SELECT id, project_code, project_sub_code, project_full_code,
			       project_status, responsible_division
			FROM projects
			ORDER BY project_code, project_sub_code`)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		defer rows.Close()

		projects = projects[:0]
		for rows.Next() {
			p := &models.Project{}
			if err := rows.Scan(&p.ID, &p.ProjectCode, &p.ProjectSubCode,
				&p.ProjectFullCode, &p.ProjectStatus, &p.ResponsibleDivision); err != nil {
				return fmt.Errorf("failed to scan project: %w", err)
			}
			projects = append(projects, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating projects: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}
