package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fieldline-io/kpi-engine/pkg/database"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/retry"
)

// ActivityRepository provides read access to BOQ activity definitions.
type ActivityRepository interface {
	ListAll(ctx context.Context) ([]*models.ActivityDefinition, error)
}

type activityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) ActivityRepository {
	return &activityRepository{db: db}
}

var _ ActivityRepository = (*activityRepository)(nil)

func (r *activityRepository) ListAll(ctx context.Context) ([]*models.ActivityDefinition, error) {
	var all []*models.ActivityDefinition
	offset := 0
	for {
		var chunk []*models.ActivityDefinition
		err := retry.Do(ctx, retry.DefaultConfig(), func() error {
			var chunkErr error
			chunk, chunkErr = r.listChunk(ctx, fetchChunkSize, offset)
			return chunkErr
		})
		if err != nil {
			return nil, err
		}
		all = append(all, chunk...)
		if len(chunk) < fetchChunkSize {
			return all, nil
		}
		offset += fetchChunkSize
	}
}

func (r *activityRepository) listChunk(ctx context.Context, limit, offset int) ([]*models.ActivityDefinition, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_code, project_full_code, activity_name, zone,
		       rate, total_value, total_units,
		       activity_division, activity_scope, activity_timing
		FROM boq_activities
		ORDER BY id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.ActivityDefinition
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return activities, nil
}

func scanActivity(row pgx.Row) (*models.ActivityDefinition, error) {
	act := &models.ActivityDefinition{}
	err := row.Scan(
		&act.ID, &act.ProjectCode, &act.ProjectFullCode, &act.ActivityName, &act.Zone,
		&act.Rate, &act.TotalValue, &act.TotalUnits,
		&act.ActivityDivision, &act.ActivityScope, &act.ActivityTiming,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity: %w", err)
	}
	return act, nil
}
