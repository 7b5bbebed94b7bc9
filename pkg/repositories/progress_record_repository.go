// Package repositories provides pgx-backed data access for kpi-engine.
//
// The store limits page sizes, so list operations fetch in bounded chunks
// and concatenate before returning: the engine always computes over a
// complete snapshot, never partial data.
package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fieldline-io/kpi-engine/pkg/database"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/retry"
)

// fetchChunkSize bounds a single page read from the store.
const fetchChunkSize = 1000

// ProgressRecordRepository provides read access to progress records.
type ProgressRecordRepository interface {
	ListAll(ctx context.Context) ([]*models.ProgressRecord, error)
}

type progressRecordRepository struct {
	db *database.DB
}

func NewProgressRecordRepository(db *database.DB) ProgressRecordRepository {
	return &progressRecordRepository{db: db}
}

var _ ProgressRecordRepository = (*progressRecordRepository)(nil)

func (r *progressRecordRepository) ListAll(ctx context.Context) ([]*models.ProgressRecord, error) {
	var all []*models.ProgressRecord
	offset := 0
	for {
		var chunk []*models.ProgressRecord
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

func (r *progressRecordRepository) listChunk(ctx context.Context, limit, offset int) ([]*models.ProgressRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_code, project_sub_code, project_full_code,
		       activity_name, input_type, quantity, value, rate,
		       planned_value, actual_value, zone, section, unit,
		       activity_division, activity_scope, activity_timing,
		       activity_date, day_label, approval_status, created_at
		FROM progress_records
		ORDER BY id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	defer rows.Close()

	var records []*models.ProgressRecord
	for rows.Next() {
		rec, err := scanProgressRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress records: %w", err)
	}
	return records, nil
}

func scanProgressRecord(row pgx.Row) (*models.ProgressRecord, error) {
	rec := &models.ProgressRecord{}
	err := row.Scan(
		&rec.ID, &rec.ProjectCode, &rec.ProjectSubCode, &rec.ProjectFullCode,
		&rec.ActivityName, &rec.InputType, &rec.Quantity, &rec.Value, &rec.Rate,
		&rec.PlannedValue, &rec.ActualValue, &rec.Zone, &rec.Section, &rec.Unit,
		&rec.ActivityDivision, &rec.ActivityScope, &rec.ActivityTiming,
		&rec.ActivityDate, &rec.DayLabel, &rec.ApprovalStatus, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan progress record: %w", err)
	}
	return rec, nil
}
