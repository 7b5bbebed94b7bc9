package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/database"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/retry"
)

// IgnoredReportRepository persists and lists missing-report suppressions.
type IgnoredReportRepository interface {
	ListAll(ctx context.Context) ([]*models.IgnoredReportEntry, error)
	// Create inserts a suppression entry. A duplicate (project, date) pair
	// returns apperrors.ErrConflict so callers can treat it as
	// already-suppressed.
	Create(ctx context.Context, entry *models.IgnoredReportEntry) error
}

type ignoredReportRepository struct {
	db *database.DB
}

func NewIgnoredReportRepository(db *database.DB) IgnoredReportRepository {
	return &ignoredReportRepository{db: db}
}

var _ IgnoredReportRepository = (*ignoredReportRepository)(nil)

func (r *ignoredReportRepository) ListAll(ctx context.Context) ([]*models.IgnoredReportEntry, error) {
	var entries []*models.IgnoredReportEntry
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		rows, err := r.db.Query(ctx, `
			SELECT id, project_id, ignored_date, ignored_day_label, created_at
			FROM ignored_report_entries
			ORDER BY ignored_date, project_id`)
		if err != nil {
			return fmt.Errorf("failed to list ignored report entries: %w", err)
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			e := &models.IgnoredReportEntry{}
			if err := rows.Scan(&e.ID, &e.ProjectID, &e.IgnoredDate,
				&e.IgnoredDayLabel, &e.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan ignored report entry: %w", err)
			}
			entries = append(entries, e)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating ignored report entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ignoredReportRepository) Create(ctx context.Context, entry *models.IgnoredReportEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO ignored_report_entries (id, project_id, ignored_date, ignored_day_label, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id, ignored_date) DO NOTHING`,
		entry.ID, entry.ProjectID, entry.IgnoredDate, entry.IgnoredDayLabel, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ignored report entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
