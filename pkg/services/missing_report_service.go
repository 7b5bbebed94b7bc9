package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/repositories"
)

// MissingReportService runs gap detection over the reporting window and
// records user-asserted suppressions.
type MissingReportService interface {
	// ListMissing returns every (ongoing project, day) pair in the
	// inclusive window with no submitted report and no suppression. A
	// failed fetch degrades to an empty result plus the error.
	ListMissing(ctx context.Context, from, to time.Time) ([]models.MissingReportEntry, error)

	// IgnoreReport persists a suppression. created is false when the entry
	// already existed; that is not an error.
	IgnoreReport(ctx context.Context, projectID uuid.UUID, date, dayLabel string) (created bool, err error)
}

type missingReportService struct {
	projects repositories.ProjectRepository
	records  repositories.ProgressRecordRepository
	ignored  repositories.IgnoredReportRepository
	logger   *zap.Logger
}

func NewMissingReportService(
	projects repositories.ProjectRepository,
	records repositories.ProgressRecordRepository,
	ignored repositories.IgnoredReportRepository,
	logger *zap.Logger,
) MissingReportService {
	return &missingReportService{
		projects: projects,
		records:  records,
		ignored:  ignored,
		logger:   logger.Named("missing-report-service"),
	}
}

var _ MissingReportService = (*missingReportService)(nil)

func (s *missingReportService) ListMissing(ctx context.Context, from, to time.Time) ([]models.MissingReportEntry, error) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch projects for gap detection", zap.Error(err))
		return []models.MissingReportEntry{}, fmt.Errorf("projects: %w: %w", apperrors.ErrSourceUnavailable, err)
	}
	records, err := s.records.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch progress records for gap detection", zap.Error(err))
		return []models.MissingReportEntry{}, fmt.Errorf("progress records: %w: %w", apperrors.ErrSourceUnavailable, err)
	}
	ignored, err := s.ignored.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch ignored report entries", zap.Error(err))
		return []models.MissingReportEntry{}, fmt.Errorf("ignored entries: %w: %w", apperrors.ErrSourceUnavailable, err)
	}

	missing := DetectMissingReports(projects, records, ignored, from, to)
	s.logger.Debug("Gap detection completed",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("projects", len(projects)),
		zap.Int("missing", len(missing)))
	return missing, nil
}

func (s *missingReportService) IgnoreReport(ctx context.Context, projectID uuid.UUID, date, dayLabel string) (bool, error) {
	if projectID == uuid.Nil {
		return false, fmt.Errorf("project ID is required")
	}
	day, ok := ParseFlexibleDate(date)
	if !ok {
		return false, fmt.Errorf("invalid ignore date: %q", date)
	}
	if dayLabel == "" {
		dayLabel = day.Format(DayLabelFormat)
	}

	entry := &models.IgnoredReportEntry{
		ProjectID:       projectID,
		IgnoredDate:     day.Format(ISODate),
		IgnoredDayLabel: dayLabel,
	}
	if err := s.ignored.Create(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Duplicate suppression means the date is already covered.
			return false, nil
		}
		s.logger.Error("Failed to create ignored report entry",
			zap.String("project_id", projectID.String()),
			zap.String("date", entry.IgnoredDate),
			zap.Error(err))
		return false, err
	}
	return true, nil
}
