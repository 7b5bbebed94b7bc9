package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/repositories"
)

// KPIListResult pairs the filtered detail rows with the summary computed
// from the same slice. Returning both from one call is what guarantees the
// table and its totals agree.
type KPIListResult struct {
	Records []ValuedRecord `json:"records"`
	Summary Summary        `json:"summary"`
}

// KPIService serves the KPI tracking view: filtered listings of annotated
// progress records and their aggregates.
type KPIService interface {
	List(ctx context.Context, filter *Filter) (*KPIListResult, error)
}

type kpiService struct {
	records    repositories.ProgressRecordRepository
	activities repositories.ActivityRepository
	logger     *zap.Logger
}

func NewKPIService(
	records repositories.ProgressRecordRepository,
	activities repositories.ActivityRepository,
	logger *zap.Logger,
) KPIService {
	return &kpiService{
		records:    records,
		activities: activities,
		logger:     logger.Named("kpi-service"),
	}
}

var _ KPIService = (*kpiService)(nil)

func (s *kpiService) List(ctx context.Context, filter *Filter) (*KPIListResult, error) {
	records, err := s.records.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch progress records", zap.Error(err))
		return nil, fmt.Errorf("progress records: %w: %w", apperrors.ErrSourceUnavailable, err)
	}
	activities, err := s.activities.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch activity definitions", zap.Error(err))
		return nil, fmt.Errorf("activities: %w: %w", apperrors.ErrSourceUnavailable, err)
	}

	idx := NewActivityIndex(activities)
	lookups := BuildLookups(activities)
	annotated := AnnotateRecords(visibleRecords(records), idx, lookups)
	filtered := ApplyFilter(annotated, filter)

	return &KPIListResult{
		Records: filtered,
		Summary: Summarize(filtered),
	}, nil
}

// visibleRecords withholds Actual records whose approval status is present
// and not "approved". Planned records and records with no status are always
// visible.
func visibleRecords(records []*models.ProgressRecord) []*models.ProgressRecord {
	visible := make([]*models.ProgressRecord, 0, len(records))
	for _, rec := range records {
		if rec.InputType == models.InputTypeActual {
			status := strings.ToLower(strings.TrimSpace(rec.ApprovalStatus))
			if status != "" && status != models.ApprovalStatusApproved {
				continue
			}
		}
		visible = append(visible, rec)
	}
	return visible
}
