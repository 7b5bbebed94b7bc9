package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/models"
)

type mockProjectRepository struct {
	projects []*models.Project
	err      error
}

func (m *mockProjectRepository) ListAll(ctx context.Context) ([]*models.Project, error) {
	return m.projects, m.err
}

type mockIgnoredReportRepository struct {
	entries   []*models.IgnoredReportEntry
	createErr error
	created   []*models.IgnoredReportEntry
}

func (m *mockIgnoredReportRepository) ListAll(ctx context.Context) ([]*models.IgnoredReportEntry, error) {
	return m.entries, nil
}

func (m *mockIgnoredReportRepository) Create(ctx context.Context, entry *models.IgnoredReportEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, entry)
	return nil
}

func TestMissingReportService_ListMissing(t *testing.T) {
	project := &models.Project{
		ID:              uuid.New(),
		ProjectCode:     "P100",
		ProjectSubCode:  "01",
		ProjectFullCode: "P100-01",
		ProjectStatus:   models.ProjectStatusOngoing,
	}
	svc := NewMissingReportService(
		&mockProjectRepository{projects: []*models.Project{project}},
		&mockProgressRecordRepository{records: []*models.ProgressRecord{
			{ProjectFullCode: "P100-01", ActivityDate: "2025-01-01"},
		}},
		&mockIgnoredReportRepository{},
		zap.NewNop(),
	)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	missing, err := svc.ListMissing(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "2025-01-02", missing[0].Date)
}

func TestMissingReportService_ListMissing_SourceUnavailable(t *testing.T) {
	svc := NewMissingReportService(
		&mockProjectRepository{err: errors.New("connection refused")},
		&mockProgressRecordRepository{},
		&mockIgnoredReportRepository{},
		zap.NewNop(),
	)

	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	missing, err := svc.ListMissing(context.Background(), day, day)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
	assert.NotNil(t, missing, "callers render the empty list, never nil")
	assert.Empty(t, missing)
}

func TestMissingReportService_IgnoreReport(t *testing.T) {
	repo := &mockIgnoredReportRepository{}
	svc := NewMissingReportService(
		&mockProjectRepository{},
		&mockProgressRecordRepository{},
		repo,
		zap.NewNop(),
	)

	projectID := uuid.New()
	created, err := svc.IgnoreReport(context.Background(), projectID, "2025-01-02", "")
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, repo.created, 1)
	entry := repo.created[0]
	assert.Equal(t, projectID, entry.ProjectID)
	assert.Equal(t, "2025-01-02", entry.IgnoredDate)
	assert.Equal(t, "Thursday, January 2, 2025", entry.IgnoredDayLabel, "label defaults from the date")
}

func TestMissingReportService_IgnoreReport_KeepsProvidedLabel(t *testing.T) {
	repo := &mockIgnoredReportRepository{}
	svc := NewMissingReportService(
		&mockProjectRepository{},
		&mockProgressRecordRepository{},
		repo,
		zap.NewNop(),
	)

	_, err := svc.IgnoreReport(context.Background(), uuid.New(), "2025-01-02", "Day 2")
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Day 2", repo.created[0].IgnoredDayLabel)
}

func TestMissingReportService_IgnoreReport_AlreadySuppressed(t *testing.T) {
	repo := &mockIgnoredReportRepository{createErr: apperrors.ErrConflict}
	svc := NewMissingReportService(
		&mockProjectRepository{},
		&mockProgressRecordRepository{},
		repo,
		zap.NewNop(),
	)

	created, err := svc.IgnoreReport(context.Background(), uuid.New(), "2025-01-02", "")
	require.NoError(t, err, "duplicate suppression is not an error")
	assert.False(t, created)
}

func TestMissingReportService_IgnoreReport_InvalidDate(t *testing.T) {
	svc := NewMissingReportService(
		&mockProjectRepository{},
		&mockProgressRecordRepository{},
		&mockIgnoredReportRepository{},
		zap.NewNop(),
	)

	_, err := svc.IgnoreReport(context.Background(), uuid.New(), "not a date", "")
	assert.Error(t, err)
}
