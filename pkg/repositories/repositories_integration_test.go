//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/testhelpers"
)

func insertProject(t *testing.T, db *testhelpers.TestDB, fullCode, status string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.DB.Exec(context.Background(), `
		INSERT INTO projects (id, project_code, project_sub_code, project_full_code, project_status)
		VALUES ($1, $2, $3, $4, $5)`,
		id, "P100", "01", fullCode, status)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.DB.Exec(context.Background(), `DELETE FROM projects WHERE id = $1`, id)
	})
	return id
}

func TestProjectRepository_ListAll(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	id := insertProject(t, db, "P100-01", models.ProjectStatusOngoing)

	repo := NewProjectRepository(db.DB)
	projects, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	var found *models.Project
	for _, p := range projects {
		if p.ID == id {
			found = p
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "P100-01", found.ProjectFullCode)
	assert.Equal(t, models.ProjectStatusOngoing, found.ProjectStatus)
}

func TestProgressRecordRepository_ListAll(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	id := uuid.New()
	_, err := db.DB.Exec(context.Background(), `
		INSERT INTO progress_records (id, project_full_code, activity_name, input_type, quantity, activity_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, "P100-01", "Excavation", "Actual", 12.5, "2025-01-02")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.DB.Exec(context.Background(), `DELETE FROM progress_records WHERE id = $1`, id)
	})

	repo := NewProgressRecordRepository(db.DB)
	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	var found *models.ProgressRecord
	for _, r := range records {
		if r.ID == id {
			found = r
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Excavation", found.ActivityName)
	assert.Equal(t, models.InputTypeActual, found.InputType)
	assert.Equal(t, 12.5, found.Quantity)
	assert.Equal(t, "2025-01-02", found.ActivityDate)
}

func TestActivityRepository_ListAll(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	id := uuid.New()
	_, err := db.DB.Exec(context.Background(), `
		INSERT INTO boq_activities (id, project_code, project_full_code, activity_name, zone, rate, total_value, total_units)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, "P100", "P100-01", "Excavation", "Zone 1", 50.0, 1000.0, 10.0)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.DB.Exec(context.Background(), `DELETE FROM boq_activities WHERE id = $1`, id)
	})

	repo := NewActivityRepository(db.DB)
	activities, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	var found *models.ActivityDefinition
	for _, a := range activities {
		if a.ID == id {
			found = a
		}
	}
	require.NotNil(t, found)
	require.NotNil(t, found.Rate)
	assert.Equal(t, 50.0, *found.Rate)
	require.NotNil(t, found.TotalValue)
	assert.Equal(t, 1000.0, *found.TotalValue)
}

func TestIgnoredReportRepository_CreateAndConflict(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	projectID := insertProject(t, db, "P100-01", models.ProjectStatusOngoing)

	repo := NewIgnoredReportRepository(db.DB)
	ctx := context.Background()

	entry := &models.IgnoredReportEntry{
		ProjectID:       projectID,
		IgnoredDate:     "2025-01-02",
		IgnoredDayLabel: "Thursday, January 2, 2025",
	}
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)

	// Same (project, date) pair again: unique constraint surfaces as
	// ErrConflict.
	dup := &models.IgnoredReportEntry{
		ProjectID:   projectID,
		IgnoredDate: "2025-01-02",
	}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if e.ProjectID == projectID && e.IgnoredDate == "2025-01-02" {
			found = true
		}
	}
	assert.True(t, found)
}
