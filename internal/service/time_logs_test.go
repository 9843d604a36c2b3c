package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lancerhq/workspace-service/internal/apperr"
)

func TestCreateTimeLogDerivesDuration(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	entry, err := svc.CreateProjectTimeLog(ctx, projectID, map[string]any{
		"memberName": "Project lead",
		"startedAt":  start.Format(time.RFC3339),
		"endedAt":    end.Format(time.RFC3339),
	}, "")
	require.NoError(t, err)
	require.NotNil(t, entry.DurationMinutes)
	require.Equal(t, int64(90), *entry.DurationMinutes)
	require.True(t, entry.Billable)
}

func TestCreateTimeLogExplicitDurationWins(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateProjectTimeLog(ctx, projectID, map[string]any{
		"memberName":      "Designer",
		"startedAt":       "2026-08-20T09:00:00Z",
		"endedAt":         "2026-08-20T10:30:00Z",
		"durationMinutes": float64(45),
		"billable":        false,
	}, "")
	require.NoError(t, err)
	require.Equal(t, int64(45), *entry.DurationMinutes)
	require.False(t, entry.Billable)
}

func TestCreateTimeLogOpenEnded(t *testing.T) {
	svc, _, projectID := newTestService(t)

	entry, err := svc.CreateProjectTimeLog(context.Background(), projectID, map[string]any{
		"memberName": "Engineer",
		"startedAt":  "2026-08-20T09:00:00Z",
	}, "")
	require.NoError(t, err)
	require.Nil(t, entry.EndedAt)
	require.Nil(t, entry.DurationMinutes)
}

func TestCreateTimeLogValidation(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProjectTimeLog(ctx, projectID, map[string]any{
		"startedAt": "2026-08-20T09:00:00Z",
	}, "")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "memberName", ve.Field)

	_, err = svc.CreateProjectTimeLog(ctx, projectID, map[string]any{
		"memberName": "Engineer",
	}, "")
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "startedAt", ve.Field)

	_, err = svc.CreateProjectTimeLog(ctx, projectID, map[string]any{
		"memberName": "Engineer",
		"startedAt":  "2026-08-20T09:00:00Z",
		"taskId":     "no-such-task",
	}, "")
	require.True(t, apperr.IsNotFound(err))
}

func TestTimeLogTaskReference(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	task, err := svc.AddProjectTask(ctx, projectID, map[string]any{"title": "Tracked work"}, "")
	require.NoError(t, err)

	entry, err := svc.CreateProjectTimeLog(ctx, projectID, map[string]any{
		"memberName": "Engineer",
		"startedAt":  "2026-08-20T09:00:00Z",
		"taskId":     task.ID,
	}, "")
	require.NoError(t, err)
	require.NotNil(t, entry.TaskID)
	require.Equal(t, task.ID, *entry.TaskID)

	// Null clears the reference.
	updated, err := svc.UpdateProjectTimeLog(ctx, projectID, entry.ID, map[string]any{"taskId": nil}, "")
	require.NoError(t, err)
	require.Nil(t, updated.TaskID)
}

func TestUpdateTimeLogRederivesDuration(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateProjectTimeLog(ctx, projectID, map[string]any{
		"memberName": "Engineer",
		"startedAt":  "2026-08-20T09:00:00Z",
		"endedAt":    "2026-08-20T10:00:00Z",
	}, "")
	require.NoError(t, err)
	require.Equal(t, int64(60), *entry.DurationMinutes)

	updated, err := svc.UpdateProjectTimeLog(ctx, projectID, entry.ID, map[string]any{
		"endedAt": "2026-08-20T11:00:00Z",
	}, "")
	require.NoError(t, err)
	require.NotNil(t, updated.DurationMinutes)
	require.Equal(t, int64(120), *updated.DurationMinutes)
}
