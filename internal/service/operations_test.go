package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lancerhq/workspace-service/internal/models"
)

func TestGetProjectOperationsSeedsOnce(t *testing.T) {
	svc, gormDB, projectID := newTestService(t)
	ctx := context.Background()

	first, err := svc.GetProjectOperations(ctx, projectID)
	require.NoError(t, err)
	second, err := svc.GetProjectOperations(ctx, projectID)
	require.NoError(t, err)

	require.Len(t, first.Tasks, 4)
	require.Len(t, second.Tasks, 4)
	require.Len(t, second.BudgetLines, 3)
	require.Len(t, second.Meetings, 2)
	require.Len(t, second.TimelineEvents, 4)
	require.Len(t, second.Targets, 3)
	require.Len(t, second.TimeLogs, 3)
	require.NotNil(t, second.Timeline)
	require.NotNil(t, second.Brief)

	wsID := second.Workspace.ID
	require.Equal(t, int64(4), countScoped[models.Task](t, gormDB, wsID))
	require.Equal(t, int64(8), countScoped[models.TaskAssignment](t, gormDB, wsID))
	require.Equal(t, int64(3), countScoped[models.BudgetLine](t, gormDB, wsID))
	require.Equal(t, int64(1), countScoped[models.Timeline](t, gormDB, wsID))

	for _, task := range second.Tasks {
		require.Len(t, task.Assignments, 2)
	}
	require.Len(t, second.Conversations, 3)
	for _, conv := range second.Conversations {
		require.NotNil(t, conv.Messages)
	}
}

func TestGetProjectOperationsMetrics(t *testing.T) {
	svc, _, projectID := newTestService(t)

	payload, err := svc.GetProjectOperations(context.Background(), projectID)
	require.NoError(t, err)

	m := payload.Metrics
	require.Equal(t, int64(8_450_000), m.PlannedBudgetCents)
	require.Equal(t, int64(2_300_000), m.ActualBudgetCents)
	require.Equal(t, float64(160), m.TotalWorkloadHours)
	require.InDelta(t, 7.0, m.TotalLoggedHours, 0.001)
	require.Equal(t, 3, m.OpenTasks)
	require.Equal(t, 1, m.UpcomingMeetings)
	require.Equal(t, 2, m.UpcomingTimelineEvents)
	require.Equal(t, 2, m.ActiveTargets)
}

func TestUpdateProjectOperations(t *testing.T) {
	svc, gormDB, projectID := newTestService(t)
	ctx := context.Background()

	payload, err := svc.UpdateProjectOperations(ctx, projectID, map[string]any{
		"status":          "delivery",
		"progressPercent": float64(150),
		"riskLevel":       "medium",
		"metricsSnapshot": map[string]any{"scopeChangeCount": float64(2)},
	}, "actor-9")
	require.NoError(t, err)

	require.Equal(t, "delivery", payload.Workspace.Status)
	require.Equal(t, float64(100), payload.Workspace.ProgressPercent)
	require.Equal(t, "medium", payload.Workspace.RiskLevel)

	var ws models.Workspace
	require.NoError(t, gormDB.First(&ws, "project_id = ?", projectID).Error)
	require.Equal(t, "delivery", ws.Status)
	require.NotNil(t, ws.UpdatedByID)
	require.Equal(t, "actor-9", *ws.UpdatedByID)

	// Untouched fields survive a sparse update.
	require.Equal(t, float64(72), ws.HealthScore)
	require.Equal(t, "pending", ws.BillingStatus)
}

func TestUpdateProjectOperationsRejectsBadPayload(t *testing.T) {
	svc, _, projectID := newTestService(t)

	_, err := svc.UpdateProjectOperations(context.Background(), projectID, map[string]any{
		"progressPercent": "not a number",
	}, "")
	require.Error(t, err)

	_, err = svc.UpdateProjectOperations(context.Background(), projectID, map[string]any{
		"metricsSnapshot": "not an object",
	}, "")
	require.Error(t, err)
}
