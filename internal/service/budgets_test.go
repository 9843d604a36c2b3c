package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lancerhq/workspace-service/internal/apperr"
)

func TestCreateProjectBudgetValidation(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProjectBudget(ctx, projectID, map[string]any{"category": ""}, "")
	require.Error(t, err)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "category", ve.Field)

	_, err = svc.CreateProjectBudget(ctx, projectID, map[string]any{"category": "Design"}, "")
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "plannedAmountCents", ve.Field)

	_, err = svc.CreateProjectBudget(ctx, projectID, map[string]any{
		"category":           "Design",
		"plannedAmountCents": 1200.50,
	}, "")
	require.True(t, apperr.IsValidation(err))

	_, err = svc.CreateProjectBudget(ctx, projectID, map[string]any{
		"category":           "Design",
		"plannedAmountCents": float64(120000),
		"currency":           "dollars",
	}, "")
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "currency", ve.Field)
}

func TestBudgetLifecycle(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	line, err := svc.CreateProjectBudget(ctx, projectID, map[string]any{
		"category":           "Design",
		"plannedAmountCents": float64(500_000),
		"currency":           "eur",
	}, "actor-1")
	require.NoError(t, err)
	require.Equal(t, int64(500_000), line.PlannedAmountCents)
	require.Equal(t, "EUR", line.Currency)
	require.Equal(t, "planned", line.Status)

	updated, err := svc.UpdateProjectBudget(ctx, projectID, line.ID, map[string]any{
		"actualAmountCents": float64(125_000),
		"status":            "in_progress",
	}, "actor-1")
	require.NoError(t, err)
	require.Equal(t, int64(125_000), updated.ActualAmountCents)
	require.Equal(t, "in_progress", updated.Status)
	require.Equal(t, int64(500_000), updated.PlannedAmountCents)

	res, err := svc.DeleteProjectBudget(ctx, projectID, line.ID, "actor-1")
	require.NoError(t, err)
	require.True(t, res.Success)

	_, err = svc.UpdateProjectBudget(ctx, projectID, line.ID, map[string]any{"status": "spent"}, "")
	require.True(t, apperr.IsNotFound(err))
}
