package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lancerhq/workspace-service/internal/apperr"
)

func TestGetWorkspaceDashboard(t *testing.T) {
	svc, _, projectID := newTestService(t)

	payload, err := svc.GetWorkspaceDashboard(context.Background(), projectID)
	require.NoError(t, err)

	require.NotNil(t, payload.Brief)
	require.Len(t, payload.Whiteboards, 2)
	require.Len(t, payload.Files, 3)
	require.Len(t, payload.Conversations, 3)
	require.Len(t, payload.Approvals, 3)

	m := payload.Metrics
	require.Equal(t, 3, m.PendingApprovals)
	require.Equal(t, 0, m.OverdueApprovals)
	require.Equal(t, 0, m.UnreadMessages)
	require.Equal(t, 2, m.ActiveWhiteboards)
	// Starter files: 182400 + 4718592 + 932864.
	require.Equal(t, int64(5_833_856), m.TotalAssetBytes)
	require.Equal(t, float64(12), m.ProgressPercent)
}

func TestUpdateWorkspaceBrief(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	brief, err := svc.UpdateWorkspaceBrief(ctx, projectID, map[string]any{
		"title":      "Q3 engagement brief",
		"objectives": []any{"Ship the redesign", " Raise NPS "},
	}, "actor-3")
	require.NoError(t, err)
	require.Equal(t, "Q3 engagement brief", brief.Title)
	require.Equal(t, []string{"Ship the redesign", "Raise NPS"}, []string(brief.Objectives))
	require.NotNil(t, brief.LastUpdatedByID)
	require.Equal(t, "actor-3", *brief.LastUpdatedByID)

	// Fields absent from the payload are left alone.
	require.NotEmpty(t, brief.Summary)
}

func TestUpdateWorkspaceApproval(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	dash, err := svc.GetWorkspaceDashboard(ctx, projectID)
	require.NoError(t, err)
	target := dash.Approvals[0]

	approved, err := svc.UpdateWorkspaceApproval(ctx, projectID, target.ID, map[string]any{
		"status":        "approved",
		"approverName":  "Client sponsor",
		"decisionNotes": "Looks good.",
		"decidedAt":     "2026-08-20T12:00:00Z",
	}, "actor-3")
	require.NoError(t, err)
	require.Equal(t, "approved", approved.Status)
	require.Equal(t, "Client sponsor", approved.ApproverName)
	require.NotNil(t, approved.DecidedAt)

	refetched, err := svc.GetWorkspaceDashboard(ctx, projectID)
	require.NoError(t, err)
	require.Equal(t, 2, refetched.Metrics.PendingApprovals)

	_, err = svc.UpdateWorkspaceApproval(ctx, projectID, "missing-id", map[string]any{"status": "approved"}, "")
	require.True(t, apperr.IsNotFound(err))
}

func TestUpdateWorkspaceWhiteboard(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	dash, err := svc.GetWorkspaceDashboard(ctx, projectID)
	require.NoError(t, err)
	board := dash.Whiteboards[0]

	updated, err := svc.UpdateWorkspaceWhiteboard(ctx, projectID, board.ID, map[string]any{
		"name":   "Kickoff findings",
		"status": "archived",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "Kickoff findings", updated.Name)
	require.Equal(t, "archived", updated.Status)

	refetched, err := svc.GetWorkspaceDashboard(ctx, projectID)
	require.NoError(t, err)
	require.Equal(t, 1, refetched.Metrics.ActiveWhiteboards)
}
