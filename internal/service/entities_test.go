package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lancerhq/workspace-service/internal/apperr"
)

func TestCalendarEntryVisibility(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateProjectCalendarEntry(ctx, projectID, map[string]any{
		"title":   "Sprint review",
		"startAt": "2026-09-01T15:00:00Z",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "team", entry.Visibility)

	updated, err := svc.UpdateProjectCalendarEntry(ctx, projectID, entry.ID, map[string]any{
		"visibility": "client",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "client", updated.Visibility)

	_, err = svc.UpdateProjectCalendarEntry(ctx, projectID, entry.ID, map[string]any{
		"visibility": "everyone",
	}, "")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "visibility", ve.Field)
}

func TestTimelineEventRequiresDate(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProjectTimelineEvent(ctx, projectID, map[string]any{"title": "Launch"}, "")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "eventDate", ve.Field)

	event, err := svc.CreateProjectTimelineEvent(ctx, projectID, map[string]any{
		"title":     "Launch",
		"eventDate": "2026-10-01",
		"milestone": true,
	}, "")
	require.NoError(t, err)
	require.True(t, event.Milestone)
}

func TestMeetingStringLists(t *testing.T) {
	svc, _, projectID := newTestService(t)

	meeting, err := svc.CreateProjectMeeting(context.Background(), projectID, map[string]any{
		"title":     "Weekly status",
		"startAt":   "2026-09-02T10:00:00Z",
		"attendees": "Client sponsor, Project lead",
	}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Client sponsor", "Project lead"}, []string(meeting.Attendees))
}

func TestRoleRequiresNames(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProjectRole(ctx, projectID, map[string]any{"roleName": "Reviewer"}, "")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "memberName", ve.Field)

	role, err := svc.CreateProjectRole(ctx, projectID, map[string]any{
		"roleName":    "Reviewer",
		"memberName":  "Dana",
		"permissions": []any{"approve"},
	}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"approve"}, []string(role.Permissions))
}

func TestInviteDefaults(t *testing.T) {
	svc, _, projectID := newTestService(t)

	invite, err := svc.CreateProjectInvite(context.Background(), projectID, map[string]any{
		"email":    "reviewer@client.example",
		"roleName": "Client reviewer",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "pending", invite.Status)
	require.NotEmpty(t, invite.Token)
	require.False(t, invite.InvitedAt.IsZero())
}

func TestHrRecordUtilizationClamped(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	record, err := svc.CreateProjectHrRecord(ctx, projectID, map[string]any{
		"roleName":           "Designer",
		"utilizationPercent": float64(130),
	}, "")
	require.NoError(t, err)
	require.Equal(t, float64(100), record.UtilizationPercent)

	updated, err := svc.UpdateProjectHrRecord(ctx, projectID, record.ID, map[string]any{
		"utilizationPercent": float64(-10),
	}, "")
	require.NoError(t, err)
	require.Equal(t, float64(0), updated.UtilizationPercent)
}

func TestSubmissionLifecycle(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	submission, err := svc.CreateProjectSubmission(ctx, projectID, map[string]any{
		"title":       "Design concepts",
		"submittedAt": "2026-08-25T09:00:00Z",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "submitted", submission.Status)

	updated, err := svc.UpdateProjectSubmission(ctx, projectID, submission.ID, map[string]any{
		"status":        "approved",
		"reviewerName":  "Client sponsor",
		"decisionAt":    "2026-08-26T14:00:00Z",
		"decisionNotes": "Approved with minor notes.",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "approved", updated.Status)
	require.NotNil(t, updated.DecisionAt)
}

func TestObjectTags(t *testing.T) {
	svc, _, projectID := newTestService(t)

	object, err := svc.CreateProjectObject(context.Background(), projectID, map[string]any{
		"name": "Style guide",
		"tags": []any{"design", "deliverable"},
	}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"design", "deliverable"}, []string(object.Tags))
	require.Equal(t, "draft", object.Status)
}

func TestTargetAndObjectiveRequiredFields(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProjectTarget(ctx, projectID, map[string]any{}, "")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "name", ve.Field)

	_, err = svc.CreateProjectObjective(ctx, projectID, map[string]any{}, "")
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "title", ve.Field)

	objective, err := svc.CreateProjectObjective(ctx, projectID, map[string]any{
		"title":           "Deliver on schedule",
		"progressPercent": float64(250),
		"keyResults":      "All milestones hit\nNo scope churn",
	}, "")
	require.NoError(t, err)
	require.Equal(t, float64(100), objective.ProgressPercent)
	require.Equal(t, []string{"All milestones hit", "No scope churn"}, []string(objective.KeyResults))
}

func TestFileLifecycle(t *testing.T) {
	svc, _, projectID := newTestService(t)
	ctx := context.Background()

	file, err := svc.CreateWorkspaceFile(ctx, projectID, map[string]any{
		"fileName":  "wireframes.fig",
		"fileType":  "design",
		"sizeBytes": float64(204_800),
		"watermarkSettings": map[string]any{
			"enabled": true,
		},
	}, "")
	require.NoError(t, err)
	require.Equal(t, int64(204_800), file.SizeBytes)
	require.Equal(t, "available", file.Status)

	updated, err := svc.UpdateWorkspaceFile(ctx, projectID, file.ID, map[string]any{
		"status": "archived",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "archived", updated.Status)

	res, err := svc.DeleteWorkspaceFile(ctx, projectID, file.ID, "")
	require.NoError(t, err)
	require.True(t, res.Success)
}
