package service

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/models"
)

// seedOperationsArtifacts seeds the operations view's starter data. Each
// entity family has its own count guard: seeding tasks never implies budgets
// were seeded, and reruns are no-ops family by family. A failure anywhere
// aborts the surrounding transaction, leaving no partial starter data.
func seedOperationsArtifacts(tx *gorm.DB, ws *models.Workspace) error {
	seeders := []func(*gorm.DB, *models.Workspace) error{
		seedTimeline,
		seedTasks,
		seedBudgetLines,
		seedObjects,
		seedTimelineEvents,
		seedMeetings,
		seedCalendarEntries,
		seedRoles,
		seedSubmissions,
		seedInvites,
		seedHrRecords,
		seedTimeLogs,
		seedTargets,
		seedObjectives,
	}
	for _, seed := range seeders {
		if err := seed(tx, ws); err != nil {
			return err
		}
	}
	return nil
}

func seedTimeline(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Timeline](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -7)
	end := now.AddDate(0, 2, 0)
	timeline := models.Timeline{
		WorkspaceID:   ws.ID,
		Name:          "Delivery timeline",
		Timezone:      "UTC",
		StartsAt:      &start,
		EndsAt:        &end,
		BaselineStart: &start,
		BaselineEnd:   &end,
	}
	return tx.Create(&timeline).Error
}

func seedTasks(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Task](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	stage := func(title, status, lane string, progress, hours float64, startOffset, days int) models.Task {
		start := now.AddDate(0, 0, startOffset)
		end := start.AddDate(0, 0, days)
		return models.Task{
			WorkspaceID:     ws.ID,
			Title:           title,
			Status:          status,
			Lane:            lane,
			ProgressPercent: progress,
			WorkloadHours:   hours,
			StartsAt:        &start,
			EndsAt:          &end,
			Priority:        "medium",
			Assignments: []models.TaskAssignment{
				{WorkspaceID: ws.ID, AssigneeName: "Project lead", RoleName: "lead", AllocationPercent: 50, HoursCommitted: hours / 2},
				{WorkspaceID: ws.ID, AssigneeName: "Delivery specialist", RoleName: "contributor", AllocationPercent: 50, HoursCommitted: hours / 2},
			},
		}
	}
	tasks := []models.Task{
		stage("Discovery & requirements", "completed", "discovery", 100, 24, -7, 5),
		stage("Solution design", "in_progress", "design", 45, 40, -2, 10),
		stage("Build & iterate", "planned", "build", 0, 80, 8, 20),
		stage("Launch & handover", "planned", "launch", 0, 16, 28, 5),
	}
	return tx.Create(&tasks).Error
}

func seedBudgetLines(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.BudgetLine](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	lines := []models.BudgetLine{
		{WorkspaceID: ws.ID, Category: "Discovery", PlannedAmountCents: 1_500_000, ActualAmountCents: 1_500_000, Currency: "USD", Status: "spent"},
		{WorkspaceID: ws.ID, Category: "Design & build", PlannedAmountCents: 2_750_000, ActualAmountCents: 800_000, Currency: "USD", Status: "in_progress"},
		{WorkspaceID: ws.ID, Category: "Launch & support", PlannedAmountCents: 4_200_000, Currency: "USD", Status: "planned"},
	}
	return tx.Create(&lines).Error
}

func seedObjects(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.WorkspaceObject](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	objects := []models.WorkspaceObject{
		{WorkspaceID: ws.ID, Name: "Requirements document", ObjectType: "document", Status: "approved"},
		{WorkspaceID: ws.ID, Name: "Design system", ObjectType: "deliverable", Status: "in_review", Tags: datatypes.NewJSONSlice([]string{"design"})},
		{WorkspaceID: ws.ID, Name: "Release package", ObjectType: "deliverable", Status: "draft"},
	}
	return tx.Create(&objects).Error
}

func seedTimelineEvents(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.TimelineEvent](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	events := []models.TimelineEvent{
		{WorkspaceID: ws.ID, Title: "Project kickoff", EventDate: now.AddDate(0, 0, -7), EventType: "milestone", Milestone: true},
		{WorkspaceID: ws.ID, Title: "Requirements sign-off", EventDate: now.AddDate(0, 0, -1), EventType: "milestone", Milestone: true},
		{WorkspaceID: ws.ID, Title: "Design review", EventDate: now.AddDate(0, 0, 6), EventType: "review"},
		{WorkspaceID: ws.ID, Title: "Launch", EventDate: now.AddDate(0, 1, 0), EventType: "milestone", Milestone: true},
	}
	return tx.Create(&events).Error
}

func seedMeetings(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Meeting](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	pastEnd := now.AddDate(0, 0, -6).Add(time.Hour)
	meetings := []models.Meeting{
		{WorkspaceID: ws.ID, Title: "Kickoff workshop", MeetingType: "workshop", StartAt: now.AddDate(0, 0, -6), EndAt: &pastEnd,
			Agenda: "Introductions, goals, working agreements.", Attendees: datatypes.NewJSONSlice([]string{"Client sponsor", "Project lead"})},
		{WorkspaceID: ws.ID, Title: "Weekly status", MeetingType: "status", StartAt: now.AddDate(0, 0, 3),
			Agenda: "Progress, blockers, next steps."},
	}
	return tx.Create(&meetings).Error
}

func seedCalendarEntries(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.CalendarEntry](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	entries := []models.CalendarEntry{
		{WorkspaceID: ws.ID, Title: "Sprint review", StartAt: now.AddDate(0, 0, 5), EventType: "review", Visibility: "team"},
		{WorkspaceID: ws.ID, Title: "Client demo", StartAt: now.AddDate(0, 0, 12), EventType: "demo", Visibility: "client"},
		{WorkspaceID: ws.ID, Title: "Invoice due", StartAt: now.AddDate(0, 1, 0), EventType: "billing", Visibility: "team"},
	}
	return tx.Create(&entries).Error
}

func seedRoles(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Role](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	roles := []models.Role{
		{WorkspaceID: ws.ID, RoleName: "Project lead", MemberName: "Unassigned", Responsibilities: "Delivery ownership and client communication.",
			Permissions: datatypes.NewJSONSlice([]string{"manage_tasks", "manage_budget", "approve"})},
		{WorkspaceID: ws.ID, RoleName: "Contributor", MemberName: "Unassigned", Responsibilities: "Executes assigned tasks.",
			Permissions: datatypes.NewJSONSlice([]string{"manage_tasks"})},
		{WorkspaceID: ws.ID, RoleName: "Client reviewer", MemberName: "Unassigned", Responsibilities: "Reviews and approves deliverables.",
			Permissions: datatypes.NewJSONSlice([]string{"approve"})},
	}
	return tx.Create(&roles).Error
}

func seedSubmissions(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Submission](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	first := now.AddDate(0, 0, -5)
	second := now.AddDate(0, 0, -1)
	submissions := []models.Submission{
		{WorkspaceID: ws.ID, Title: "Discovery findings", Status: "approved", SubmittedAt: &first, ReviewerName: "Client sponsor"},
		{WorkspaceID: ws.ID, Title: "Initial design concepts", Status: "in_review", SubmittedAt: &second},
	}
	return tx.Create(&submissions).Error
}

func seedInvites(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Invite](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	expires := now.AddDate(0, 0, 14)
	invites := []models.Invite{
		{WorkspaceID: ws.ID, Email: "reviewer@client.example", RoleName: "Client reviewer", Status: "pending", InvitedAt: now, ExpiresAt: &expires},
		{WorkspaceID: ws.ID, Email: "finance@client.example", RoleName: "Billing contact", Status: "pending", InvitedAt: now, ExpiresAt: &expires},
	}
	return tx.Create(&invites).Error
}

func seedHrRecords(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.HrRecord](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	records := []models.HrRecord{
		{WorkspaceID: ws.ID, RoleName: "Project lead", EmploymentType: "freelance", HourlyRateCents: 12_000, CapacityHours: 30, UtilizationPercent: 70},
		{WorkspaceID: ws.ID, RoleName: "Designer", EmploymentType: "freelance", HourlyRateCents: 9_500, CapacityHours: 20, UtilizationPercent: 55},
		{WorkspaceID: ws.ID, RoleName: "Engineer", EmploymentType: "freelance", HourlyRateCents: 11_000, CapacityHours: 35, UtilizationPercent: 80},
	}
	return tx.Create(&records).Error
}

func seedTimeLogs(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.TimeLog](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	now := time.Now().UTC()
	logEntry := func(member string, daysAgo int, minutes int64) models.TimeLog {
		start := now.AddDate(0, 0, -daysAgo)
		end := start.Add(time.Duration(minutes) * time.Minute)
		return models.TimeLog{
			WorkspaceID:     ws.ID,
			MemberName:      member,
			StartedAt:       start,
			EndedAt:         &end,
			DurationMinutes: &minutes,
			Billable:        true,
		}
	}
	logs := []models.TimeLog{
		logEntry("Project lead", 6, 120),
		logEntry("Designer", 4, 90),
		logEntry("Project lead", 2, 210),
	}
	return tx.Create(&logs).Error
}

func seedTargets(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Target](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	targets := []models.Target{
		{WorkspaceID: ws.ID, Name: "Kickoff complete", TargetValue: 1, CurrentValue: 1, Unit: "milestone", Status: "completed", Trend: "flat"},
		{WorkspaceID: ws.ID, Name: "Client satisfaction", TargetValue: 90, CurrentValue: 88, Unit: "percent", Status: "active", Trend: "up"},
		{WorkspaceID: ws.ID, Name: "Billable utilization", TargetValue: 75, CurrentValue: 68, Unit: "percent", Status: "active", Trend: "up"},
	}
	return tx.Create(&targets).Error
}

func seedObjectives(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Objective](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	objectives := []models.Objective{
		{WorkspaceID: ws.ID, Title: "Deliver on schedule", Status: "active", ProgressPercent: 30,
			KeyResults: datatypes.NewJSONSlice([]string{"All milestones hit within 3 days of plan"})},
		{WorkspaceID: ws.ID, Title: "Stay within budget", Status: "active", ProgressPercent: 25,
			KeyResults: datatypes.NewJSONSlice([]string{"Actual spend within 10% of plan"})},
		{WorkspaceID: ws.ID, Title: "Earn a five-star review", Status: "active", ProgressPercent: 0,
			KeyResults: datatypes.NewJSONSlice([]string{"Client posts a public review after handover"})},
	}
	return tx.Create(&objectives).Error
}
