package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

// OperationsPayload is the full operations-view read: the project, its
// workspace, every sub-entity collection, and derived metrics.
type OperationsPayload struct {
	Project         *models.Project          `json:"project"`
	Workspace       *models.Workspace        `json:"workspace"`
	Timeline        *models.Timeline         `json:"timeline"`
	Tasks           []models.Task            `json:"tasks"`
	BudgetLines     []models.BudgetLine      `json:"budgetLines"`
	Objects         []models.WorkspaceObject `json:"objects"`
	TimelineEvents  []models.TimelineEvent   `json:"timelineEvents"`
	Meetings        []models.Meeting         `json:"meetings"`
	CalendarEntries []models.CalendarEntry   `json:"calendarEntries"`
	Roles           []models.Role            `json:"roles"`
	Submissions     []models.Submission      `json:"submissions"`
	Invites         []models.Invite          `json:"invites"`
	HrRecords       []models.HrRecord        `json:"hrRecords"`
	TimeLogs        []models.TimeLog         `json:"timeLogs"`
	Targets         []models.Target          `json:"targets"`
	Objectives      []models.Objective       `json:"objectives"`
	Brief           *models.Brief            `json:"brief"`
	Files           []models.File            `json:"files"`
	Conversations   []ConversationView       `json:"conversations"`
	Metrics         OperationsMetrics        `json:"metrics"`
}

// ConversationView joins a conversation with its ordered messages.
type ConversationView struct {
	models.Conversation
	Messages []models.Message `json:"messages"`
}

type OperationsMetrics struct {
	PlannedBudgetCents     int64   `json:"plannedBudgetCents"`
	ActualBudgetCents      int64   `json:"actualBudgetCents"`
	TotalWorkloadHours     float64 `json:"totalWorkloadHours"`
	TotalLoggedHours       float64 `json:"totalLoggedHours"`
	OpenTasks              int     `json:"openTasks"`
	UpcomingMeetings       int     `json:"upcomingMeetings"`
	UpcomingTimelineEvents int     `json:"upcomingTimelineEvents"`
	ActiveTargets          int     `json:"activeTargets"`
}

// gather runs queries concurrently and keeps the first error.
type gather struct {
	wg  sync.WaitGroup
	mu  sync.Mutex
	err error
}

func (g *gather) run(fn func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := fn(); err != nil {
			g.mu.Lock()
			if g.err == nil {
				g.err = err
			}
			g.mu.Unlock()
		}
	}()
}

func (g *gather) wait() error {
	g.wg.Wait()
	return g.err
}

// GetProjectOperations ensures and seeds the workspace inside one
// transaction, then fans out the collection reads concurrently and derives
// the aggregate metrics. The fan-out runs after the seed transaction
// commits; writes landing in between may be observed (read skew is
// tolerated, not eliminated).
func (s *Service) GetProjectOperations(ctx context.Context, projectID string) (*OperationsPayload, error) {
	if payload := s.cachedOperations(ctx, projectID); payload != nil {
		return payload, nil
	}

	project, seeded, err := s.ensureWorkspace(ctx, projectID, true)
	if err != nil {
		return nil, err
	}

	// Reload to pick up fields mutated while seeding.
	var workspace models.Workspace
	if err := s.db.WithContext(ctx).First(&workspace, "id = ?", seeded.ID).Error; err != nil {
		return nil, err
	}

	payload := &OperationsPayload{Project: project, Workspace: &workspace}
	var (
		timelines   []models.Timeline
		assignments []models.TaskAssignment
		messages    []models.Message
		convs       []models.Conversation
	)

	wsID := workspace.ID
	scoped := func(order string) *gorm.DB {
		return s.db.WithContext(ctx).Where("workspace_id = ?", wsID).Order(order)
	}

	var g gather
	g.run(func() error { return scoped("created_at ASC").Limit(1).Find(&timelines).Error })
	g.run(func() error { return scoped("starts_at ASC, created_at ASC").Find(&payload.Tasks).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&assignments).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.BudgetLines).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Objects).Error })
	g.run(func() error { return scoped("event_date ASC").Find(&payload.TimelineEvents).Error })
	g.run(func() error { return scoped("start_at ASC").Find(&payload.Meetings).Error })
	g.run(func() error { return scoped("start_at ASC").Find(&payload.CalendarEntries).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Roles).Error })
	g.run(func() error { return scoped("submitted_at DESC").Find(&payload.Submissions).Error })
	g.run(func() error { return scoped("invited_at DESC").Find(&payload.Invites).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.HrRecords).Error })
	g.run(func() error { return scoped("started_at DESC").Find(&payload.TimeLogs).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Targets).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Objectives).Error })
	g.run(func() error {
		var briefs []models.Brief
		if err := scoped("created_at ASC").Limit(1).Find(&briefs).Error; err != nil {
			return err
		}
		if len(briefs) > 0 {
			payload.Brief = &briefs[0]
		}
		return nil
	})
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Files).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&convs).Error })
	g.run(func() error { return scoped("posted_at ASC").Find(&messages).Error })
	if err := g.wait(); err != nil {
		return nil, err
	}

	if len(timelines) > 0 {
		payload.Timeline = &timelines[0]
	}
	joinAssignments(payload.Tasks, assignments)
	payload.Conversations = joinMessages(convs, messages)
	payload.Metrics = computeOperationsMetrics(payload, time.Now().UTC())

	s.storeOperationsCache(ctx, projectID, payload)
	return payload, nil
}

func joinAssignments(tasks []models.Task, assignments []models.TaskAssignment) {
	byTask := make(map[string][]models.TaskAssignment, len(tasks))
	for _, a := range assignments {
		byTask[a.TaskID] = append(byTask[a.TaskID], a)
	}
	for i := range tasks {
		tasks[i].Assignments = byTask[tasks[i].ID]
		if tasks[i].Assignments == nil {
			tasks[i].Assignments = []models.TaskAssignment{}
		}
	}
}

func joinMessages(convs []models.Conversation, messages []models.Message) []ConversationView {
	byConv := make(map[string][]models.Message, len(convs))
	for _, m := range messages {
		byConv[m.ConversationID] = append(byConv[m.ConversationID], m)
	}
	views := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		msgs := byConv[c.ID]
		if msgs == nil {
			msgs = []models.Message{}
		}
		views = append(views, ConversationView{Conversation: c, Messages: msgs})
	}
	return views
}

func computeOperationsMetrics(p *OperationsPayload, now time.Time) OperationsMetrics {
	var m OperationsMetrics
	for _, line := range p.BudgetLines {
		m.PlannedBudgetCents += line.PlannedAmountCents
		m.ActualBudgetCents += line.ActualAmountCents
	}
	for _, task := range p.Tasks {
		m.TotalWorkloadHours += task.WorkloadHours
		if task.Status != "completed" {
			m.OpenTasks++
		}
	}
	for _, entry := range p.TimeLogs {
		minutes := fieldval.DurationMinutes(&entry.StartedAt, entry.EndedAt)
		if entry.DurationMinutes != nil {
			minutes = entry.DurationMinutes
		}
		if minutes != nil {
			m.TotalLoggedHours += float64(*minutes) / 60
		}
	}
	for _, meeting := range p.Meetings {
		if meeting.StartAt.After(now) {
			m.UpcomingMeetings++
		}
	}
	for _, event := range p.TimelineEvents {
		if event.EventDate.After(now) {
			m.UpcomingTimelineEvents++
		}
	}
	for _, target := range p.Targets {
		if target.Status != "completed" {
			m.ActiveTargets++
		}
	}
	return m
}

func (s *Service) cachedOperations(ctx context.Context, projectID string) *OperationsPayload {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, operationsCacheKey(projectID)).Bytes()
	if err != nil {
		return nil
	}
	var payload OperationsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return &payload
}

func (s *Service) storeOperationsCache(ctx context.Context, projectID string, payload *OperationsPayload) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, operationsCacheKey(projectID), raw, 30*time.Second).Err(); err != nil {
		s.log.Warnw("operations cache store failed", "projectId", projectID, "error", err)
	}
}

// UpdateProjectOperations applies a sparse update to workspace-level fields
// and returns the refreshed operations payload.
func (s *Service) UpdateProjectOperations(ctx context.Context, projectID string, payload map[string]any, actorID string) (*OperationsPayload, error) {
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		updates, err := workspaceUpdates(payload)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		locked := s.lockForUpdate(tx)
		var row models.Workspace
		if err := locked.First(&row, "id = ?", ws.ID).Error; err != nil {
			return err
		}
		return tx.Model(&row).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "workspace", "updated", actorID)
	return s.GetProjectOperations(ctx, projectID)
}

func workspaceUpdates(payload map[string]any) (map[string]any, error) {
	updates := map[string]any{}
	if v, ok := payload["status"]; ok {
		status, err := fieldval.RequireText(v, "status")
		if err != nil {
			return nil, err
		}
		updates["status"] = status
	}
	if v, ok := payload["progressPercent"]; ok {
		pct, err := fieldval.ParsePercent(v, "progressPercent", false)
		if err != nil {
			return nil, err
		}
		updates["progress_percent"] = *pct
	}
	if v, ok := payload["healthScore"]; ok {
		score, err := fieldval.ParseNumber(v, "healthScore", false)
		if err != nil {
			return nil, err
		}
		updates["health_score"] = *score
	}
	if v, ok := payload["velocityScore"]; ok {
		score, err := fieldval.ParseNumber(v, "velocityScore", false)
		if err != nil {
			return nil, err
		}
		updates["velocity_score"] = *score
	}
	if v, ok := payload["riskLevel"]; ok {
		updates["risk_level"] = textOrEmpty(v)
	}
	if v, ok := payload["clientSatisfaction"]; ok {
		score, err := fieldval.ParseNumber(v, "clientSatisfaction", false)
		if err != nil {
			return nil, err
		}
		updates["client_satisfaction"] = *score
	}
	if v, ok := payload["automationCoverage"]; ok {
		pct, err := fieldval.ParsePercent(v, "automationCoverage", false)
		if err != nil {
			return nil, err
		}
		updates["automation_coverage"] = *pct
	}
	if v, ok := payload["billingStatus"]; ok {
		updates["billing_status"] = textOrEmpty(v)
	}
	if v, ok := payload["nextMilestone"]; ok {
		updates["next_milestone"] = textOrEmpty(v)
	}
	if v, ok := payload["nextMilestoneDueAt"]; ok {
		due, err := fieldval.ParseDate(v, "nextMilestoneDueAt", true)
		if err != nil {
			return nil, err
		}
		updates["next_milestone_due_at"] = due
	}
	if v, ok := payload["metricsSnapshot"]; ok {
		snapshot, err := jsonMapValue(v, "metricsSnapshot")
		if err != nil {
			return nil, err
		}
		updates["metrics_snapshot"] = snapshot
	}
	return updates, nil
}
