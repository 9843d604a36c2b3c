package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

// DashboardPayload is the lighter workspace read used outside the
// operations view.
type DashboardPayload struct {
	Project       *models.Project     `json:"project"`
	Workspace     *models.Workspace   `json:"workspace"`
	Brief         *models.Brief       `json:"brief"`
	Whiteboards   []models.Whiteboard `json:"whiteboards"`
	Files         []models.File       `json:"files"`
	Conversations []ConversationView  `json:"conversations"`
	Approvals     []models.Approval   `json:"approvals"`
	Metrics       DashboardMetrics    `json:"metrics"`
}

type DashboardMetrics struct {
	PendingApprovals   int     `json:"pendingApprovals"`
	OverdueApprovals   int     `json:"overdueApprovals"`
	UnreadMessages     int     `json:"unreadMessages"`
	TotalAssetBytes    int64   `json:"totalAssetBytes"`
	ActiveWhiteboards  int     `json:"activeWhiteboards"`
	ProgressPercent    float64 `json:"progressPercent"`
	HealthScore        float64 `json:"healthScore"`
	VelocityScore      float64 `json:"velocityScore"`
	ClientSatisfaction float64 `json:"clientSatisfaction"`
	AutomationCoverage float64 `json:"automationCoverage"`
}

// GetWorkspaceDashboard loads the workspace plus its dashboard collections.
func (s *Service) GetWorkspaceDashboard(ctx context.Context, projectID string) (*DashboardPayload, error) {
	project, ws, err := s.EnsureWorkspace(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var workspace models.Workspace
	if err := s.db.WithContext(ctx).First(&workspace, "id = ?", ws.ID).Error; err != nil {
		return nil, err
	}

	payload := &DashboardPayload{Project: project, Workspace: &workspace}
	var (
		convs    []models.Conversation
		messages []models.Message
	)
	scoped := func(order string) *gorm.DB {
		return s.db.WithContext(ctx).Where("workspace_id = ?", workspace.ID).Order(order)
	}

	var g gather
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
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Whiteboards).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Files).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&convs).Error })
	g.run(func() error { return scoped("posted_at ASC").Find(&messages).Error })
	g.run(func() error { return scoped("created_at ASC").Find(&payload.Approvals).Error })
	if err := g.wait(); err != nil {
		return nil, err
	}

	payload.Conversations = joinMessages(convs, messages)
	payload.Metrics = computeWorkspaceMetrics(payload, time.Now().UTC())
	return payload, nil
}

func computeWorkspaceMetrics(p *DashboardPayload, now time.Time) DashboardMetrics {
	m := DashboardMetrics{
		ProgressPercent:    p.Workspace.ProgressPercent,
		HealthScore:        p.Workspace.HealthScore,
		VelocityScore:      p.Workspace.VelocityScore,
		ClientSatisfaction: p.Workspace.ClientSatisfaction,
		AutomationCoverage: p.Workspace.AutomationCoverage,
	}
	for _, approval := range p.Approvals {
		if approval.Status == "pending" {
			m.PendingApprovals++
			if approval.DueAt != nil && approval.DueAt.Before(now) {
				m.OverdueApprovals++
			}
		}
	}
	for _, conv := range p.Conversations {
		m.UnreadMessages += conv.UnreadCount
	}
	for _, file := range p.Files {
		m.TotalAssetBytes += file.SizeBytes
	}
	for _, board := range p.Whiteboards {
		if board.Status == "active" {
			m.ActiveWhiteboards++
		}
	}
	return m
}

// UpdateWorkspaceBrief applies a sparse update to the workspace's brief.
func (s *Service) UpdateWorkspaceBrief(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Brief, error) {
	var brief models.Brief
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		if err := s.lockForUpdate(tx).Where("workspace_id = ?", ws.ID).First(&brief).Error; err != nil {
			return err
		}
		updates := map[string]any{"last_updated_by_id": nullableString(actorID)}
		if v, ok := payload["title"]; ok {
			updates["title"] = textOrEmpty(v)
		}
		if v, ok := payload["summary"]; ok {
			updates["summary"] = textOrEmpty(v)
		}
		if v, ok := payload["objectives"]; ok {
			updates["objectives"] = jsonSliceValue(v)
		}
		if v, ok := payload["deliverables"]; ok {
			updates["deliverables"] = jsonSliceValue(v)
		}
		if v, ok := payload["successMetrics"]; ok {
			updates["success_metrics"] = jsonSliceValue(v)
		}
		if v, ok := payload["clientStakeholders"]; ok {
			updates["client_stakeholders"] = jsonSliceValue(v)
		}
		return tx.Model(&brief).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "brief", "updated", actorID)
	return &brief, nil
}

// UpdateWorkspaceApproval applies a sparse update to one approval.
func (s *Service) UpdateWorkspaceApproval(ctx context.Context, projectID, approvalID string, payload map[string]any, actorID string) (*models.Approval, error) {
	var approval *models.Approval
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		approval, err = findOwned[models.Approval](s.lockForUpdate(tx), "approval", approvalID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			updates["status"] = status
		}
		if v, ok := payload["approverName"]; ok {
			updates["approver_name"] = textOrEmpty(v)
		}
		if v, ok := payload["decisionNotes"]; ok {
			updates["decision_notes"] = textOrEmpty(v)
		}
		if v, ok := payload["dueAt"]; ok {
			due, err := fieldval.ParseDate(v, "dueAt", true)
			if err != nil {
				return err
			}
			updates["due_at"] = due
		}
		if v, ok := payload["decidedAt"]; ok {
			decided, err := fieldval.ParseDate(v, "decidedAt", true)
			if err != nil {
				return err
			}
			updates["decided_at"] = decided
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(approval).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "approval", "updated", actorID)
	return approval, nil
}

// AcknowledgeWorkspaceConversation marks a conversation as read.
func (s *Service) AcknowledgeWorkspaceConversation(ctx context.Context, projectID, conversationID, actorID string) (*models.Conversation, error) {
	var conv *models.Conversation
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		conv, err = findOwned[models.Conversation](s.lockForUpdate(tx), "conversation", conversationID, ws.ID)
		if err != nil {
			return err
		}
		conv.UnreadCount = 0
		return tx.Model(conv).Update("unread_count", 0).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "conversation", "acknowledged", actorID)
	return conv, nil
}

// UpdateWorkspaceWhiteboard applies a sparse update to one whiteboard.
func (s *Service) UpdateWorkspaceWhiteboard(ctx context.Context, projectID, whiteboardID string, payload map[string]any, actorID string) (*models.Whiteboard, error) {
	var board *models.Whiteboard
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		board, err = findOwned[models.Whiteboard](s.lockForUpdate(tx), "whiteboard", whiteboardID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["name"]; ok {
			name, err := fieldval.RequireText(v, "name")
			if err != nil {
				return err
			}
			updates["name"] = name
		}
		if v, ok := payload["description"]; ok {
			updates["description"] = textOrEmpty(v)
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			updates["status"] = status
		}
		if v, ok := payload["ownerName"]; ok {
			updates["owner_name"] = textOrEmpty(v)
		}
		if v, ok := payload["metadata"]; ok {
			meta, err := jsonMapValue(v, "metadata")
			if err != nil {
				return err
			}
			updates["metadata"] = meta
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(board).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "whiteboard", "updated", actorID)
	return board, nil
}
