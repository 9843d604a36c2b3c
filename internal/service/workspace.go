package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/models"
)

// EnsureWorkspace resolves the project, then gets or creates its workspace
// and the minimum starter content. Every workspace-scoped operation funnels
// through here, so the workspace is guaranteed to exist downstream.
//
// First access is serialized: the workspace row is read under a write lock,
// and creation races fall back onto the unique project_id index. The loser
// retries and locks the winner's row before seeding anything.
func (s *Service) EnsureWorkspace(ctx context.Context, projectID string) (*models.Project, *models.Workspace, error) {
	return s.ensureWorkspace(ctx, projectID, false)
}

// ensureWorkspace is EnsureWorkspace with optional operations-view seeding
// folded into the same transaction as workspace creation.
func (s *Service) ensureWorkspace(ctx context.Context, projectID string, seedOps bool) (*models.Project, *models.Workspace, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, nil, apperr.Required("projectId")
	}
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	if release := s.acquireInitLock(ctx, projectID); release != nil {
		defer release()
	}

	var workspace *models.Workspace
	for attempt := 0; attempt < 2; attempt++ {
		workspace, err = s.ensureWorkspaceTx(ctx, projectID, seedOps)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		break
	}
	if err != nil {
		return nil, nil, err
	}
	return project, workspace, nil
}

func (s *Service) ensureWorkspaceTx(ctx context.Context, projectID string, seedOps bool) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.lockForUpdate(tx).Where("project_id = ?", projectID).First(&workspace).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			workspace = defaultWorkspace(projectID)
			if err := tx.Create(&workspace).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if err := ensureStarterArtifacts(tx, &workspace); err != nil {
			return err
		}
		if seedOps {
			return seedOperationsArtifacts(tx, &workspace)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// acquireInitLock takes a best-effort cross-process advisory lock around
// cold-start initialization. Failure to acquire never blocks the request;
// the database transaction remains the authority.
func (s *Service) acquireInitLock(ctx context.Context, projectID string) func() {
	if s.rdb == nil {
		return nil
	}
	lockKey := fmt.Sprintf("lock:workspace:%s", projectID)
	ok, err := s.rdb.SetNX(ctx, lockKey, "1", 10*time.Second).Result()
	if err != nil || !ok {
		return nil
	}
	return func() { s.rdb.Del(ctx, lockKey) }
}

func defaultWorkspace(projectID string) models.Workspace {
	due := time.Now().UTC().AddDate(0, 0, 5)
	return models.Workspace{
		ProjectID:          projectID,
		Status:             "briefing",
		ProgressPercent:    12,
		HealthScore:        72,
		VelocityScore:      64,
		RiskLevel:          "low",
		ClientSatisfaction: 88,
		AutomationCoverage: 35,
		BillingStatus:      "pending",
		NextMilestone:      "Kickoff workshop",
		NextMilestoneDueAt: &due,
		MetricsSnapshot: datatypes.JSONMap{
			"onTimeDeliveryRate": 100,
			"scopeChangeCount":   0,
		},
	}
}

// ensureStarterArtifacts seeds the minimum viable workspace content. Each
// family is guarded by its own count check, so reruns are no-ops and one
// family being present never implies another was seeded.
func ensureStarterArtifacts(tx *gorm.DB, ws *models.Workspace) error {
	if err := ensureStarterBrief(tx, ws); err != nil {
		return err
	}
	if err := ensureStarterWhiteboards(tx, ws); err != nil {
		return err
	}
	if err := ensureStarterFiles(tx, ws); err != nil {
		return err
	}
	if err := ensureStarterConversations(tx, ws); err != nil {
		return err
	}
	return ensureStarterApprovals(tx, ws)
}

func isEmptyFor[T any](tx *gorm.DB, workspaceID string) (bool, error) {
	var count int64
	var model T
	err := tx.Model(&model).Where("workspace_id = ?", workspaceID).Count(&count).Error
	return count == 0, err
}

func ensureStarterBrief(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Brief](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	brief := models.Brief{
		WorkspaceID: ws.ID,
		Title:       "Project brief",
		Summary:     "Summarize the engagement goals, scope, and success criteria here.",
		Objectives: datatypes.NewJSONSlice([]string{
			"Align on scope and deliverables",
			"Confirm delivery timeline and budget",
		}),
		Deliverables: datatypes.NewJSONSlice([]string{
			"Signed statement of work",
			"Delivery plan",
		}),
		SuccessMetrics: datatypes.NewJSONSlice([]string{
			"Client sign-off on every milestone",
		}),
		ClientStakeholders: datatypes.NewJSONSlice([]string{}),
	}
	return tx.Create(&brief).Error
}

func ensureStarterWhiteboards(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Whiteboard](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	boards := []models.Whiteboard{
		{WorkspaceID: ws.ID, Name: "Discovery notes", Description: "Capture kickoff findings and open questions.", Status: "active"},
		{WorkspaceID: ws.ID, Name: "Solution sketches", Description: "Rough concepts and flows before formal deliverables.", Status: "active"},
	}
	return tx.Create(&boards).Error
}

func ensureStarterFiles(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.File](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	files := []models.File{
		{WorkspaceID: ws.ID, FileName: "statement-of-work.pdf", FileType: "document", SizeBytes: 182_400, Status: "available"},
		{WorkspaceID: ws.ID, FileName: "brand-assets.zip", FileType: "archive", SizeBytes: 4_718_592, Status: "available"},
		{WorkspaceID: ws.ID, FileName: "kickoff-deck.pdf", FileType: "document", SizeBytes: 932_864, Status: "available"},
	}
	return tx.Create(&files).Error
}

func ensureStarterConversations(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Conversation](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	conversations := []models.Conversation{
		{WorkspaceID: ws.ID, Topic: "General", ConversationType: "general"},
		{WorkspaceID: ws.ID, Topic: "Deliverable reviews", ConversationType: "review"},
		{WorkspaceID: ws.ID, Topic: "Billing & invoices", ConversationType: "billing"},
	}
	return tx.Create(&conversations).Error
}

func ensureStarterApprovals(tx *gorm.DB, ws *models.Workspace) error {
	empty, err := isEmptyFor[models.Approval](tx, ws.ID)
	if err != nil || !empty {
		return err
	}
	due := time.Now().UTC().AddDate(0, 0, 7)
	approvals := []models.Approval{
		{WorkspaceID: ws.ID, Title: "Statement of work", Description: "Confirm scope, rates, and payment schedule.", Status: "pending", DueAt: &due},
		{WorkspaceID: ws.ID, Title: "Delivery timeline", Description: "Approve the proposed milestone plan.", Status: "pending", DueAt: &due},
		{WorkspaceID: ws.ID, Title: "Kickoff checklist", Description: "Sign off on access, tooling, and points of contact.", Status: "pending", DueAt: &due},
	}
	return tx.Create(&approvals).Error
}
