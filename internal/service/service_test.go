package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/db"
	"github.com/lancerhq/workspace-service/internal/logger"
	"github.com/lancerhq/workspace-service/internal/models"
	"github.com/lancerhq/workspace-service/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Every :memory: connection is its own database; the operations read
	// fans out across goroutines, so pin the pool to one connection.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(gormDB))
	return gormDB
}

func newTestService(t *testing.T) (*Service, *gorm.DB, string) {
	t.Helper()
	gormDB := newTestDB(t)
	project := models.Project{Name: "Brand refresh", UserID: uuid.New().String(), Status: "active"}
	require.NoError(t, gormDB.Create(&project).Error)

	svc := New(gormDB, repository.NewProjectRepository(gormDB), nil, nil, logger.Nop())
	return svc, gormDB, project.ID
}

func countScoped[T any](t *testing.T, gormDB *gorm.DB, workspaceID string) int64 {
	t.Helper()
	var model T
	var count int64
	require.NoError(t, gormDB.Model(&model).Where("workspace_id = ?", workspaceID).Count(&count).Error)
	return count
}

func TestEnsureWorkspaceIdempotent(t *testing.T) {
	svc, gormDB, projectID := newTestService(t)
	ctx := context.Background()

	var workspaceID string
	for i := 0; i < 3; i++ {
		_, ws, err := svc.EnsureWorkspace(ctx, projectID)
		require.NoError(t, err)
		require.NotEmpty(t, ws.ID)
		if workspaceID == "" {
			workspaceID = ws.ID
		}
		require.Equal(t, workspaceID, ws.ID)
	}

	var workspaces int64
	require.NoError(t, gormDB.Model(&models.Workspace{}).Where("project_id = ?", projectID).Count(&workspaces).Error)
	require.Equal(t, int64(1), workspaces)

	require.Equal(t, int64(1), countScoped[models.Brief](t, gormDB, workspaceID))
	require.Equal(t, int64(2), countScoped[models.Whiteboard](t, gormDB, workspaceID))
	require.Equal(t, int64(3), countScoped[models.File](t, gormDB, workspaceID))
	require.Equal(t, int64(3), countScoped[models.Conversation](t, gormDB, workspaceID))
	require.Equal(t, int64(3), countScoped[models.Approval](t, gormDB, workspaceID))
}

func TestEnsureWorkspaceDefaults(t *testing.T) {
	svc, _, projectID := newTestService(t)

	_, ws, err := svc.EnsureWorkspace(context.Background(), projectID)
	require.NoError(t, err)
	require.Equal(t, "briefing", ws.Status)
	require.Equal(t, float64(12), ws.ProgressPercent)
	require.Equal(t, "low", ws.RiskLevel)
	require.Equal(t, "Kickoff workshop", ws.NextMilestone)
	require.NotNil(t, ws.NextMilestoneDueAt)
}

func TestEnsureWorkspaceUnknownProject(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.EnsureWorkspace(context.Background(), uuid.New().String())
	require.Error(t, err)
	require.True(t, apperr.IsNotFound(err))

	_, _, err = svc.EnsureWorkspace(context.Background(), "  ")
	require.Error(t, err)
	require.True(t, apperr.IsValidation(err))
}

func TestEnsureWorkspaceConcurrentFirstAccess(t *testing.T) {
	svc, gormDB, projectID := newTestService(t)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.EnsureWorkspace(context.Background(), projectID)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var workspaces int64
	require.NoError(t, gormDB.Model(&models.Workspace{}).Where("project_id = ?", projectID).Count(&workspaces).Error)
	require.Equal(t, int64(1), workspaces)
}

func TestMutationTouchesWorkspace(t *testing.T) {
	svc, gormDB, projectID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddProjectTask(ctx, projectID, map[string]any{"title": "First"}, "actor-1")
	require.NoError(t, err)

	var ws models.Workspace
	require.NoError(t, gormDB.First(&ws, "project_id = ?", projectID).Error)
	require.NotNil(t, ws.LastActivityAt)
	require.NotNil(t, ws.UpdatedByID)
	require.Equal(t, "actor-1", *ws.UpdatedByID)
	first := *ws.LastActivityAt

	time.Sleep(5 * time.Millisecond)
	_, err = svc.AddProjectTask(ctx, projectID, map[string]any{"title": "Second"}, "actor-2")
	require.NoError(t, err)

	require.NoError(t, gormDB.First(&ws, "project_id = ?", projectID).Error)
	require.True(t, ws.LastActivityAt.After(first))
	require.Equal(t, "actor-2", *ws.UpdatedByID)
}

type capturingProducer struct {
	mu   sync.Mutex
	keys []string
}

func (p *capturingProducer) PublishActivity(_ context.Context, routingKey string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func TestMutationPublishesActivity(t *testing.T) {
	gormDB := newTestDB(t)
	project := models.Project{Name: "Brand refresh", UserID: uuid.New().String(), Status: "active"}
	require.NoError(t, gormDB.Create(&project).Error)

	producer := &capturingProducer{}
	svc := New(gormDB, repository.NewProjectRepository(gormDB), nil, producer, logger.Nop())

	task, err := svc.AddProjectTask(context.Background(), project.ID, map[string]any{"title": "Design review"}, "actor-1")
	require.NoError(t, err)
	_, err = svc.RemoveProjectTask(context.Background(), project.ID, task.ID, "actor-1")
	require.NoError(t, err)

	require.Equal(t, []string{"activity.task.created", "activity.task.deleted"}, producer.keys)
}

func TestFindOwnedScoping(t *testing.T) {
	svc, gormDB, projectID := newTestService(t)
	ctx := context.Background()

	other := models.Project{Name: "Other engagement", UserID: uuid.New().String(), Status: "active"}
	require.NoError(t, gormDB.Create(&other).Error)

	task, err := svc.AddProjectTask(ctx, projectID, map[string]any{"title": "Scoped"}, "")
	require.NoError(t, err)

	// Same entity id through the wrong project resolves as not found.
	_, err = svc.UpdateProjectTask(ctx, other.ID, task.ID, map[string]any{"status": "completed"}, "")
	require.Error(t, err)
	require.True(t, apperr.IsNotFound(err))

	_, err = svc.UpdateProjectTask(ctx, projectID, "", map[string]any{"status": "completed"}, "")
	require.Error(t, err)
	require.True(t, apperr.IsValidation(err))
}
