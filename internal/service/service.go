// Package service implements the workspace aggregate: lazy idempotent
// initialization of a per-project workspace, operations seeding, aggregate
// reads with derived metrics, and transactional per-entity mutators that
// keep the parent workspace's activity bookkeeping in sync.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/logger"
	"github.com/lancerhq/workspace-service/internal/models"
)

// ProjectProvider resolves the external Project aggregate by ID.
type ProjectProvider interface {
	GetProjectByID(ctx context.Context, projectID string) (*models.Project, error)
}

// EventProducer receives one message per successful mutation. Routing keys
// follow "activity.<entity>.<action>".
type EventProducer interface {
	PublishActivity(ctx context.Context, routingKey string, message []byte) error
}

type Service struct {
	db       *gorm.DB
	projects ProjectProvider
	rdb      *redis.Client // optional: nil disables locking and caching
	producer EventProducer // optional: nil disables activity events
	log      *logger.Logger
}

func New(db *gorm.DB, projects ProjectProvider, rdb *redis.Client, producer EventProducer, log *logger.Logger) *Service {
	if db == nil {
		panic("database connection is required")
	}
	if projects == nil {
		panic("project provider is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		db:       db,
		projects: projects,
		rdb:      rdb,
		producer: producer,
		log:      log,
	}
}

// lockForUpdate adds a row-level write lock on dialects that support it.
// SQLite serializes writers at the database level and rejects the clause.
func (s *Service) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// touchWorkspace stamps the parent after any child mutation.
func touchWorkspace(tx *gorm.DB, workspaceID, actorID string) error {
	updates := map[string]any{
		"last_activity_at": time.Now().UTC(),
		"updated_by_id":    nullableString(actorID),
	}
	return tx.Model(&models.Workspace{}).Where("id = ?", workspaceID).Updates(updates).Error
}

// mutate runs fn inside one transaction after resolving the workspace, then
// touches the parent. The workspace is guaranteed to exist when fn runs.
func (s *Service) mutate(ctx context.Context, projectID, actorID string, fn func(tx *gorm.DB, ws *models.Workspace) error) error {
	_, ws, err := s.EnsureWorkspace(ctx, projectID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx, ws); err != nil {
			return err
		}
		return touchWorkspace(tx, ws.ID, actorID)
	})
}

// findOwned loads an entity scoped to its workspace. A row that exists under
// another workspace reports not-found, same as a missing row.
func findOwned[T any](tx *gorm.DB, resource, entityID, workspaceID string) (*T, error) {
	if strings.TrimSpace(entityID) == "" {
		return nil, apperr.Required(resource + "Id")
	}
	var row T
	err := tx.Where("id = ? AND workspace_id = ?", entityID, workspaceID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(resource, entityID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// finishMutation publishes the activity event and drops cached reads. Both
// are best-effort; the transaction has already committed.
func (s *Service) finishMutation(ctx context.Context, projectID, entity, action, actorID string) {
	s.invalidateCache(ctx, projectID)
	if s.producer == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"projectId": projectID,
		"entity":    entity,
		"action":    action,
		"actorId":   actorID,
		"at":        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	key := fmt.Sprintf("activity.%s.%s", entity, action)
	if err := s.producer.PublishActivity(ctx, key, body); err != nil {
		s.log.Warnw("publish activity failed", "routingKey", key, "error", err)
	}
}

func operationsCacheKey(projectID string) string {
	return "cache:operations:" + projectID
}

func (s *Service) invalidateCache(ctx context.Context, projectID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, operationsCacheKey(projectID)).Err(); err != nil {
		s.log.Warnw("cache invalidation failed", "projectId", projectID, "error", err)
	}
}

func nullableString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// SuccessResult is what delete mutators return.
type SuccessResult struct {
	Success bool `json:"success"`
}
