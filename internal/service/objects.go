package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectObject(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.WorkspaceObject, error) {
	var object models.WorkspaceObject
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		name, err := fieldval.RequireText(payload["name"], "name")
		if err != nil {
			return err
		}
		dueAt, err := fieldval.ParseDate(payload["dueAt"], "dueAt", true)
		if err != nil {
			return err
		}
		metadata, err := jsonMapValue(payload["metadata"], "metadata")
		if err != nil {
			return err
		}
		object = models.WorkspaceObject{
			WorkspaceID: ws.ID,
			Name:        name,
			ObjectType:  textOrEmpty(payload["objectType"]),
			Status:      "draft",
			OwnerName:   textOrEmpty(payload["ownerName"]),
			Description: textOrEmpty(payload["description"]),
			DueAt:       dueAt,
			Tags:        jsonSliceValue(payload["tags"]),
			Metadata:    metadata,
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			object.Status = status
		}
		return tx.Create(&object).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "object", "created", actorID)
	return &object, nil
}

func (s *Service) UpdateProjectObject(ctx context.Context, projectID, objectID string, payload map[string]any, actorID string) (*models.WorkspaceObject, error) {
	var object *models.WorkspaceObject
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		object, err = findOwned[models.WorkspaceObject](s.lockForUpdate(tx), "object", objectID, ws.ID)
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
		if v, ok := payload["objectType"]; ok {
			updates["object_type"] = textOrEmpty(v)
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
		if v, ok := payload["description"]; ok {
			updates["description"] = textOrEmpty(v)
		}
		if v, ok := payload["dueAt"]; ok {
			dueAt, err := fieldval.ParseDate(v, "dueAt", true)
			if err != nil {
				return err
			}
			updates["due_at"] = dueAt
		}
		if v, ok := payload["tags"]; ok {
			updates["tags"] = jsonSliceValue(v)
		}
		if v, ok := payload["metadata"]; ok {
			metadata, err := jsonMapValue(v, "metadata")
			if err != nil {
				return err
			}
			updates["metadata"] = metadata
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(object).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "object", "updated", actorID)
	return object, nil
}

func (s *Service) DeleteProjectObject(ctx context.Context, projectID, objectID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.WorkspaceObject](s, ctx, projectID, "object", objectID, actorID)
}
