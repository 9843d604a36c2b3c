package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectTarget(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Target, error) {
	var target models.Target
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		name, err := fieldval.RequireText(payload["name"], "name")
		if err != nil {
			return err
		}
		targetValue, err := fieldval.ParseNumber(payload["targetValue"], "targetValue", true)
		if err != nil {
			return err
		}
		currentValue, err := fieldval.ParseNumber(payload["currentValue"], "currentValue", true)
		if err != nil {
			return err
		}
		dueAt, err := fieldval.ParseDate(payload["dueAt"], "dueAt", true)
		if err != nil {
			return err
		}
		target = models.Target{
			WorkspaceID: ws.ID,
			Name:        name,
			Description: textOrEmpty(payload["description"]),
			Unit:        textOrEmpty(payload["unit"]),
			DueAt:       dueAt,
			Status:      "active",
			OwnerName:   textOrEmpty(payload["ownerName"]),
			Trend:       textOrEmpty(payload["trend"]),
		}
		if targetValue != nil {
			target.TargetValue = *targetValue
		}
		if currentValue != nil {
			target.CurrentValue = *currentValue
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			target.Status = status
		}
		return tx.Create(&target).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "target", "created", actorID)
	return &target, nil
}

func (s *Service) UpdateProjectTarget(ctx context.Context, projectID, targetID string, payload map[string]any, actorID string) (*models.Target, error) {
	var target *models.Target
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		target, err = findOwned[models.Target](s.lockForUpdate(tx), "target", targetID, ws.ID)
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
		if v, ok := payload["targetValue"]; ok {
			targetValue, err := fieldval.ParseNumber(v, "targetValue", true)
			if err != nil {
				return err
			}
			if targetValue != nil {
				updates["target_value"] = *targetValue
			} else {
				updates["target_value"] = float64(0)
			}
		}
		if v, ok := payload["currentValue"]; ok {
			currentValue, err := fieldval.ParseNumber(v, "currentValue", true)
			if err != nil {
				return err
			}
			if currentValue != nil {
				updates["current_value"] = *currentValue
			} else {
				updates["current_value"] = float64(0)
			}
		}
		if v, ok := payload["unit"]; ok {
			updates["unit"] = textOrEmpty(v)
		}
		if v, ok := payload["dueAt"]; ok {
			dueAt, err := fieldval.ParseDate(v, "dueAt", true)
			if err != nil {
				return err
			}
			updates["due_at"] = dueAt
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
		if v, ok := payload["trend"]; ok {
			updates["trend"] = textOrEmpty(v)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(target).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "target", "updated", actorID)
	return target, nil
}

func (s *Service) DeleteProjectTarget(ctx context.Context, projectID, targetID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.Target](s, ctx, projectID, "target", targetID, actorID)
}
