package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectObjective(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Objective, error) {
	var objective models.Objective
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		title, err := fieldval.RequireText(payload["title"], "title")
		if err != nil {
			return err
		}
		dueAt, err := fieldval.ParseDate(payload["dueAt"], "dueAt", true)
		if err != nil {
			return err
		}
		progress, err := fieldval.ParsePercent(payload["progressPercent"], "progressPercent", true)
		if err != nil {
			return err
		}
		objective = models.Objective{
			WorkspaceID: ws.ID,
			Title:       title,
			Description: textOrEmpty(payload["description"]),
			Status:      "active",
			OwnerName:   textOrEmpty(payload["ownerName"]),
			DueAt:       dueAt,
			KeyResults:  jsonSliceValue(payload["keyResults"]),
		}
		if progress != nil {
			objective.ProgressPercent = *progress
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			objective.Status = status
		}
		return tx.Create(&objective).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "objective", "created", actorID)
	return &objective, nil
}

func (s *Service) UpdateProjectObjective(ctx context.Context, projectID, objectiveID string, payload map[string]any, actorID string) (*models.Objective, error) {
	var objective *models.Objective
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		objective, err = findOwned[models.Objective](s.lockForUpdate(tx), "objective", objectiveID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["title"]; ok {
			title, err := fieldval.RequireText(v, "title")
			if err != nil {
				return err
			}
			updates["title"] = title
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
		if v, ok := payload["dueAt"]; ok {
			dueAt, err := fieldval.ParseDate(v, "dueAt", true)
			if err != nil {
				return err
			}
			updates["due_at"] = dueAt
		}
		if v, ok := payload["progressPercent"]; ok {
			progress, err := fieldval.ParsePercent(v, "progressPercent", true)
			if err != nil {
				return err
			}
			if progress != nil {
				updates["progress_percent"] = *progress
			} else {
				updates["progress_percent"] = float64(0)
			}
		}
		if v, ok := payload["keyResults"]; ok {
			updates["key_results"] = jsonSliceValue(v)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(objective).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "objective", "updated", actorID)
	return objective, nil
}

func (s *Service) DeleteProjectObjective(ctx context.Context, projectID, objectiveID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.Objective](s, ctx, projectID, "objective", objectiveID, actorID)
}
