package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

// deleteOwned removes one workspace-scoped entity under the row lock and
// reports success. Shared by every delete mutator.
func deleteOwned[T any](s *Service, ctx context.Context, projectID, resource, entityID, actorID string) (*SuccessResult, error) {
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		row, err := findOwned[T](s.lockForUpdate(tx), resource, entityID, ws.ID)
		if err != nil {
			return err
		}
		return tx.Delete(row).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, resource, "deleted", actorID)
	return &SuccessResult{Success: true}, nil
}

// AddProjectTask creates a task, optionally with its initial assignment set.
func (s *Service) AddProjectTask(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Task, error) {
	var task models.Task
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		title, err := fieldval.RequireText(payload["title"], "title")
		if err != nil {
			return err
		}
		startsAt, err := fieldval.ParseDate(payload["startsAt"], "startsAt", true)
		if err != nil {
			return err
		}
		endsAt, err := fieldval.ParseDate(payload["endsAt"], "endsAt", true)
		if err != nil {
			return err
		}
		progress, err := fieldval.ParsePercent(payload["progressPercent"], "progressPercent", true)
		if err != nil {
			return err
		}
		workload, err := fieldval.ParseNumber(payload["workloadHours"], "workloadHours", true)
		if err != nil {
			return err
		}
		metadata, err := jsonMapValue(payload["metadata"], "metadata")
		if err != nil {
			return err
		}

		task = models.Task{
			WorkspaceID:  ws.ID,
			Title:        title,
			Description:  textOrEmpty(payload["description"]),
			OwnerName:    textOrEmpty(payload["ownerName"]),
			OwnerType:    textOrEmpty(payload["ownerType"]),
			StartsAt:     startsAt,
			EndsAt:       endsAt,
			Status:       "planned",
			Lane:         textOrEmpty(payload["lane"]),
			Color:        textOrEmpty(payload["color"]),
			Priority:     textOrEmpty(payload["priority"]),
			Dependencies: jsonSliceValue(payload["dependencies"]),
			Metadata:     metadata,
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			task.Status = status
		}
		if progress != nil {
			task.ProgressPercent = *progress
		}
		if workload != nil {
			task.WorkloadHours = *workload
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		if v, ok := payload["assignments"]; ok {
			assignments, err := parseAssignments(v, ws.ID, task.ID)
			if err != nil {
				return err
			}
			if len(assignments) > 0 {
				if err := tx.Create(&assignments).Error; err != nil {
					return err
				}
			}
			task.Assignments = assignments
		}
		if task.Assignments == nil {
			task.Assignments = []models.TaskAssignment{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "task", "created", actorID)
	return &task, nil
}

// UpdateProjectTask applies a sparse update. When the payload carries an
// assignments key the existing assignment set is replaced wholesale, not
// merged: prior rows are deleted and the supplied rows inserted.
func (s *Service) UpdateProjectTask(ctx context.Context, projectID, taskID string, payload map[string]any, actorID string) (*models.Task, error) {
	var task *models.Task
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		task, err = findOwned[models.Task](s.lockForUpdate(tx), "task", taskID, ws.ID)
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
		if v, ok := payload["ownerName"]; ok {
			updates["owner_name"] = textOrEmpty(v)
		}
		if v, ok := payload["ownerType"]; ok {
			updates["owner_type"] = textOrEmpty(v)
		}
		if v, ok := payload["startsAt"]; ok {
			startsAt, err := fieldval.ParseDate(v, "startsAt", true)
			if err != nil {
				return err
			}
			updates["starts_at"] = startsAt
		}
		if v, ok := payload["endsAt"]; ok {
			endsAt, err := fieldval.ParseDate(v, "endsAt", true)
			if err != nil {
				return err
			}
			updates["ends_at"] = endsAt
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			updates["status"] = status
		}
		if v, ok := payload["lane"]; ok {
			updates["lane"] = textOrEmpty(v)
		}
		if v, ok := payload["progressPercent"]; ok {
			progress, err := fieldval.ParsePercent(v, "progressPercent", false)
			if err != nil {
				return err
			}
			updates["progress_percent"] = *progress
		}
		if v, ok := payload["workloadHours"]; ok {
			workload, err := fieldval.ParseNumber(v, "workloadHours", false)
			if err != nil {
				return err
			}
			updates["workload_hours"] = *workload
		}
		if v, ok := payload["color"]; ok {
			updates["color"] = textOrEmpty(v)
		}
		if v, ok := payload["priority"]; ok {
			updates["priority"] = textOrEmpty(v)
		}
		if v, ok := payload["dependencies"]; ok {
			updates["dependencies"] = jsonSliceValue(v)
		}
		if v, ok := payload["metadata"]; ok {
			metadata, err := jsonMapValue(v, "metadata")
			if err != nil {
				return err
			}
			updates["metadata"] = metadata
		}
		if len(updates) > 0 {
			if err := tx.Model(task).Updates(updates).Error; err != nil {
				return err
			}
		}

		if v, ok := payload["assignments"]; ok {
			assignments, err := parseAssignments(v, ws.ID, task.ID)
			if err != nil {
				return err
			}
			if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}
			if len(assignments) > 0 {
				if err := tx.Create(&assignments).Error; err != nil {
					return err
				}
			}
			task.Assignments = assignments
			return nil
		}
		return tx.Where("task_id = ?", task.ID).Order("created_at ASC").Find(&task.Assignments).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "task", "updated", actorID)
	return task, nil
}

// RemoveProjectTask deletes a task together with its assignments.
func (s *Service) RemoveProjectTask(ctx context.Context, projectID, taskID, actorID string) (*SuccessResult, error) {
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		task, err := findOwned[models.Task](s.lockForUpdate(tx), "task", taskID, ws.ID)
		if err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "task", "deleted", actorID)
	return &SuccessResult{Success: true}, nil
}

func parseAssignments(v any, workspaceID, taskID string) ([]models.TaskAssignment, error) {
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return []models.TaskAssignment{}, nil
		}
		if typed, isTyped := v.([]map[string]any); isTyped {
			items = make([]any, len(typed))
			for i, m := range typed {
				items[i] = m
			}
		} else {
			return nil, apperr.Invalid("assignments", "must be a list.")
		}
	}
	assignments := make([]models.TaskAssignment, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, apperr.Invalid("assignments", "must be a list of objects.")
		}
		assignee, err := fieldval.RequireText(entry["assigneeName"], "assigneeName")
		if err != nil {
			return nil, err
		}
		allocation, err := fieldval.ParsePercent(entry["allocationPercent"], "allocationPercent", true)
		if err != nil {
			return nil, err
		}
		hours, err := fieldval.ParseNumber(entry["hoursCommitted"], "hoursCommitted", true)
		if err != nil {
			return nil, err
		}
		assignment := models.TaskAssignment{
			TaskID:       taskID,
			WorkspaceID:  workspaceID,
			AssigneeName: assignee,
			RoleName:     textOrEmpty(entry["roleName"]),
			Status:       "active",
			Notes:        textOrEmpty(entry["notes"]),
		}
		if v, ok := entry["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return nil, err
			}
			assignment.Status = status
		}
		if allocation != nil {
			assignment.AllocationPercent = *allocation
		}
		if hours != nil {
			assignment.HoursCommitted = *hours
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}
