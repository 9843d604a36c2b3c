package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

// timeLogTaskRef resolves an optional taskId payload value: null clears the
// reference, a non-empty id must belong to the same workspace.
func timeLogTaskRef(tx *gorm.DB, v any, workspaceID string) (*string, error) {
	ref := fieldval.NormalizeText(v)
	if ref == nil {
		return nil, nil
	}
	task, err := findOwned[models.Task](tx, "task", *ref, workspaceID)
	if err != nil {
		return nil, err
	}
	return &task.ID, nil
}

func (s *Service) CreateProjectTimeLog(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.TimeLog, error) {
	var log models.TimeLog
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		memberName, err := fieldval.RequireText(payload["memberName"], "memberName")
		if err != nil {
			return err
		}
		startedAt, err := fieldval.ParseDate(payload["startedAt"], "startedAt", false)
		if err != nil {
			return err
		}
		endedAt, err := fieldval.ParseDate(payload["endedAt"], "endedAt", true)
		if err != nil {
			return err
		}
		duration, err := fieldval.ParseInteger(payload["durationMinutes"], "durationMinutes", true)
		if err != nil {
			return err
		}
		if duration == nil {
			duration = fieldval.DurationMinutes(startedAt, endedAt)
		}
		rate, err := fieldval.ParseInteger(payload["rateCents"], "rateCents", true)
		if err != nil {
			return err
		}
		log = models.TimeLog{
			WorkspaceID:     ws.ID,
			MemberName:      memberName,
			StartedAt:       *startedAt,
			EndedAt:         endedAt,
			DurationMinutes: duration,
			Billable:        fieldval.ParseBool(payload["billable"], true),
			Notes:           textOrEmpty(payload["notes"]),
		}
		if rate != nil {
			log.RateCents = *rate
		}
		if v, ok := payload["taskId"]; ok {
			taskID, err := timeLogTaskRef(tx, v, ws.ID)
			if err != nil {
				return err
			}
			log.TaskID = taskID
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "time_log", "created", actorID)
	return &log, nil
}

func (s *Service) UpdateProjectTimeLog(ctx context.Context, projectID, timeLogID string, payload map[string]any, actorID string) (*models.TimeLog, error) {
	var log *models.TimeLog
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		log, err = findOwned[models.TimeLog](s.lockForUpdate(tx), "timeLog", timeLogID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		startedAt := log.StartedAt
		endedAt := log.EndedAt
		if v, ok := payload["memberName"]; ok {
			memberName, err := fieldval.RequireText(v, "memberName")
			if err != nil {
				return err
			}
			updates["member_name"] = memberName
		}
		if v, ok := payload["startedAt"]; ok {
			parsed, err := fieldval.ParseDate(v, "startedAt", false)
			if err != nil {
				return err
			}
			if parsed == nil {
				return apperr.Required("startedAt")
			}
			startedAt = *parsed
			updates["started_at"] = startedAt
		}
		if v, ok := payload["endedAt"]; ok {
			parsed, err := fieldval.ParseDate(v, "endedAt", true)
			if err != nil {
				return err
			}
			endedAt = parsed
			updates["ended_at"] = endedAt
		}
		if v, ok := payload["durationMinutes"]; ok {
			duration, err := fieldval.ParseInteger(v, "durationMinutes", true)
			if err != nil {
				return err
			}
			if duration == nil {
				duration = fieldval.DurationMinutes(&startedAt, endedAt)
			}
			updates["duration_minutes"] = duration
		} else if _, touched := payload["startedAt"]; touched {
			updates["duration_minutes"] = fieldval.DurationMinutes(&startedAt, endedAt)
		} else if _, touched := payload["endedAt"]; touched {
			updates["duration_minutes"] = fieldval.DurationMinutes(&startedAt, endedAt)
		}
		if v, ok := payload["taskId"]; ok {
			taskID, err := timeLogTaskRef(tx, v, ws.ID)
			if err != nil {
				return err
			}
			updates["task_id"] = taskID
		}
		if v, ok := payload["billable"]; ok {
			updates["billable"] = fieldval.ParseBool(v, log.Billable)
		}
		if v, ok := payload["rateCents"]; ok {
			rate, err := fieldval.ParseInteger(v, "rateCents", true)
			if err != nil {
				return err
			}
			if rate != nil {
				updates["rate_cents"] = *rate
			} else {
				updates["rate_cents"] = int64(0)
			}
		}
		if v, ok := payload["notes"]; ok {
			updates["notes"] = textOrEmpty(v)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(log).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "time_log", "updated", actorID)
	return log, nil
}

func (s *Service) DeleteProjectTimeLog(ctx context.Context, projectID, timeLogID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.TimeLog](s, ctx, projectID, "timeLog", timeLogID, actorID)
}
