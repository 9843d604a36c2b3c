package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

var calendarVisibilities = map[string]struct{}{
	"private": {},
	"team":    {},
	"client":  {},
}

func normalizeVisibility(v any) (string, error) {
	text := fieldval.NormalizeText(v)
	if text == nil {
		return "team", nil
	}
	if _, ok := calendarVisibilities[*text]; !ok {
		return "", apperr.Invalid("visibility", "must be one of private, team, client.")
	}
	return *text, nil
}

func (s *Service) CreateProjectCalendarEntry(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.CalendarEntry, error) {
	var entry models.CalendarEntry
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		title, err := fieldval.RequireText(payload["title"], "title")
		if err != nil {
			return err
		}
		startAt, err := fieldval.ParseDate(payload["startAt"], "startAt", false)
		if err != nil {
			return err
		}
		endAt, err := fieldval.ParseDate(payload["endAt"], "endAt", true)
		if err != nil {
			return err
		}
		visibility, err := normalizeVisibility(payload["visibility"])
		if err != nil {
			return err
		}
		metadata, err := jsonMapValue(payload["metadata"], "metadata")
		if err != nil {
			return err
		}
		entry = models.CalendarEntry{
			WorkspaceID: ws.ID,
			Title:       title,
			StartAt:     *startAt,
			EndAt:       endAt,
			EventType:   textOrEmpty(payload["eventType"]),
			OwnerName:   textOrEmpty(payload["ownerName"]),
			Visibility:  visibility,
			Metadata:    metadata,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "calendar_entry", "created", actorID)
	return &entry, nil
}

func (s *Service) UpdateProjectCalendarEntry(ctx context.Context, projectID, entryID string, payload map[string]any, actorID string) (*models.CalendarEntry, error) {
	var entry *models.CalendarEntry
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		entry, err = findOwned[models.CalendarEntry](s.lockForUpdate(tx), "calendar_entry", entryID, ws.ID)
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
		if v, ok := payload["startAt"]; ok {
			startAt, err := fieldval.ParseDate(v, "startAt", false)
			if err != nil {
				return err
			}
			updates["start_at"] = *startAt
		}
		if v, ok := payload["endAt"]; ok {
			endAt, err := fieldval.ParseDate(v, "endAt", true)
			if err != nil {
				return err
			}
			updates["end_at"] = endAt
		}
		if v, ok := payload["eventType"]; ok {
			updates["event_type"] = textOrEmpty(v)
		}
		if v, ok := payload["ownerName"]; ok {
			updates["owner_name"] = textOrEmpty(v)
		}
		if v, ok := payload["visibility"]; ok {
			visibility, err := normalizeVisibility(v)
			if err != nil {
				return err
			}
			updates["visibility"] = visibility
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
		return tx.Model(entry).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "calendar_entry", "updated", actorID)
	return entry, nil
}

func (s *Service) DeleteProjectCalendarEntry(ctx context.Context, projectID, entryID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.CalendarEntry](s, ctx, projectID, "calendar_entry", entryID, actorID)
}
