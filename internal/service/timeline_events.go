package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectTimelineEvent(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.TimelineEvent, error) {
	var event models.TimelineEvent
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		title, err := fieldval.RequireText(payload["title"], "title")
		if err != nil {
			return err
		}
		eventDate, err := fieldval.ParseDate(payload["eventDate"], "eventDate", false)
		if err != nil {
			return err
		}
		metadata, err := jsonMapValue(payload["metadata"], "metadata")
		if err != nil {
			return err
		}
		event = models.TimelineEvent{
			WorkspaceID: ws.ID,
			Title:       title,
			Description: textOrEmpty(payload["description"]),
			EventDate:   *eventDate,
			EventType:   textOrEmpty(payload["eventType"]),
			OwnerName:   textOrEmpty(payload["ownerName"]),
			Milestone:   fieldval.ParseBool(payload["milestone"], false),
			Color:       textOrEmpty(payload["color"]),
			Metadata:    metadata,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "timeline_event", "created", actorID)
	return &event, nil
}

func (s *Service) UpdateProjectTimelineEvent(ctx context.Context, projectID, eventID string, payload map[string]any, actorID string) (*models.TimelineEvent, error) {
	var event *models.TimelineEvent
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		event, err = findOwned[models.TimelineEvent](s.lockForUpdate(tx), "timeline_event", eventID, ws.ID)
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
		if v, ok := payload["eventDate"]; ok {
			eventDate, err := fieldval.ParseDate(v, "eventDate", false)
			if err != nil {
				return err
			}
			updates["event_date"] = *eventDate
		}
		if v, ok := payload["eventType"]; ok {
			updates["event_type"] = textOrEmpty(v)
		}
		if v, ok := payload["ownerName"]; ok {
			updates["owner_name"] = textOrEmpty(v)
		}
		if v, ok := payload["milestone"]; ok {
			updates["milestone"] = fieldval.ParseBool(v, event.Milestone)
		}
		if v, ok := payload["color"]; ok {
			updates["color"] = textOrEmpty(v)
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
		return tx.Model(event).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "timeline_event", "updated", actorID)
	return event, nil
}

func (s *Service) DeleteProjectTimelineEvent(ctx context.Context, projectID, eventID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.TimelineEvent](s, ctx, projectID, "timeline_event", eventID, actorID)
}
