package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectMeeting(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Meeting, error) {
	var meeting models.Meeting
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
		meeting = models.Meeting{
			WorkspaceID: ws.ID,
			Title:       title,
			Agenda:      textOrEmpty(payload["agenda"]),
			MeetingType: textOrEmpty(payload["meetingType"]),
			Location:    textOrEmpty(payload["location"]),
			StartAt:     *startAt,
			EndAt:       endAt,
			HostName:    textOrEmpty(payload["hostName"]),
			Attendees:   jsonSliceValue(payload["attendees"]),
			ActionItems: jsonSliceValue(payload["actionItems"]),
			Resources:   jsonSliceValue(payload["resources"]),
		}
		return tx.Create(&meeting).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "meeting", "created", actorID)
	return &meeting, nil
}

func (s *Service) UpdateProjectMeeting(ctx context.Context, projectID, meetingID string, payload map[string]any, actorID string) (*models.Meeting, error) {
	var meeting *models.Meeting
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		meeting, err = findOwned[models.Meeting](s.lockForUpdate(tx), "meeting", meetingID, ws.ID)
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
		if v, ok := payload["agenda"]; ok {
			updates["agenda"] = textOrEmpty(v)
		}
		if v, ok := payload["meetingType"]; ok {
			updates["meeting_type"] = textOrEmpty(v)
		}
		if v, ok := payload["location"]; ok {
			updates["location"] = textOrEmpty(v)
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
		if v, ok := payload["hostName"]; ok {
			updates["host_name"] = textOrEmpty(v)
		}
		if v, ok := payload["attendees"]; ok {
			updates["attendees"] = jsonSliceValue(v)
		}
		if v, ok := payload["actionItems"]; ok {
			updates["action_items"] = jsonSliceValue(v)
		}
		if v, ok := payload["resources"]; ok {
			updates["resources"] = jsonSliceValue(v)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(meeting).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "meeting", "updated", actorID)
	return meeting, nil
}

func (s *Service) DeleteProjectMeeting(ctx context.Context, projectID, meetingID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.Meeting](s, ctx, projectID, "meeting", meetingID, actorID)
}
