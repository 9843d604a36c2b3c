package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectSubmission(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Submission, error) {
	var submission models.Submission
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		title, err := fieldval.RequireText(payload["title"], "title")
		if err != nil {
			return err
		}
		submittedAt, err := fieldval.ParseDate(payload["submittedAt"], "submittedAt", true)
		if err != nil {
			return err
		}
		decisionAt, err := fieldval.ParseDate(payload["decisionAt"], "decisionAt", true)
		if err != nil {
			return err
		}
		submission = models.Submission{
			WorkspaceID:   ws.ID,
			Title:         title,
			Description:   textOrEmpty(payload["description"]),
			Status:        "submitted",
			SubmittedAt:   submittedAt,
			ReviewerName:  textOrEmpty(payload["reviewerName"]),
			DecisionAt:    decisionAt,
			DecisionNotes: textOrEmpty(payload["decisionNotes"]),
			Attachments:   jsonSliceValue(payload["attachments"]),
			OwnerName:     textOrEmpty(payload["ownerName"]),
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			submission.Status = status
		}
		return tx.Create(&submission).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "submission", "created", actorID)
	return &submission, nil
}

func (s *Service) UpdateProjectSubmission(ctx context.Context, projectID, submissionID string, payload map[string]any, actorID string) (*models.Submission, error) {
	var submission *models.Submission
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		submission, err = findOwned[models.Submission](s.lockForUpdate(tx), "submission", submissionID, ws.ID)
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
		if v, ok := payload["submittedAt"]; ok {
			submittedAt, err := fieldval.ParseDate(v, "submittedAt", true)
			if err != nil {
				return err
			}
			updates["submitted_at"] = submittedAt
		}
		if v, ok := payload["reviewerName"]; ok {
			updates["reviewer_name"] = textOrEmpty(v)
		}
		if v, ok := payload["decisionAt"]; ok {
			decisionAt, err := fieldval.ParseDate(v, "decisionAt", true)
			if err != nil {
				return err
			}
			updates["decision_at"] = decisionAt
		}
		if v, ok := payload["decisionNotes"]; ok {
			updates["decision_notes"] = textOrEmpty(v)
		}
		if v, ok := payload["attachments"]; ok {
			updates["attachments"] = jsonSliceValue(v)
		}
		if v, ok := payload["ownerName"]; ok {
			updates["owner_name"] = textOrEmpty(v)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(submission).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "submission", "updated", actorID)
	return submission, nil
}

func (s *Service) DeleteProjectSubmission(ctx context.Context, projectID, submissionID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.Submission](s, ctx, projectID, "submission", submissionID, actorID)
}
