package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectInvite(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Invite, error) {
	var invite models.Invite
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		email, err := fieldval.RequireText(payload["email"], "email")
		if err != nil {
			return err
		}
		roleName, err := fieldval.RequireText(payload["roleName"], "roleName")
		if err != nil {
			return err
		}
		expiresAt, err := fieldval.ParseDate(payload["expiresAt"], "expiresAt", true)
		if err != nil {
			return err
		}
		invitedAt := time.Now().UTC()
		if v, ok := payload["invitedAt"]; ok {
			parsed, err := fieldval.ParseDate(v, "invitedAt", true)
			if err != nil {
				return err
			}
			if parsed != nil {
				invitedAt = *parsed
			}
		}
		meta, err := jsonMapValue(payload["metadata"], "metadata")
		if err != nil {
			return err
		}
		invite = models.Invite{
			WorkspaceID: ws.ID,
			Email:       email,
			RoleName:    roleName,
			Status:      "pending",
			InvitedBy:   textOrEmpty(payload["invitedBy"]),
			InvitedAt:   invitedAt,
			ExpiresAt:   expiresAt,
			Token:       uuid.New().String(),
			Metadata:    meta,
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			invite.Status = status
		}
		return tx.Create(&invite).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "invite", "created", actorID)
	return &invite, nil
}

func (s *Service) UpdateProjectInvite(ctx context.Context, projectID, inviteID string, payload map[string]any, actorID string) (*models.Invite, error) {
	var invite *models.Invite
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		invite, err = findOwned[models.Invite](s.lockForUpdate(tx), "invite", inviteID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["email"]; ok {
			email, err := fieldval.RequireText(v, "email")
			if err != nil {
				return err
			}
			updates["email"] = email
		}
		if v, ok := payload["roleName"]; ok {
			roleName, err := fieldval.RequireText(v, "roleName")
			if err != nil {
				return err
			}
			updates["role_name"] = roleName
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			updates["status"] = status
		}
		if v, ok := payload["invitedBy"]; ok {
			updates["invited_by"] = textOrEmpty(v)
		}
		if v, ok := payload["expiresAt"]; ok {
			expiresAt, err := fieldval.ParseDate(v, "expiresAt", true)
			if err != nil {
				return err
			}
			updates["expires_at"] = expiresAt
		}
		if v, ok := payload["acceptedAt"]; ok {
			acceptedAt, err := fieldval.ParseDate(v, "acceptedAt", true)
			if err != nil {
				return err
			}
			updates["accepted_at"] = acceptedAt
		}
		if v, ok := payload["metadata"]; ok {
			meta, err := jsonMapValue(v, "metadata")
			if err != nil {
				return err
			}
			updates["metadata"] = meta
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(invite).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "invite", "updated", actorID)
	return invite, nil
}

func (s *Service) DeleteProjectInvite(ctx context.Context, projectID, inviteID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.Invite](s, ctx, projectID, "invite", inviteID, actorID)
}
