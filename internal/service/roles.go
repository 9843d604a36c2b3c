package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectRole(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.Role, error) {
	var role models.Role
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		roleName, err := fieldval.RequireText(payload["roleName"], "roleName")
		if err != nil {
			return err
		}
		memberName, err := fieldval.RequireText(payload["memberName"], "memberName")
		if err != nil {
			return err
		}
		role = models.Role{
			WorkspaceID:      ws.ID,
			RoleName:         roleName,
			MemberName:       memberName,
			Responsibilities: textOrEmpty(payload["responsibilities"]),
			Permissions:      jsonSliceValue(payload["permissions"]),
			ContactEmail:     textOrEmpty(payload["contactEmail"]),
			ContactPhone:     textOrEmpty(payload["contactPhone"]),
			AvatarURL:        textOrEmpty(payload["avatarUrl"]),
		}
		return tx.Create(&role).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "role", "created", actorID)
	return &role, nil
}

func (s *Service) UpdateProjectRole(ctx context.Context, projectID, roleID string, payload map[string]any, actorID string) (*models.Role, error) {
	var role *models.Role
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		role, err = findOwned[models.Role](s.lockForUpdate(tx), "role", roleID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["roleName"]; ok {
			roleName, err := fieldval.RequireText(v, "roleName")
			if err != nil {
				return err
			}
			updates["role_name"] = roleName
		}
		if v, ok := payload["memberName"]; ok {
			memberName, err := fieldval.RequireText(v, "memberName")
			if err != nil {
				return err
			}
			updates["member_name"] = memberName
		}
		if v, ok := payload["responsibilities"]; ok {
			updates["responsibilities"] = textOrEmpty(v)
		}
		if v, ok := payload["permissions"]; ok {
			updates["permissions"] = jsonSliceValue(v)
		}
		if v, ok := payload["contactEmail"]; ok {
			updates["contact_email"] = textOrEmpty(v)
		}
		if v, ok := payload["contactPhone"]; ok {
			updates["contact_phone"] = textOrEmpty(v)
		}
		if v, ok := payload["avatarUrl"]; ok {
			updates["avatar_url"] = textOrEmpty(v)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(role).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "role", "updated", actorID)
	return role, nil
}

func (s *Service) DeleteProjectRole(ctx context.Context, projectID, roleID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.Role](s, ctx, projectID, "role", roleID, actorID)
}
