package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateWorkspaceFile(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.File, error) {
	var file models.File
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		fileName, err := fieldval.RequireText(payload["fileName"], "fileName")
		if err != nil {
			return err
		}
		size, err := fieldval.ParseInteger(payload["sizeBytes"], "sizeBytes", true)
		if err != nil {
			return err
		}
		watermark, err := jsonMapValue(payload["watermarkSettings"], "watermarkSettings")
		if err != nil {
			return err
		}
		file = models.File{
			WorkspaceID:       ws.ID,
			FileName:          fileName,
			FileType:          textOrEmpty(payload["fileType"]),
			StorageKey:        textOrEmpty(payload["storageKey"]),
			Status:            "available",
			UploadedBy:        textOrEmpty(payload["uploadedBy"]),
			WatermarkSettings: watermark,
		}
		if size != nil {
			file.SizeBytes = *size
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			file.Status = status
		}
		return tx.Create(&file).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "file", "created", actorID)
	return &file, nil
}

func (s *Service) UpdateWorkspaceFile(ctx context.Context, projectID, fileID string, payload map[string]any, actorID string) (*models.File, error) {
	var file *models.File
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		file, err = findOwned[models.File](s.lockForUpdate(tx), "file", fileID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["fileName"]; ok {
			fileName, err := fieldval.RequireText(v, "fileName")
			if err != nil {
				return err
			}
			updates["file_name"] = fileName
		}
		if v, ok := payload["fileType"]; ok {
			updates["file_type"] = textOrEmpty(v)
		}
		if v, ok := payload["sizeBytes"]; ok {
			size, err := fieldval.ParseInteger(v, "sizeBytes", true)
			if err != nil {
				return err
			}
			if size != nil {
				updates["size_bytes"] = *size
			} else {
				updates["size_bytes"] = int64(0)
			}
		}
		if v, ok := payload["storageKey"]; ok {
			updates["storage_key"] = textOrEmpty(v)
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			updates["status"] = status
		}
		if v, ok := payload["uploadedBy"]; ok {
			updates["uploaded_by"] = textOrEmpty(v)
		}
		if v, ok := payload["watermarkSettings"]; ok {
			watermark, err := jsonMapValue(v, "watermarkSettings")
			if err != nil {
				return err
			}
			updates["watermark_settings"] = watermark
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(file).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "file", "updated", actorID)
	return file, nil
}

func (s *Service) DeleteWorkspaceFile(ctx context.Context, projectID, fileID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.File](s, ctx, projectID, "file", fileID, actorID)
}
