package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

func (s *Service) CreateProjectHrRecord(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.HrRecord, error) {
	var record models.HrRecord
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		roleName, err := fieldval.RequireText(payload["roleName"], "roleName")
		if err != nil {
			return err
		}
		hourlyRate, err := fieldval.ParseInteger(payload["hourlyRateCents"], "hourlyRateCents", true)
		if err != nil {
			return err
		}
		capacity, err := fieldval.ParseNumber(payload["capacityHours"], "capacityHours", true)
		if err != nil {
			return err
		}
		utilization, err := fieldval.ParsePercent(payload["utilizationPercent"], "utilizationPercent", true)
		if err != nil {
			return err
		}
		meta, err := jsonMapValue(payload["metadata"], "metadata")
		if err != nil {
			return err
		}
		record = models.HrRecord{
			WorkspaceID:    ws.ID,
			MemberName:     textOrEmpty(payload["memberName"]),
			RoleName:       roleName,
			EmploymentType: textOrEmpty(payload["employmentType"]),
			Status:         "active",
			ManagerName:    textOrEmpty(payload["managerName"]),
			Notes:          textOrEmpty(payload["notes"]),
			Metadata:       meta,
		}
		if hourlyRate != nil {
			record.HourlyRateCents = *hourlyRate
		}
		if capacity != nil {
			record.CapacityHours = *capacity
		}
		if utilization != nil {
			record.UtilizationPercent = *utilization
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			record.Status = status
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "hr_record", "created", actorID)
	return &record, nil
}

func (s *Service) UpdateProjectHrRecord(ctx context.Context, projectID, recordID string, payload map[string]any, actorID string) (*models.HrRecord, error) {
	var record *models.HrRecord
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		record, err = findOwned[models.HrRecord](s.lockForUpdate(tx), "hrRecord", recordID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["memberName"]; ok {
			updates["member_name"] = textOrEmpty(v)
		}
		if v, ok := payload["roleName"]; ok {
			roleName, err := fieldval.RequireText(v, "roleName")
			if err != nil {
				return err
			}
			updates["role_name"] = roleName
		}
		if v, ok := payload["employmentType"]; ok {
			updates["employment_type"] = textOrEmpty(v)
		}
		if v, ok := payload["hourlyRateCents"]; ok {
			hourlyRate, err := fieldval.ParseInteger(v, "hourlyRateCents", true)
			if err != nil {
				return err
			}
			if hourlyRate != nil {
				updates["hourly_rate_cents"] = *hourlyRate
			} else {
				updates["hourly_rate_cents"] = int64(0)
			}
		}
		if v, ok := payload["capacityHours"]; ok {
			capacity, err := fieldval.ParseNumber(v, "capacityHours", true)
			if err != nil {
				return err
			}
			if capacity != nil {
				updates["capacity_hours"] = *capacity
			} else {
				updates["capacity_hours"] = float64(0)
			}
		}
		if v, ok := payload["utilizationPercent"]; ok {
			utilization, err := fieldval.ParsePercent(v, "utilizationPercent", true)
			if err != nil {
				return err
			}
			if utilization != nil {
				updates["utilization_percent"] = *utilization
			} else {
				updates["utilization_percent"] = float64(0)
			}
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			updates["status"] = status
		}
		if v, ok := payload["managerName"]; ok {
			updates["manager_name"] = textOrEmpty(v)
		}
		if v, ok := payload["notes"]; ok {
			updates["notes"] = textOrEmpty(v)
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
		return tx.Model(record).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "hr_record", "updated", actorID)
	return record, nil
}

func (s *Service) DeleteProjectHrRecord(ctx context.Context, projectID, recordID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.HrRecord](s, ctx, projectID, "hrRecord", recordID, actorID)
}
