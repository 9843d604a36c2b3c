package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

// normalizeCurrency uppercases an ISO currency code, rejecting anything that
// is not three letters.
func normalizeCurrency(v any) (string, error) {
	text := fieldval.NormalizeText(v)
	if text == nil {
		return "USD", nil
	}
	code := strings.ToUpper(*text)
	if len(code) != 3 {
		return "", apperr.Invalid("currency", "must be a 3-letter ISO code.")
	}
	return code, nil
}

func (s *Service) CreateProjectBudget(ctx context.Context, projectID string, payload map[string]any, actorID string) (*models.BudgetLine, error) {
	var line models.BudgetLine
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		category, err := fieldval.RequireText(payload["category"], "category")
		if err != nil {
			return err
		}
		planned, err := fieldval.ParseInteger(payload["plannedAmountCents"], "plannedAmountCents", false)
		if err != nil {
			return err
		}
		actual, err := fieldval.ParseInteger(payload["actualAmountCents"], "actualAmountCents", true)
		if err != nil {
			return err
		}
		currency, err := normalizeCurrency(payload["currency"])
		if err != nil {
			return err
		}

		line = models.BudgetLine{
			WorkspaceID:        ws.ID,
			Category:           category,
			Description:        textOrEmpty(payload["description"]),
			PlannedAmountCents: *planned,
			Currency:           currency,
			Status:             "planned",
			OwnerName:          textOrEmpty(payload["ownerName"]),
			ApprovalsRequired:  fieldval.ParseBool(payload["approvalsRequired"], false),
			Notes:              textOrEmpty(payload["notes"]),
		}
		if actual != nil {
			line.ActualAmountCents = *actual
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			line.Status = status
		}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "budget", "created", actorID)
	return &line, nil
}

func (s *Service) UpdateProjectBudget(ctx context.Context, projectID, budgetID string, payload map[string]any, actorID string) (*models.BudgetLine, error) {
	var line *models.BudgetLine
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		var err error
		line, err = findOwned[models.BudgetLine](s.lockForUpdate(tx), "budget", budgetID, ws.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if v, ok := payload["category"]; ok {
			category, err := fieldval.RequireText(v, "category")
			if err != nil {
				return err
			}
			updates["category"] = category
		}
		if v, ok := payload["description"]; ok {
			updates["description"] = textOrEmpty(v)
		}
		if v, ok := payload["plannedAmountCents"]; ok {
			planned, err := fieldval.ParseInteger(v, "plannedAmountCents", false)
			if err != nil {
				return err
			}
			updates["planned_amount_cents"] = *planned
		}
		if v, ok := payload["actualAmountCents"]; ok {
			actual, err := fieldval.ParseInteger(v, "actualAmountCents", false)
			if err != nil {
				return err
			}
			updates["actual_amount_cents"] = *actual
		}
		if v, ok := payload["currency"]; ok {
			currency, err := normalizeCurrency(v)
			if err != nil {
				return err
			}
			updates["currency"] = currency
		}
		if v, ok := payload["status"]; ok {
			status, err := fieldval.RequireText(v, "status")
			if err != nil {
				return err
			}
			updates["status"] = status
		}
		if v, ok := payload["ownerName"]; ok {
			updates["owner_name"] = textOrEmpty(v)
		}
		if v, ok := payload["approvalsRequired"]; ok {
			updates["approvals_required"] = fieldval.ParseBool(v, line.ApprovalsRequired)
		}
		if v, ok := payload["notes"]; ok {
			updates["notes"] = textOrEmpty(v)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(line).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "budget", "updated", actorID)
	return line, nil
}

func (s *Service) DeleteProjectBudget(ctx context.Context, projectID, budgetID, actorID string) (*SuccessResult, error) {
	return deleteOwned[models.BudgetLine](s, ctx, projectID, "budget", budgetID, actorID)
}
