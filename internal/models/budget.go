package models

type BudgetLine struct {
	Base
	WorkspaceID        string `gorm:"type:uuid;not null;index" json:"-"`
	Category           string `gorm:"type:varchar(128);not null" json:"category"`
	Description        string `gorm:"type:text" json:"description"`
	PlannedAmountCents int64  `gorm:"not null" json:"plannedAmountCents"`
	ActualAmountCents  int64  `gorm:"not null;default:0" json:"actualAmountCents"`
	Currency           string `gorm:"type:varchar(8);not null;default:'USD'" json:"currency"`
	Status             string `gorm:"type:varchar(64);not null;default:'planned'" json:"status"`
	OwnerName          string `gorm:"type:varchar(255)" json:"ownerName"`
	ApprovalsRequired  bool   `gorm:"not null;default:false" json:"approvalsRequired"`
	Notes              string `gorm:"type:text" json:"notes"`
}

func (BudgetLine) TableName() string { return "workspace_budget_lines" }
