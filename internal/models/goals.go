package models

import (
	"time"

	"gorm.io/datatypes"
)

// WorkspaceObject is an artifact/deliverable record tracked alongside tasks.
type WorkspaceObject struct {
	Base
	WorkspaceID string                      `gorm:"type:uuid;not null;index" json:"-"`
	Name        string                      `gorm:"type:varchar(255);not null" json:"name"`
	ObjectType  string                      `gorm:"type:varchar(64)" json:"objectType"`
	Status      string                      `gorm:"type:varchar(64);not null;default:'draft'" json:"status"`
	OwnerName   string                      `gorm:"type:varchar(255)" json:"ownerName"`
	Description string                      `gorm:"type:text" json:"description"`
	DueAt       *time.Time                  `json:"dueAt"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Metadata    datatypes.JSONMap           `gorm:"type:jsonb" json:"metadata"`
}

func (WorkspaceObject) TableName() string { return "workspace_objects" }

type Submission struct {
	Base
	WorkspaceID   string                      `gorm:"type:uuid;not null;index" json:"-"`
	Title         string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Status        string                      `gorm:"type:varchar(64);not null;default:'submitted'" json:"status"`
	SubmittedAt   *time.Time                  `gorm:"index" json:"submittedAt"`
	ReviewerName  string                      `gorm:"type:varchar(255)" json:"reviewerName"`
	DecisionAt    *time.Time                  `json:"decisionAt"`
	DecisionNotes string                      `gorm:"type:text" json:"decisionNotes"`
	Attachments   datatypes.JSONSlice[string] `json:"attachments"`
	OwnerName     string                      `gorm:"type:varchar(255)" json:"ownerName"`
}

func (Submission) TableName() string { return "workspace_submissions" }

type Target struct {
	Base
	WorkspaceID  string     `gorm:"type:uuid;not null;index" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	TargetValue  float64    `gorm:"not null;default:0" json:"targetValue"`
	CurrentValue float64    `gorm:"not null;default:0" json:"currentValue"`
	Unit         string     `gorm:"type:varchar(64)" json:"unit"`
	DueAt        *time.Time `json:"dueAt"`
	Status       string     `gorm:"type:varchar(64);not null;default:'active'" json:"status"`
	OwnerName    string     `gorm:"type:varchar(255)" json:"ownerName"`
	Trend        string     `gorm:"type:varchar(32)" json:"trend"`
}

func (Target) TableName() string { return "workspace_targets" }

type Objective struct {
	Base
	WorkspaceID     string                      `gorm:"type:uuid;not null;index" json:"-"`
	Title           string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description     string                      `gorm:"type:text" json:"description"`
	Status          string                      `gorm:"type:varchar(64);not null;default:'active'" json:"status"`
	OwnerName       string                      `gorm:"type:varchar(255)" json:"ownerName"`
	DueAt           *time.Time                  `json:"dueAt"`
	ProgressPercent float64                     `gorm:"not null;default:0" json:"progressPercent"`
	KeyResults      datatypes.JSONSlice[string] `json:"keyResults"`
}

func (Objective) TableName() string { return "workspace_objectives" }
