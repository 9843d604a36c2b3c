package models

import (
	"time"

	"gorm.io/datatypes"
)

type Task struct {
	Base
	WorkspaceID     string                      `gorm:"type:uuid;not null;index" json:"-"`
	Title           string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description     string                      `gorm:"type:text" json:"description"`
	OwnerName       string                      `gorm:"type:varchar(255)" json:"ownerName"`
	OwnerType       string                      `gorm:"type:varchar(64)" json:"ownerType"`
	StartsAt        *time.Time                  `json:"startsAt"`
	EndsAt          *time.Time                  `json:"endsAt"`
	Status          string                      `gorm:"type:varchar(64);not null;default:'planned'" json:"status"`
	Lane            string                      `gorm:"type:varchar(64)" json:"lane"`
	ProgressPercent float64                     `gorm:"not null;default:0" json:"progressPercent"`
	WorkloadHours   float64                     `gorm:"not null;default:0" json:"workloadHours"`
	Color           string                      `gorm:"type:varchar(32)" json:"color"`
	Priority        string                      `gorm:"type:varchar(32)" json:"priority"`
	Dependencies    datatypes.JSONSlice[string] `json:"dependencies"`
	Metadata        datatypes.JSONMap           `gorm:"type:jsonb" json:"metadata"`

	// Replaced wholesale whenever an update payload carries assignments.
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments"`
}

func (Task) TableName() string { return "workspace_tasks" }

type TaskAssignment struct {
	Base
	TaskID            string  `gorm:"type:uuid;not null;index" json:"taskId"`
	WorkspaceID       string  `gorm:"type:uuid;not null;index" json:"-"`
	AssigneeName      string  `gorm:"type:varchar(255);not null" json:"assigneeName"`
	RoleName          string  `gorm:"type:varchar(128)" json:"roleName"`
	AllocationPercent float64 `gorm:"not null;default:0" json:"allocationPercent"`
	HoursCommitted    float64 `gorm:"not null;default:0" json:"hoursCommitted"`
	Status            string  `gorm:"type:varchar(64);not null;default:'active'" json:"status"`
	Notes             string  `gorm:"type:text" json:"notes"`
}

func (TaskAssignment) TableName() string { return "workspace_task_assignments" }

type TimeLog struct {
	Base
	WorkspaceID     string     `gorm:"type:uuid;not null;index" json:"-"`
	TaskID          *string    `gorm:"type:uuid;index" json:"taskId"`
	MemberName      string     `gorm:"type:varchar(255);not null" json:"memberName"`
	StartedAt       time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	DurationMinutes *int64     `json:"durationMinutes"`
	Billable        bool       `gorm:"not null;default:true" json:"billable"`
	RateCents       int64      `gorm:"not null;default:0" json:"rateCents"`
	Notes           string     `gorm:"type:text" json:"notes"`
}

func (TimeLog) TableName() string { return "workspace_time_logs" }
