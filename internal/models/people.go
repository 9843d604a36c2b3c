package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role struct {
	Base
	WorkspaceID      string                      `gorm:"type:uuid;not null;index" json:"-"`
	RoleName         string                      `gorm:"type:varchar(128);not null" json:"roleName"`
	MemberName       string                      `gorm:"type:varchar(255);not null" json:"memberName"`
	Responsibilities string                      `gorm:"type:text" json:"responsibilities"`
	Permissions      datatypes.JSONSlice[string] `json:"permissions"`
	ContactEmail     string                      `gorm:"type:varchar(255)" json:"contactEmail"`
	ContactPhone     string                      `gorm:"type:varchar(64)" json:"contactPhone"`
	AvatarURL        string                      `gorm:"type:varchar(512)" json:"avatarUrl"`
}

func (Role) TableName() string { return "workspace_roles" }

type Invite struct {
	Base
	WorkspaceID string            `gorm:"type:uuid;not null;index" json:"-"`
	Email       string            `gorm:"type:varchar(255);not null" json:"email"`
	RoleName    string            `gorm:"type:varchar(128);not null" json:"roleName"`
	Status      string            `gorm:"type:varchar(64);not null;default:'pending'" json:"status"`
	InvitedBy   string            `gorm:"type:varchar(255)" json:"invitedBy"`
	InvitedAt   time.Time         `gorm:"not null" json:"invitedAt"`
	ExpiresAt   *time.Time        `json:"expiresAt"`
	AcceptedAt  *time.Time        `json:"acceptedAt"`
	Token       string            `gorm:"type:varchar(128)" json:"token"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
}

func (Invite) TableName() string { return "workspace_invites" }

type HrRecord struct {
	Base
	WorkspaceID        string            `gorm:"type:uuid;not null;index" json:"-"`
	MemberName         string            `gorm:"type:varchar(255)" json:"memberName"`
	RoleName           string            `gorm:"type:varchar(128);not null" json:"roleName"`
	EmploymentType     string            `gorm:"type:varchar(64)" json:"employmentType"`
	HourlyRateCents    int64             `gorm:"not null;default:0" json:"hourlyRateCents"`
	CapacityHours      float64           `gorm:"not null;default:0" json:"capacityHours"`
	UtilizationPercent float64           `gorm:"not null;default:0" json:"utilizationPercent"`
	Status             string            `gorm:"type:varchar(64);not null;default:'active'" json:"status"`
	ManagerName        string            `gorm:"type:varchar(255)" json:"managerName"`
	Notes              string            `gorm:"type:text" json:"notes"`
	Metadata           datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
}

func (HrRecord) TableName() string { return "workspace_hr_records" }
