package models

import (
	"time"

	"gorm.io/datatypes"
)

// Timeline is the delivery timeline. There is one logical timeline per
// workspace; callers look up before creating.
type Timeline struct {
	Base
	WorkspaceID   string     `gorm:"type:uuid;not null;index" json:"-"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Timezone      string     `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	StartsAt      *time.Time `json:"startsAt"`
	EndsAt        *time.Time `json:"endsAt"`
	BaselineStart *time.Time `json:"baselineStart"`
	BaselineEnd   *time.Time `json:"baselineEnd"`
	OwnerName     string     `gorm:"type:varchar(255)" json:"ownerName"`
}

func (Timeline) TableName() string { return "workspace_timelines" }

type TimelineEvent struct {
	Base
	WorkspaceID string            `gorm:"type:uuid;not null;index" json:"-"`
	Title       string            `gorm:"type:varchar(255);not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	EventDate   time.Time         `gorm:"not null;index" json:"eventDate"`
	EventType   string            `gorm:"type:varchar(64)" json:"eventType"`
	OwnerName   string            `gorm:"type:varchar(255)" json:"ownerName"`
	Milestone   bool              `gorm:"not null;default:false" json:"milestone"`
	Color       string            `gorm:"type:varchar(32)" json:"color"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
}

func (TimelineEvent) TableName() string { return "workspace_timeline_events" }

type Meeting struct {
	Base
	WorkspaceID string                      `gorm:"type:uuid;not null;index" json:"-"`
	Title       string                      `gorm:"type:varchar(255);not null" json:"title"`
	Agenda      string                      `gorm:"type:text" json:"agenda"`
	MeetingType string                      `gorm:"type:varchar(64)" json:"meetingType"`
	Location    string                      `gorm:"type:varchar(255)" json:"location"`
	StartAt     time.Time                   `gorm:"not null;index" json:"startAt"`
	EndAt       *time.Time                  `json:"endAt"`
	HostName    string                      `gorm:"type:varchar(255)" json:"hostName"`
	Attendees   datatypes.JSONSlice[string] `json:"attendees"`
	ActionItems datatypes.JSONSlice[string] `json:"actionItems"`
	Resources   datatypes.JSONSlice[string] `json:"resources"`
}

func (Meeting) TableName() string { return "workspace_meetings" }

type CalendarEntry struct {
	Base
	WorkspaceID string            `gorm:"type:uuid;not null;index" json:"-"`
	Title       string            `gorm:"type:varchar(255);not null" json:"title"`
	StartAt     time.Time         `gorm:"not null;index" json:"startAt"`
	EndAt       *time.Time        `json:"endAt"`
	EventType   string            `gorm:"type:varchar(64)" json:"eventType"`
	OwnerName   string            `gorm:"type:varchar(255)" json:"ownerName"`
	Visibility  string            `gorm:"type:varchar(32);not null;default:'team'" json:"visibility"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
}

func (CalendarEntry) TableName() string { return "workspace_calendar_entries" }
