package models

import (
	"time"

	"gorm.io/datatypes"
)

// Workspace is the per-project aggregate root. At most one exists per
// project; the unique index backs the get-or-create path in the service.
type Workspace struct {
	Base
	ProjectID          string            `gorm:"type:uuid;not null;uniqueIndex" json:"projectId"`
	Status             string            `gorm:"type:varchar(64);not null;default:'briefing'" json:"status"`
	ProgressPercent    float64           `gorm:"not null;default:0" json:"progressPercent"`
	HealthScore        float64           `gorm:"not null;default:0" json:"healthScore"`
	VelocityScore      float64           `gorm:"not null;default:0" json:"velocityScore"`
	RiskLevel          string            `gorm:"type:varchar(32)" json:"riskLevel"`
	ClientSatisfaction float64           `gorm:"not null;default:0" json:"clientSatisfaction"`
	AutomationCoverage float64           `gorm:"not null;default:0" json:"automationCoverage"`
	BillingStatus      string            `gorm:"type:varchar(64)" json:"billingStatus"`
	NextMilestone      string            `gorm:"type:varchar(255)" json:"nextMilestone"`
	NextMilestoneDueAt *time.Time        `json:"nextMilestoneDueAt"`
	MetricsSnapshot    datatypes.JSONMap `gorm:"type:jsonb" json:"metricsSnapshot"`
	LastActivityAt     *time.Time        `json:"lastActivityAt"`
	UpdatedByID        *string           `gorm:"type:varchar(255)" json:"updatedById"`
}

func (Workspace) TableName() string { return "workspaces" }

// Brief is the narrative project brief. Exactly one per workspace.
type Brief struct {
	Base
	WorkspaceID        string                      `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	Title              string                      `gorm:"type:varchar(255)" json:"title"`
	Summary            string                      `gorm:"type:text" json:"summary"`
	Objectives         datatypes.JSONSlice[string] `json:"objectives"`
	Deliverables       datatypes.JSONSlice[string] `json:"deliverables"`
	SuccessMetrics     datatypes.JSONSlice[string] `json:"successMetrics"`
	ClientStakeholders datatypes.JSONSlice[string] `json:"clientStakeholders"`
	LastUpdatedByID    *string                     `gorm:"type:varchar(255)" json:"lastUpdatedById"`
}

func (Brief) TableName() string { return "workspace_briefs" }

type Whiteboard struct {
	Base
	WorkspaceID string            `gorm:"type:uuid;not null;index" json:"-"`
	Name        string            `gorm:"type:varchar(255);not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	Status      string            `gorm:"type:varchar(64);not null;default:'active'" json:"status"`
	OwnerName   string            `gorm:"type:varchar(255)" json:"ownerName"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
}

func (Whiteboard) TableName() string { return "workspace_whiteboards" }

// File is the metadata record for a shared asset; blob storage is external
// and referenced through StorageKey.
type File struct {
	Base
	WorkspaceID       string            `gorm:"type:uuid;not null;index" json:"-"`
	FileName          string            `gorm:"type:varchar(255);not null" json:"fileName"`
	FileType          string            `gorm:"type:varchar(64)" json:"fileType"`
	SizeBytes         int64             `gorm:"not null;default:0" json:"sizeBytes"`
	StorageKey        string            `gorm:"type:varchar(512)" json:"storageKey"`
	Status            string            `gorm:"type:varchar(64);not null;default:'available'" json:"status"`
	UploadedBy        string            `gorm:"type:varchar(255)" json:"uploadedBy"`
	WatermarkSettings datatypes.JSONMap `gorm:"type:jsonb" json:"watermarkSettings"`
}

func (File) TableName() string { return "workspace_files" }

// Conversation owns ordered Messages and tracks denormalized read state.
type Conversation struct {
	Base
	WorkspaceID        string                      `gorm:"type:uuid;not null;index" json:"-"`
	Topic              string                      `gorm:"type:varchar(255);not null" json:"topic"`
	ConversationType   string                      `gorm:"type:varchar(64);not null;default:'general'" json:"conversationType"`
	Participants       datatypes.JSONSlice[string] `json:"participants"`
	UnreadCount        int                         `gorm:"not null;default:0" json:"unreadCount"`
	LastMessagePreview string                      `gorm:"type:varchar(300)" json:"lastMessagePreview"`
	LastMessageAt      *time.Time                  `json:"lastMessageAt"`
}

func (Conversation) TableName() string { return "workspace_conversations" }

type Message struct {
	Base
	ConversationID string    `gorm:"type:uuid;not null;index" json:"conversationId"`
	WorkspaceID    string    `gorm:"type:uuid;not null;index" json:"-"`
	AuthorName     string    `gorm:"type:varchar(255)" json:"authorName"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	PostedAt       time.Time `gorm:"not null" json:"postedAt"`
}

func (Message) TableName() string { return "workspace_messages" }

type Approval struct {
	Base
	WorkspaceID   string     `gorm:"type:uuid;not null;index" json:"-"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        string     `gorm:"type:varchar(64);not null;default:'pending'" json:"status"`
	RequestedBy   string     `gorm:"type:varchar(255)" json:"requestedBy"`
	ApproverName  string     `gorm:"type:varchar(255)" json:"approverName"`
	DueAt         *time.Time `json:"dueAt"`
	DecidedAt     *time.Time `json:"decidedAt"`
	DecisionNotes string     `gorm:"type:text" json:"decisionNotes"`
}

func (Approval) TableName() string { return "workspace_approvals" }
