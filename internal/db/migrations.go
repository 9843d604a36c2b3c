package db

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "20260827_create_workspace_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(AllModels()...)
			},
			Rollback: func(tx *gorm.DB) error {
				tables := []string{
					"workspace_approvals", "workspace_messages", "workspace_conversations",
					"workspace_files", "workspace_whiteboards", "workspace_briefs",
					"workspace_objectives", "workspace_targets", "workspace_time_logs",
					"workspace_hr_records", "workspace_invites", "workspace_submissions",
					"workspace_roles", "workspace_calendar_entries", "workspace_meetings",
					"workspace_timeline_events", "workspace_objects", "workspace_budget_lines",
					"workspace_task_assignments", "workspace_tasks", "workspace_timelines",
					"workspaces", "projects",
				}
				for _, t := range tables {
					if err := tx.Migrator().DropTable(t); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
