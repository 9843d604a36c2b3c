package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/models"
)

// Connect opens the postgres pool. TranslateError turns driver unique
// violations into gorm.ErrDuplicatedKey, which the workspace get-or-create
// path retries on.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func DSN(host string, port int, user, pass, dbname string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", host, port, user, pass, dbname)
}

// AllModels lists every table the workspace aggregate owns, migration order
// first-parent-first.
func AllModels() []any {
	return []any{
		&models.Project{},
		&models.Workspace{},
		&models.Timeline{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.BudgetLine{},
		&models.WorkspaceObject{},
		&models.TimelineEvent{},
		&models.Meeting{},
		&models.CalendarEntry{},
		&models.Role{},
		&models.Submission{},
		&models.Invite{},
		&models.HrRecord{},
		&models.TimeLog{},
		&models.Target{},
		&models.Objective{},
		&models.Brief{},
		&models.Whiteboard{},
		&models.File{},
		&models.Conversation{},
		&models.Message{},
		&models.Approval{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
