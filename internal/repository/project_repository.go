package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/models"
)

// ProjectRepository is the lookup-by-id provider for the external Project
// aggregate. The workspace core never mutates projects.
type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	err := r.DB.WithContext(ctx).First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("project", projectID)
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	return r.DB.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetProjectsByUserID(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}
