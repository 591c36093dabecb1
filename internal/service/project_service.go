package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/internal/repository"
)

// ProjectService owns project CRUD and the ownership rules around it.
type ProjectService struct {
	store  Store
	logger *logging.Logger
}

func NewProjectService(store Store, logger *logging.Logger) *ProjectService {
	return &ProjectService{store: store, logger: logger}
}

// List returns every project.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx)
}

// Create makes a project owned by the calling user, with a server-generated
// api key.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, req *models.CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" {
		return nil, invalidf("name is a required field.")
	}

	project := &models.Project{
		Name:    req.Name,
		APIKey:  uuid.NewString(),
		OwnerID: ownerID,
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateProject) {
			return nil, conflictf("a project with this name already exists.")
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created",
		logging.ProjectID(project.ID), logging.UserID(ownerID))
	return project, nil
}

// Delete removes a project the caller owns, unless it is their last one,
// and returns the projects that remain.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID int64) ([]models.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, notFoundf("project not found.")
		}
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, forbiddenf("You do not own this project.")
	}

	owned, err := s.store.ListProjectsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(owned) <= 1 {
		return nil, invalidf("You cannot delete your last project.")
	}

	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "project deleted",
		logging.ProjectID(projectID), logging.UserID(userID))

	return s.store.ListProjectsByOwner(ctx, userID)
}
