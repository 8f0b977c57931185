package project

import (
	"context"

	"github.com/patsapolpro/web-starter-kit-ai/internal/messaging"
)

type Service interface {
	GetCurrentProject(ctx context.Context) (*Project, error)
	CreateProject(ctx context.Context, name string) (*Project, error)
	// RenameCurrentProject fails with ErrNoProject when nothing exists yet
	// and ErrProjectNotFound when the row vanished before the write.
	RenameCurrentProject(ctx context.Context, name string) (*Project, error)
	// DeleteCurrentProject returns the id of the removed project.
	DeleteCurrentProject(ctx context.Context) (int, error)
}

type service struct {
	repo      Repository
	publisher messaging.Publisher
}

func NewService(repo Repository, publisher messaging.Publisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *service) GetCurrentProject(ctx context.Context) (*Project, error) {
	return s.repo.GetCurrent(ctx)
}

func (s *service) CreateProject(ctx context.Context, name string) (*Project, error) {
	project, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, messaging.ProjectCreated, project)
	return project, nil
}

func (s *service) RenameCurrentProject(ctx context.Context, name string) (*Project, error) {
	current, err := s.repo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	project, err := s.repo.Update(ctx, current.ID, name)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, messaging.ProjectUpdated, project)
	return project, nil
}

func (s *service) DeleteCurrentProject(ctx context.Context) (int, error) {
	current, err := s.repo.GetCurrent(ctx)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.Delete(ctx, current.ID)
	if err != nil {
		return 0, err
	}
	if !deleted {
		return 0, ErrProjectNotFound
	}
	s.publisher.Publish(ctx, messaging.ProjectDeleted, map[string]int{"id": current.ID})
	return current.ID, nil
}
