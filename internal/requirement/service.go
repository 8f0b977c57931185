package requirement

import (
	"context"

	"github.com/patsapolpro/web-starter-kit-ai/internal/messaging"
	"github.com/patsapolpro/web-starter-kit-ai/internal/project"
)

// ProjectFinder resolves the project requirements are attached to.
type ProjectFinder interface {
	GetCurrent(ctx context.Context) (*project.Project, error)
}

type Service interface {
	ListRequirements(ctx context.Context) ([]Requirement, error)
	CreateRequirement(ctx context.Context, description string, effort float64) (*Requirement, error)
	GetRequirement(ctx context.Context, id int) (*Requirement, error)
	UpdateRequirement(ctx context.Context, id int, patch Patch) (*Requirement, error)
	ToggleRequirement(ctx context.Context, id int) (*Requirement, error)
	DeleteRequirement(ctx context.Context, id int) error
	GetSummary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo      Repository
	projects  ProjectFinder
	publisher messaging.Publisher
}

func NewService(repo Repository, projects ProjectFinder, publisher messaging.Publisher) Service {
	return &service{
		repo:      repo,
		projects:  projects,
		publisher: publisher,
	}
}

func (s *service) ListRequirements(ctx context.Context) ([]Requirement, error) {
	current, err := s.projects.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, current.ID)
}

func (s *service) CreateRequirement(ctx context.Context, description string, effort float64) (*Requirement, error) {
	current, err := s.projects.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	requirement, err := s.repo.Create(ctx, current.ID, description, effort)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, messaging.RequirementCreated, requirement)
	return requirement, nil
}

func (s *service) GetRequirement(ctx context.Context, id int) (*Requirement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateRequirement(ctx context.Context, id int, patch Patch) (*Requirement, error) {
	requirement, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !patch.IsEmpty() {
		s.publisher.Publish(ctx, messaging.RequirementUpdated, requirement)
	}
	return requirement, nil
}

func (s *service) ToggleRequirement(ctx context.Context, id int) (*Requirement, error) {
	requirement, err := s.repo.ToggleStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, messaging.RequirementToggled, requirement)
	return requirement, nil
}

func (s *service) DeleteRequirement(ctx context.Context, id int) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRequirementNotFound
	}
	s.publisher.Publish(ctx, messaging.RequirementDeleted, map[string]int{"id": id})
	return nil
}

func (s *service) GetSummary(ctx context.Context) (*Summary, error) {
	current, err := s.projects.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, current.ID)
}
