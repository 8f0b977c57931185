package preference

import (
	"context"

	"github.com/patsapolpro/web-starter-kit-ai/internal/messaging"
)

type Service interface {
	GetPreferences(ctx context.Context) (*Preferences, error)
	UpdatePreferences(ctx context.Context, patch Patch) (*Preferences, error)
	ResetPreferences(ctx context.Context) (*Preferences, error)
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

func (s *service) GetPreferences(ctx context.Context) (*Preferences, error) {
	return s.repo.Get(ctx)
}

func (s *service) UpdatePreferences(ctx context.Context, patch Patch) (*Preferences, error) {
	prefs, err := s.repo.Update(ctx, patch)
	if err != nil {
		return nil, err
	}
	if !patch.IsEmpty() {
		s.publisher.Publish(ctx, messaging.PreferencesUpdated, prefs)
	}
	return prefs, nil
}

func (s *service) ResetPreferences(ctx context.Context) (*Preferences, error) {
	prefs, err := s.repo.Reset(ctx)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, messaging.PreferencesUpdated, prefs)
	return prefs, nil
}
