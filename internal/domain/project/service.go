package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ganot/atelier/internal/repository"
)

// Service exposes the read-only catalog and the filter engine.
type Service struct {
	repo    Repository
	logger  *slog.Logger
	maxTags int
}

// NewService creates a new project service. maxTags bounds the tag universe
// returned by Tags; zero selects DefaultMaxTags.
func NewService(repo Repository, logger *slog.Logger, maxTags int) *Service {
	if maxTags == 0 {
		maxTags = DefaultMaxTags
	}
	return &Service{repo: repo, logger: logger, maxTags: maxTags}
}

// FilterRequest selects a subset of the catalog.
type FilterRequest struct {
	Tag   string
	Query string
}

// FilterResult is the visible subset for a filter request.
type FilterResult struct {
	Tag      string    `json:"tag"`
	Query    string    `json:"query"`
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}

// Seed writes catalog entries that are not stored yet. Entries already
// present are left untouched; the catalog is immutable once stored.
func (s *Service) Seed(ctx context.Context, catalog []Project) (int, error) {
	if err := ValidateCatalog(catalog); err != nil {
		return 0, err
	}

	created := 0
	for i := range catalog {
		proj := catalog[i]
		_, err := s.repo.Get(ctx, proj.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return created, fmt.Errorf("checking project %s: %w", proj.ID, err)
		}
		if err := s.repo.Create(ctx, &proj); err != nil {
			return created, fmt.Errorf("seeding project %s: %w", proj.ID, err)
		}
		created++
	}

	if s.logger != nil {
		s.logger.Info("catalog seeded", "projects", len(catalog), "created", created)
	}
	return created, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns the whole catalog in catalog order.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Filter applies the tag and query predicates to the catalog.
func (s *Service) Filter(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	tag := req.Tag
	if tag == "" {
		tag = AllTag
	}
	visible := Filter(catalog, tag, req.Query)
	return &FilterResult{
		Tag:      tag,
		Query:    req.Query,
		Projects: visible,
		Total:    len(catalog),
	}, nil
}

// Tags returns the tag universe for the catalog.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Tags(catalog, s.maxTags), nil
}
