package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/repository"
	"github.com/ganot/atelier/internal/repository/mocks"
)

func TestProjectService_SeedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	projects := sampleCatalog(t)

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "seongbuk-house").Return(&projects[0], nil)
	repo.On("Get", ctx, "river-pavilion").Return((*project.Project)(nil), repository.ErrNotFound)
	repo.On("Get", ctx, "market-commons").Return((*project.Project)(nil), repository.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*project.Project")).Return(nil).Twice()

	svc := project.NewService(repo, nil, 0)
	created, err := svc.Seed(ctx, projects)
	require.NoError(t, err)
	require.Equal(t, 2, created)
	repo.AssertExpectations(t)
}

func TestProjectService_SeedRejectsInvalidCatalog(t *testing.T) {
	repo := &mocks.ProjectRepository{}
	svc := project.NewService(repo, nil, 0)
	_, err := svc.Seed(context.Background(), []project.Project{{ID: "x", Title: "X"}})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "missing").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil, 0)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)

	_, err = svc.Get(ctx, "")
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestProjectService_Filter(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return(sampleCatalog(t), nil)

	svc := project.NewService(repo, nil, 0)
	result, err := svc.Filter(ctx, project.FilterRequest{Tag: "공공"})
	require.NoError(t, err)
	require.Equal(t, "공공", result.Tag)
	require.Equal(t, 3, result.Total)
	require.Equal(t, []string{"river-pavilion"}, ids(result.Projects))

	result, err = svc.Filter(ctx, project.FilterRequest{})
	require.NoError(t, err)
	require.Equal(t, project.AllTag, result.Tag)
	require.Len(t, result.Projects, 3)
}

func TestProjectService_TagsHonorsLimit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return(sampleCatalog(t), nil)

	svc := project.NewService(repo, nil, 4)
	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{project.AllTag, "리노베이션", "주거", "프라이버시"}, tags)
}

func TestProjectService_ListError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return(nil, errors.New("boom"))

	svc := project.NewService(repo, nil, 0)
	_, err := svc.Filter(ctx, project.FilterRequest{})
	require.Error(t, err)
}
