package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, group *Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Group), args.Error(1)
}

func (m *mockRepository) GetBySlug(ctx context.Context, slug string) (*Group, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Group), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context) ([]*Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Group), args.Error(1)
}

func TestCreateGroup(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(g *Group) bool {
		return g.Slug == "test-slug" && g.Title == "Test group"
	})).Return(nil)

	group, err := NewGroupService(repo).CreateGroup(context.Background(), CreateGroupRequest{
		Title: " Test group ", Slug: "test-slug", Description: "about tests",
	})

	require.NoError(t, err)
	assert.Equal(t, "about tests", group.Description)
	repo.AssertExpectations(t)
}

func TestCreateGroup_Invalid(t *testing.T) {
	repo := new(mockRepository)
	service := NewGroupService(repo)

	_, err := service.CreateGroup(context.Background(), CreateGroupRequest{Title: "", Slug: "ok"})
	assert.Error(t, err)

	_, err = service.CreateGroup(context.Background(), CreateGroupRequest{Title: "ok", Slug: "not a slug"})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "slug", valErr.Field)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetGroupBySlug(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetBySlug", mock.Anything, "unknown").Return(nil, ErrGroupNotFound)
	service := NewGroupService(repo)

	_, err := service.GetGroupBySlug(context.Background(), "unknown")
	assert.True(t, IsNotFound(err))

	_, err = service.GetGroupBySlug(context.Background(), "")
	assert.True(t, IsNotFound(err))
}
