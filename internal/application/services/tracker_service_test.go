package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguin/core/internal/adapters/localstore"
	"github.com/penguin/core/internal/domain/entities"
	"github.com/penguin/core/internal/infrastructure/logger"
)

func newTestService(t *testing.T) *TrackerService {
	t.Helper()
	kv, err := localstore.NewFileKVWithFs(afero.NewMemMapFs(), "data")
	require.NoError(t, err)
	backend, err := localstore.New(context.Background(), kv, logger.Nop())
	require.NoError(t, err)
	return NewTrackerService(backend, logger.Nop())
}

func TestUsers(t *testing.T) {
	svc := newTestService(t)

	users := svc.Users()
	require.Len(t, users, 2)
	assert.Equal(t, entities.IdentityUser1, users[0].Identity)
	assert.Equal(t, "Des", users[0].Name)
	assert.Equal(t, "Princess", users[1].Name)
}

func TestViewsRequireLogin(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.MyGoals()
	assert.ErrorIs(t, err, entities.ErrNotLoggedIn)
	_, err = svc.MyTodos()
	assert.ErrorIs(t, err, entities.ErrNotLoggedIn)
	_, err = svc.CompletedTodoCount()
	assert.ErrorIs(t, err, entities.ErrNotLoggedIn)
}

func TestCrossUserGoalVisibility(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Login(ctx, entities.IdentityUser1))
	require.NoError(t, svc.AddGoal(ctx, "Run 100km", 100))
	mine, err := svc.MyGoals()
	require.NoError(t, err)
	require.Len(t, mine, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.UpdateGoalProgress(ctx, mine[0].ID, 10))
	}

	// switch identity; user2 sees user1's goal read-only
	require.NoError(t, svc.Login(ctx, entities.IdentityUser2))
	theirs, err := svc.OtherGoals()
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, 30, theirs[0].Current)
	assert.Equal(t, 100, theirs[0].Target)
	assert.Equal(t, 30, theirs[0].Percent())

	// user2 has no write path into user1's partition
	require.NoError(t, svc.DeleteGoal(ctx, theirs[0].ID))
	stillThere, err := svc.OtherGoals()
	require.NoError(t, err)
	assert.Len(t, stillThere, 1)
}

func TestSharedCollections(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Login(ctx, entities.IdentityUser1))
	require.NoError(t, svc.SendMessage(ctx, "morning"))
	require.NoError(t, svc.AddReward(ctx, "coffee run"))

	require.NoError(t, svc.Login(ctx, entities.IdentityUser2))
	require.NoError(t, svc.SendMessage(ctx, "hi"))

	msgs := svc.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.IdentityUser1, msgs[0].From)
	assert.Equal(t, entities.IdentityUser2, msgs[1].From)

	rewards := svc.Rewards()
	require.Len(t, rewards, 1)
	assert.Equal(t, entities.IdentityUser2, rewards[0].To)

	// recipient claims, then unclaims
	require.NoError(t, svc.ToggleReward(ctx, rewards[0].ID))
	assert.True(t, svc.Rewards()[0].Claimed)
	require.NoError(t, svc.ToggleReward(ctx, rewards[0].ID))
	assert.False(t, svc.Rewards()[0].Claimed)
}

func TestProgressView(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Login(ctx, entities.IdentityUser2))
	require.NoError(t, svc.AddGoal(ctx, "Read 12 books", 12))
	goals, err := svc.MyGoals()
	require.NoError(t, err)
	require.NoError(t, svc.UpdateGoalProgress(ctx, goals[0].ID, 6))

	views := svc.Progress()
	require.Len(t, views, 2)
	assert.Empty(t, views[0].Goals)
	require.Len(t, views[1].Goals, 1)
	assert.Equal(t, 50, views[1].Goals[0].Percent)
}
