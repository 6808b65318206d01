package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguin/core/internal/domain/entities"
)

const (
	user1 = entities.IdentityUser1
	user2 = entities.IdentityUser2
)

func TestAddGoal(t *testing.T) {
	c, ok := AddGoal(Empty(), user1, "g1", "Run 100km", 100)
	require.True(t, ok)
	require.Len(t, c.Goals[user1], 1)

	g := c.Goals[user1][0]
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, "Run 100km", g.Text)
	assert.Equal(t, 100, g.Target)
	assert.Equal(t, 0, g.Current)
	assert.Equal(t, user1, g.Owner)
	assert.Empty(t, g.Subgoals)
	assert.Empty(t, c.Goals[user2])
}

func TestAddGoalInvalidInput(t *testing.T) {
	empty := Empty()

	tests := []struct {
		name   string
		owner  entities.Identity
		text   string
		target int
	}{
		{"empty text", user1, "", 10},
		{"whitespace text", user1, "   ", 10},
		{"zero target", user1, "goal", 0},
		{"negative target", user1, "goal", -3},
		{"unknown identity", entities.Identity("nobody"), "goal", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := AddGoal(empty, tt.owner, "id", tt.text, tt.target)
			assert.False(t, ok)
			assert.Equal(t, empty, c)
		})
	}
}

func TestAddGoalTrimsText(t *testing.T) {
	c, ok := AddGoal(Empty(), user1, "g1", "  read more  ", 12)
	require.True(t, ok)
	assert.Equal(t, "read more", c.Goals[user1][0].Text)
}

func TestUpdateGoalProgressClamps(t *testing.T) {
	c, _ := AddGoal(Empty(), user1, "g1", "goal", 5)

	c, ok := UpdateGoalProgress(c, user1, "g1", -1)
	require.True(t, ok)
	assert.Equal(t, 0, c.Goals[user1][0].Current, "never negative")

	c, ok = UpdateGoalProgress(c, user1, "g1", 100)
	require.True(t, ok)
	assert.Equal(t, 5, c.Goals[user1][0].Current, "never above target")

	c, ok = UpdateGoalProgress(c, user1, "g1", -2)
	require.True(t, ok)
	assert.Equal(t, 3, c.Goals[user1][0].Current)
}

func TestUpdateGoalProgressUnknownID(t *testing.T) {
	c, _ := AddGoal(Empty(), user1, "g1", "goal", 5)
	next, ok := UpdateGoalProgress(c, user1, "missing", 1)
	assert.False(t, ok)
	assert.Equal(t, c, next)
}

func TestUpdateGoalProgressDoesNotMutateInput(t *testing.T) {
	c, _ := AddGoal(Empty(), user1, "g1", "goal", 5)
	before := c.Goals[user1][0].Current

	_, ok := UpdateGoalProgress(c, user1, "g1", 3)
	require.True(t, ok)
	assert.Equal(t, before, c.Goals[user1][0].Current, "input snapshot unchanged")
}

func TestDeleteGoalRemovesSubgoals(t *testing.T) {
	c, _ := AddGoal(Empty(), user1, "g1", "goal", 5)
	c, _ = AddSubgoal(c, user1, "g1", "s1", "step one", "")
	c, _ = AddSubgoal(c, user1, "g1", "s2", "step two", "details")

	c, ok := DeleteGoal(c, user1, "g1")
	require.True(t, ok)
	assert.Empty(t, c.Goals[user1])

	_, found := c.GoalByID("g1")
	assert.False(t, found, "no orphan subgoal can survive in any view")
}

func TestSubgoalLifecycle(t *testing.T) {
	c, _ := AddGoal(Empty(), user1, "g1", "goal", 5)

	c, ok := AddSubgoal(c, user1, "g1", "s1", "step", "why it matters")
	require.True(t, ok)
	require.Len(t, c.Goals[user1][0].Subgoals, 1)
	sub := c.Goals[user1][0].Subgoals[0]
	assert.False(t, sub.Completed)
	assert.Equal(t, "why it matters", sub.Description)

	// toggle is its own inverse
	c, _ = ToggleSubgoal(c, user1, "g1", "s1")
	assert.True(t, c.Goals[user1][0].Subgoals[0].Completed)
	c, _ = ToggleSubgoal(c, user1, "g1", "s1")
	assert.False(t, c.Goals[user1][0].Subgoals[0].Completed)

	c, ok = DeleteSubgoal(c, user1, "g1", "s1")
	require.True(t, ok)
	assert.Empty(t, c.Goals[user1][0].Subgoals)
}

func TestSubgoalUnknownTargets(t *testing.T) {
	c, _ := AddGoal(Empty(), user1, "g1", "goal", 5)

	_, ok := AddSubgoal(c, user1, "missing", "s1", "step", "")
	assert.False(t, ok)
	_, ok = AddSubgoal(c, user1, "g1", "s1", "  ", "")
	assert.False(t, ok)
	_, ok = ToggleSubgoal(c, user1, "g1", "missing")
	assert.False(t, ok)
	_, ok = DeleteSubgoal(c, user1, "missing", "s1")
	assert.False(t, ok)
}

func TestTodoLifecycle(t *testing.T) {
	c, ok := AddTodo(Empty(), user2, "t1", "laundry")
	require.True(t, ok)
	require.Len(t, c.Todos[user2], 1)
	assert.Empty(t, c.Todos[user1], "no cross-user visibility")

	c, _ = ToggleTodo(c, user2, "t1")
	assert.True(t, c.Todos[user2][0].Completed)
	assert.Equal(t, 1, c.CompletedTodoCount(user2))
	assert.Equal(t, 0, c.CompletedTodoCount(user1))

	c, ok = DeleteTodo(c, user2, "t1")
	require.True(t, ok)
	assert.Empty(t, c.Todos[user2])

	_, ok = DeleteTodo(c, user2, "t1")
	assert.False(t, ok)
}

func TestRewardFlow(t *testing.T) {
	c, ok := AddReward(Empty(), user1, "r1", "movie night")
	require.True(t, ok)
	require.Len(t, c.Rewards, 1)

	r := c.Rewards[0]
	assert.Equal(t, user1, r.From)
	assert.Equal(t, user2, r.To)
	assert.False(t, r.Claimed)

	// claiming is unrestricted: either side may flip it, and twice round-trips
	c, _ = ToggleReward(c, "r1")
	assert.True(t, c.Rewards[0].Claimed)
	c, _ = ToggleReward(c, "r1")
	assert.False(t, c.Rewards[0].Claimed)

	_, ok = ToggleReward(c, "missing")
	assert.False(t, ok)
}

func TestMessagesPreserveInsertionOrder(t *testing.T) {
	c := Empty()
	c, _ = SendMessage(c, user1, "m1", "first")
	c, _ = SendMessage(c, user2, "m2", "second")
	c, _ = SendMessage(c, user1, "m3", "third")

	require.Len(t, c.Messages, 3)
	assert.Equal(t, "m1", c.Messages[0].ID)
	assert.Equal(t, "m2", c.Messages[1].ID)
	assert.Equal(t, "m3", c.Messages[2].ID)

	_, ok := SendMessage(c, user1, "m4", "   ")
	assert.False(t, ok)
}

func TestProgressScenario(t *testing.T) {
	// user1 adds goal "Run 100km" with target 100 and increments by 10 thrice.
	c, _ := AddGoal(Empty(), user1, "g1", "Run 100km", 100)
	for i := 0; i < 3; i++ {
		c, _ = UpdateGoalProgress(c, user1, "g1", 10)
	}

	g := c.Goals[user1][0]
	assert.Equal(t, 30, g.Current)
	assert.Equal(t, 30, g.Percent())

	// user2 views user1's goals read-only through the derived view.
	otherGoals := c.GoalsFor(user2.Other())
	require.Len(t, otherGoals, 1)
	assert.Equal(t, 30, otherGoals[0].Current)
	assert.Equal(t, 100, otherGoals[0].Target)
}

func TestProgressOverview(t *testing.T) {
	c, _ := AddGoal(Empty(), user1, "g1", "goal", 4)
	c, _ = UpdateGoalProgress(c, user1, "g1", 2)
	c, _ = AddSubgoal(c, user1, "g1", "s1", "step one", "")
	c, _ = AddSubgoal(c, user1, "g1", "s2", "step two", "")
	c, _ = ToggleSubgoal(c, user1, "g1", "s1")

	views := c.Progress()
	require.Len(t, views, 2)
	assert.Equal(t, "Des", views[0].Name)
	require.Len(t, views[0].Goals, 1)
	assert.Equal(t, 50, views[0].Goals[0].Percent)
	assert.Equal(t, 1, views[0].Goals[0].SubgoalsDone)
	assert.Equal(t, 2, views[0].Goals[0].SubgoalsTotal)
	assert.Empty(t, views[1].Goals)
}

func TestNormalizeFillsMissingPartitions(t *testing.T) {
	c := Collections{}.Normalize()
	assert.NotNil(t, c.Goals[user1])
	assert.NotNil(t, c.Todos[user2])
	assert.NotNil(t, c.Messages)
	assert.NotNil(t, c.Rewards)

	// one partition present, the rest missing
	half := Collections{Goals: map[entities.Identity][]entities.Goal{user1: {{ID: "g"}}}}.Normalize()
	assert.Len(t, half.Goals[user1], 1)
	assert.NotNil(t, half.Goals[user2])
}
