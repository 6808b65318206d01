package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityOther(t *testing.T) {
	assert.Equal(t, IdentityUser2, IdentityUser1.Other())
	assert.Equal(t, IdentityUser1, IdentityUser2.Other())
}

func TestIdentityValid(t *testing.T) {
	assert.True(t, IdentityUser1.Valid())
	assert.True(t, IdentityUser2.Valid())
	assert.False(t, Identity("user3").Valid())
	assert.False(t, Identity("").Valid())
}

func TestGoalPercent(t *testing.T) {
	tests := []struct {
		name    string
		current int
		target  int
		want    int
	}{
		{"zero progress", 0, 100, 0},
		{"partial", 30, 100, 30},
		{"complete", 5, 5, 100},
		{"rounds half up", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"zero target guarded", 10, 0, 0},
		{"negative target guarded", 10, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{Current: tt.current, Target: tt.target}
			assert.Equal(t, tt.want, g.Percent())
		})
	}
}

func TestGoalDone(t *testing.T) {
	assert.False(t, Goal{Current: 4, Target: 5}.Done())
	assert.True(t, Goal{Current: 5, Target: 5}.Done())
}

func TestGoalSubgoalProgress(t *testing.T) {
	g := Goal{Subgoals: []Subgoal{
		{ID: "1", Completed: true},
		{ID: "2"},
		{ID: "3", Completed: true},
	}}
	done, total := g.SubgoalProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)

	done, total = Goal{}.SubgoalProgress()
	assert.Equal(t, 0, done)
	assert.Equal(t, 0, total)
}
