// Package state holds the in-memory collection store and the pure mutation
// operations shared by both persistence backends. Every operation takes the
// current collections plus a user intent and returns new collections; nothing
// is ever mutated in place, so a backend can publish each result as a complete
// immutable snapshot.
package state

import (
	"strings"
	"time"

	"github.com/penguin/core/internal/domain/entities"
)

// Collections is the complete tracker state at a point in time. Goals and
// todos are partitioned by owning identity; messages and rewards are flat
// shared lists visible to both participants.
type Collections struct {
	Goals    map[entities.Identity][]entities.Goal `json:"goals"`
	Todos    map[entities.Identity][]entities.Todo `json:"todos"`
	Messages []entities.Message                    `json:"messages"`
	Rewards  []entities.Reward                     `json:"rewards"`
}

// Empty returns collections with both identity partitions initialized, the
// same default shape the product restores when nothing is persisted yet.
func Empty() Collections {
	return Collections{
		Goals: map[entities.Identity][]entities.Goal{
			entities.IdentityUser1: {},
			entities.IdentityUser2: {},
		},
		Todos: map[entities.Identity][]entities.Todo{
			entities.IdentityUser1: {},
			entities.IdentityUser2: {},
		},
		Messages: []entities.Message{},
		Rewards:  []entities.Reward{},
	}
}

// Normalize fills in any partition a partially-restored snapshot is missing.
// Each storage key restores independently, so a corrupt goals record must not
// leave the goals map nil while todos restore fine.
func (c Collections) Normalize() Collections {
	if c.Goals == nil {
		c.Goals = Empty().Goals
	}
	if c.Todos == nil {
		c.Todos = Empty().Todos
	}
	for _, id := range entities.Identities() {
		if c.Goals[id] == nil {
			c.Goals[id] = []entities.Goal{}
		}
		if c.Todos[id] == nil {
			c.Todos[id] = []entities.Todo{}
		}
	}
	if c.Messages == nil {
		c.Messages = []entities.Message{}
	}
	if c.Rewards == nil {
		c.Rewards = []entities.Reward{}
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// withGoals returns a copy of c with owner's goal slice replaced.
func (c Collections) withGoals(owner entities.Identity, goals []entities.Goal) Collections {
	next := make(map[entities.Identity][]entities.Goal, len(c.Goals))
	for k, v := range c.Goals {
		next[k] = v
	}
	next[owner] = goals
	c.Goals = next
	return c
}

func (c Collections) withTodos(owner entities.Identity, todos []entities.Todo) Collections {
	next := make(map[entities.Identity][]entities.Todo, len(c.Todos))
	for k, v := range c.Todos {
		next[k] = v
	}
	next[owner] = todos
	c.Todos = next
	return c
}

// AddGoal appends a new goal for owner with zero progress and an empty
// subgoal list. Empty text (after trimming) or a non-positive target leaves
// the collections unchanged.
func AddGoal(c Collections, owner entities.Identity, id, text string, target int) (Collections, bool) {
	text = strings.TrimSpace(text)
	if text == "" || target <= 0 || !owner.Valid() {
		return c, false
	}
	goal := entities.Goal{
		ID:        id,
		Text:      text,
		Target:    target,
		Current:   0,
		Owner:     owner,
		Subgoals:  []entities.Subgoal{},
		CreatedAt: time.Now().UTC(),
	}
	return c.withGoals(owner, append(append([]entities.Goal{}, c.Goals[owner]...), goal)), true
}

// UpdateGoalProgress moves a goal's current value by delta, clamped so it
// never leaves [0, target]. Unknown ids are ignored.
func UpdateGoalProgress(c Collections, owner entities.Identity, id string, delta int) (Collections, bool) {
	goals := c.Goals[owner]
	for i, g := range goals {
		if g.ID != id {
			continue
		}
		g.Current = clamp(g.Current+delta, 0, g.Target)
		next := append([]entities.Goal{}, goals...)
		next[i] = g
		return c.withGoals(owner, next), true
	}
	return c, false
}

// DeleteGoal removes a goal and, with it, every nested subgoal.
func DeleteGoal(c Collections, owner entities.Identity, id string) (Collections, bool) {
	goals := c.Goals[owner]
	next := make([]entities.Goal, 0, len(goals))
	found := false
	for _, g := range goals {
		if g.ID == id {
			found = true
			continue
		}
		next = append(next, g)
	}
	if !found {
		return c, false
	}
	return c.withGoals(owner, next), true
}

// AddSubgoal appends a checklist step under an existing goal.
func AddSubgoal(c Collections, owner entities.Identity, goalID, subID, text, description string) (Collections, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return c, false
	}
	goals := c.Goals[owner]
	for i, g := range goals {
		if g.ID != goalID {
			continue
		}
		sub := entities.Subgoal{ID: subID, Text: text, Description: description}
		g.Subgoals = append(append([]entities.Subgoal{}, g.Subgoals...), sub)
		next := append([]entities.Goal{}, goals...)
		next[i] = g
		return c.withGoals(owner, next), true
	}
	return c, false
}

// ToggleSubgoal flips a subgoal's completed flag. Toggling twice restores the
// original value.
func ToggleSubgoal(c Collections, owner entities.Identity, goalID, subID string) (Collections, bool) {
	return mutateSubgoals(c, owner, goalID, func(subs []entities.Subgoal) ([]entities.Subgoal, bool) {
		for i, s := range subs {
			if s.ID != subID {
				continue
			}
			next := append([]entities.Subgoal{}, subs...)
			next[i].Completed = !next[i].Completed
			return next, true
		}
		return subs, false
	})
}

// DeleteSubgoal removes a single checklist step from a goal.
func DeleteSubgoal(c Collections, owner entities.Identity, goalID, subID string) (Collections, bool) {
	return mutateSubgoals(c, owner, goalID, func(subs []entities.Subgoal) ([]entities.Subgoal, bool) {
		next := make([]entities.Subgoal, 0, len(subs))
		found := false
		for _, s := range subs {
			if s.ID == subID {
				found = true
				continue
			}
			next = append(next, s)
		}
		return next, found
	})
}

func mutateSubgoals(c Collections, owner entities.Identity, goalID string, fn func([]entities.Subgoal) ([]entities.Subgoal, bool)) (Collections, bool) {
	goals := c.Goals[owner]
	for i, g := range goals {
		if g.ID != goalID {
			continue
		}
		subs, ok := fn(g.Subgoals)
		if !ok {
			return c, false
		}
		g.Subgoals = subs
		next := append([]entities.Goal{}, goals...)
		next[i] = g
		return c.withGoals(owner, next), true
	}
	return c, false
}

// AddTodo appends a task to owner's private list.
func AddTodo(c Collections, owner entities.Identity, id, text string) (Collections, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !owner.Valid() {
		return c, false
	}
	todo := entities.Todo{ID: id, Text: text, Owner: owner}
	return c.withTodos(owner, append(append([]entities.Todo{}, c.Todos[owner]...), todo)), true
}

// ToggleTodo flips a task's completed flag.
func ToggleTodo(c Collections, owner entities.Identity, id string) (Collections, bool) {
	todos := c.Todos[owner]
	for i, td := range todos {
		if td.ID != id {
			continue
		}
		next := append([]entities.Todo{}, todos...)
		next[i].Completed = !next[i].Completed
		return c.withTodos(owner, next), true
	}
	return c, false
}

// DeleteTodo removes a task from owner's list.
func DeleteTodo(c Collections, owner entities.Identity, id string) (Collections, bool) {
	todos := c.Todos[owner]
	next := make([]entities.Todo, 0, len(todos))
	found := false
	for _, td := range todos {
		if td.ID == id {
			found = true
			continue
		}
		next = append(next, td)
	}
	if !found {
		return c, false
	}
	return c.withTodos(owner, next), true
}

// AddReward appends an unclaimed reward from the active identity to the other
// participant.
func AddReward(c Collections, from entities.Identity, id, text string) (Collections, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !from.Valid() {
		return c, false
	}
	reward := entities.Reward{
		ID:        id,
		From:      from,
		To:        from.Other(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	c.Rewards = append(append([]entities.Reward{}, c.Rewards...), reward)
	return c, true
}

// ToggleReward flips a reward's claimed flag. Either participant may do this.
func ToggleReward(c Collections, id string) (Collections, bool) {
	for i, r := range c.Rewards {
		if r.ID != id {
			continue
		}
		next := append([]entities.Reward{}, c.Rewards...)
		next[i].Claimed = !next[i].Claimed
		c.Rewards = next
		return c, true
	}
	return c, false
}

// SendMessage appends to the shared thread, ordered after every existing
// message regardless of sender.
func SendMessage(c Collections, from entities.Identity, id, text string) (Collections, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !from.Valid() {
		return c, false
	}
	msg := entities.Message{ID: id, From: from, Text: text, CreatedAt: time.Now().UTC()}
	c.Messages = append(append([]entities.Message{}, c.Messages...), msg)
	return c, true
}
