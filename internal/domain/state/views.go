package state

import "github.com/penguin/core/internal/domain/entities"

// Derived views. Pure reads recomputed on demand; collections stay small
// (tens of items) so linear scans are fine and nothing is cached.

// GoalProgress pairs a goal with its display percentage and checklist tally.
type GoalProgress struct {
	Goal          entities.Goal `json:"goal"`
	Percent       int           `json:"percent"`
	SubgoalsDone  int           `json:"subgoalsDone"`
	SubgoalsTotal int           `json:"subgoalsTotal"`
}

// ProgressOverview is the data behind the progress tab: both participants'
// goals with percentages. The non-owner side is read-only by contract.
type ProgressOverview struct {
	Identity entities.Identity `json:"identity"`
	Name     string            `json:"name"`
	Goals    []GoalProgress    `json:"goals"`
}

// GoalsFor returns identity's goal list.
func (c Collections) GoalsFor(id entities.Identity) []entities.Goal {
	return c.Goals[id]
}

// TodosFor returns identity's private task list.
func (c Collections) TodosFor(id entities.Identity) []entities.Todo {
	return c.Todos[id]
}

// CompletedTodoCount counts identity's finished tasks.
func (c Collections) CompletedTodoCount(id entities.Identity) int {
	n := 0
	for _, td := range c.Todos[id] {
		if td.Completed {
			n++
		}
	}
	return n
}

// GoalByID looks up a goal anywhere in either partition.
func (c Collections) GoalByID(id string) (entities.Goal, bool) {
	for _, owner := range entities.Identities() {
		for _, g := range c.Goals[owner] {
			if g.ID == id {
				return g, true
			}
		}
	}
	return entities.Goal{}, false
}

// RewardByID looks up a shared reward.
func (c Collections) RewardByID(id string) (entities.Reward, bool) {
	for _, r := range c.Rewards {
		if r.ID == id {
			return r, true
		}
	}
	return entities.Reward{}, false
}

// Progress builds the progress-tab projection for both participants.
func (c Collections) Progress() []ProgressOverview {
	out := make([]ProgressOverview, 0, 2)
	for _, id := range entities.Identities() {
		goals := c.Goals[id]
		view := ProgressOverview{
			Identity: id,
			Name:     id.DisplayName(),
			Goals:    make([]GoalProgress, 0, len(goals)),
		}
		for _, g := range goals {
			done, total := g.SubgoalProgress()
			view.Goals = append(view.Goals, GoalProgress{
				Goal:          g,
				Percent:       g.Percent(),
				SubgoalsDone:  done,
				SubgoalsTotal: total,
			})
		}
		out = append(out, view)
	}
	return out
}
