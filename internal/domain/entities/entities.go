package entities

import (
	"errors"
	"math"
	"time"
)

// Common errors
var (
	ErrUnknownIdentity = errors.New("unknown identity")
	ErrNotLoggedIn     = errors.New("no active identity")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrSubgoalNotFound = errors.New("subgoal not found")
	ErrTodoNotFound    = errors.New("todo not found")
	ErrRewardNotFound  = errors.New("reward not found")
	ErrNotOwner        = errors.New("entity owned by the other identity")
)

// Identity is one of exactly two fixed participant roles.
type Identity string

const (
	IdentityUser1 Identity = "user1"
	IdentityUser2 Identity = "user2"
)

var displayNames = map[Identity]string{
	IdentityUser1: "Des",
	IdentityUser2: "Princess",
}

// Valid reports whether i names one of the two known participants.
func (i Identity) Valid() bool {
	return i == IdentityUser1 || i == IdentityUser2
}

// Other returns the opposite participant.
func (i Identity) Other() Identity {
	if i == IdentityUser1 {
		return IdentityUser2
	}
	return IdentityUser1
}

// DisplayName returns the participant's human-readable name.
func (i Identity) DisplayName() string {
	return displayNames[i]
}

// Identities lists both participants in canonical order.
func Identities() []Identity {
	return []Identity{IdentityUser1, IdentityUser2}
}

// Subgoal is a checklist step nested under exactly one goal. Its lifecycle
// is owned by the goal: deleting the goal deletes every subgoal with it.
type Subgoal struct {
	ID          string `json:"id" firestore:"id"`
	Text        string `json:"text" firestore:"text"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	Completed   bool   `json:"completed" firestore:"completed"`
}

// Goal is a numeric-progress goal owned by one identity. Current is always
// clamped to [0, Target].
type Goal struct {
	ID        string    `json:"id" firestore:"id"`
	Text      string    `json:"text" firestore:"text"`
	Target    int       `json:"target" firestore:"target"`
	Current   int       `json:"current" firestore:"current"`
	Owner     Identity  `json:"owner" firestore:"owner"`
	Subgoals  []Subgoal `json:"subgoals" firestore:"subgoals"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Percent returns the goal's completion as a rounded whole percentage.
// A non-positive target reads as 0% so a malformed record from a foreign
// snapshot can never divide by zero; AddGoal refuses to create one.
func (g Goal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	return int(math.Round(float64(g.Current) / float64(g.Target) * 100))
}

// Done reports whether the goal reached its target.
func (g Goal) Done() bool {
	return g.Current >= g.Target
}

// SubgoalProgress returns how many checklist steps are done out of the total.
func (g Goal) SubgoalProgress() (done, total int) {
	for _, sg := range g.Subgoals {
		if sg.Completed {
			done++
		}
	}
	return done, len(g.Subgoals)
}

// Todo is a per-identity task list entry with no cross-user visibility.
type Todo struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Owner     Identity `json:"owner"`
}

// Message is one entry of the single shared thread. Ordering is the channel:
// both participants see the same append-only sequence.
type Message struct {
	ID        string    `json:"id" firestore:"id"`
	From      Identity  `json:"from" firestore:"from"`
	Text      string    `json:"text" firestore:"text"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Reward is an exchange-ledger entry sent from one identity to the other.
// Either party may flip Claimed; the product deliberately leaves claiming
// unrestricted.
type Reward struct {
	ID        string    `json:"id" firestore:"id"`
	From      Identity  `json:"from" firestore:"from"`
	To        Identity  `json:"to" firestore:"to"`
	Text      string    `json:"text" firestore:"text"`
	Claimed   bool      `json:"claimed" firestore:"claimed"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
