package ports

import (
	"context"

	"github.com/penguin/core/internal/domain/entities"
	"github.com/penguin/core/internal/domain/state"
)

// Backend is the persistence layer behind the tracker. Callers depend only on
// this interface; the local-snapshot and remote-sync variants both conform.
//
// Mutations follow the product's silent-failure contract: invalid input and
// unknown ids are absorbed as no-ops with a nil error. A non-nil error means
// the backend could not even attempt durability (no active identity, or an
// infrastructure failure worth surfacing to the adapter's logs).
type Backend interface {
	// Identity selector.
	Login(ctx context.Context, id entities.Identity) error
	Logout(ctx context.Context) error
	ActiveIdentity() (entities.Identity, bool)

	// Goal operations.
	AddGoal(ctx context.Context, text string, target int) error
	UpdateGoalProgress(ctx context.Context, id string, delta int) error
	DeleteGoal(ctx context.Context, id string) error
	AddSubgoal(ctx context.Context, goalID, text, description string) error
	ToggleSubgoal(ctx context.Context, goalID, subgoalID string) error
	DeleteSubgoal(ctx context.Context, goalID, subgoalID string) error

	// Todo operations.
	AddTodo(ctx context.Context, text string) error
	ToggleTodo(ctx context.Context, id string) error
	DeleteTodo(ctx context.Context, id string) error

	// Shared-collection operations.
	AddReward(ctx context.Context, text string) error
	ToggleReward(ctx context.Context, id string) error
	SendMessage(ctx context.Context, text string) error

	// Snapshot returns the current collections as an immutable value.
	Snapshot() state.Collections

	// Subscribe registers for whole-snapshot notifications published after
	// every local mutation or remote delivery. The returned cancel func is
	// idempotent; no delivery happens after it returns.
	Subscribe() (<-chan state.Collections, func())

	Close() error
}
