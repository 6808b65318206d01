package services

import (
	"context"

	"github.com/penguin/core/internal/domain/entities"
	"github.com/penguin/core/internal/domain/state"
	"github.com/penguin/core/internal/infrastructure/logger"
	"github.com/penguin/core/internal/ports"
)

// TrackerService fronts the persistence backend for the presentation layer:
// identity selection, mutation dispatch, and the derived read views. It
// depends only on the ports.Backend interface, never on a concrete variant.
type TrackerService struct {
	backend ports.Backend
	logger  *logger.Logger
}

// NewTrackerService creates a new tracker service
func NewTrackerService(backend ports.Backend, logger *logger.Logger) *TrackerService {
	return &TrackerService{
		backend: backend,
		logger:  logger,
	}
}

// UserInfo describes one of the two fixed participants.
type UserInfo struct {
	Identity entities.Identity `json:"identity"`
	Name     string            `json:"name"`
}

// Users lists both participants; this is all the login screen needs.
func (s *TrackerService) Users() []UserInfo {
	out := make([]UserInfo, 0, 2)
	for _, id := range entities.Identities() {
		out = append(out, UserInfo{Identity: id, Name: id.DisplayName()})
	}
	return out
}

// Login activates one of the two identities.
func (s *TrackerService) Login(ctx context.Context, id entities.Identity) error {
	if err := s.backend.Login(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User logged in", "identity", id)
	return nil
}

// Logout clears the active identity.
func (s *TrackerService) Logout(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil {
		return err
	}
	s.logger.Info("User logged out")
	return nil
}

// ActiveIdentity returns the active identity, if any.
func (s *TrackerService) ActiveIdentity() (entities.Identity, bool) {
	return s.backend.ActiveIdentity()
}

// Snapshot returns the complete current collections.
func (s *TrackerService) Snapshot() state.Collections {
	return s.backend.Snapshot()
}

// Subscribe passes through to the backend's snapshot stream.
func (s *TrackerService) Subscribe() (<-chan state.Collections, func()) {
	return s.backend.Subscribe()
}

// MyGoals returns the active identity's goals.
func (s *TrackerService) MyGoals() ([]entities.Goal, error) {
	id, ok := s.backend.ActiveIdentity()
	if !ok {
		return nil, entities.ErrNotLoggedIn
	}
	return s.backend.Snapshot().GoalsFor(id), nil
}

// OtherGoals returns the other participant's goals. Read-only by contract:
// no mutation path accepts them.
func (s *TrackerService) OtherGoals() ([]entities.Goal, error) {
	id, ok := s.backend.ActiveIdentity()
	if !ok {
		return nil, entities.ErrNotLoggedIn
	}
	return s.backend.Snapshot().GoalsFor(id.Other()), nil
}

// MyTodos returns the active identity's private task list.
func (s *TrackerService) MyTodos() ([]entities.Todo, error) {
	id, ok := s.backend.ActiveIdentity()
	if !ok {
		return nil, entities.ErrNotLoggedIn
	}
	return s.backend.Snapshot().TodosFor(id), nil
}

// CompletedTodoCount counts the active identity's finished tasks.
func (s *TrackerService) CompletedTodoCount() (int, error) {
	id, ok := s.backend.ActiveIdentity()
	if !ok {
		return 0, entities.ErrNotLoggedIn
	}
	return s.backend.Snapshot().CompletedTodoCount(id), nil
}

// Messages returns the shared thread in insertion order.
func (s *TrackerService) Messages() []entities.Message {
	return s.backend.Snapshot().Messages
}

// Rewards returns the shared reward ledger.
func (s *TrackerService) Rewards() []entities.Reward {
	return s.backend.Snapshot().Rewards
}

// Progress returns the progress-tab projection for both participants.
func (s *TrackerService) Progress() []state.ProgressOverview {
	return s.backend.Snapshot().Progress()
}

// Mutation dispatch. Each call maps 1:1 to one backend operation; the
// silent-no-op contract lives below this layer.

func (s *TrackerService) AddGoal(ctx context.Context, text string, target int) error {
	return s.backend.AddGoal(ctx, text, target)
}

func (s *TrackerService) UpdateGoalProgress(ctx context.Context, id string, delta int) error {
	return s.backend.UpdateGoalProgress(ctx, id, delta)
}

func (s *TrackerService) DeleteGoal(ctx context.Context, id string) error {
	return s.backend.DeleteGoal(ctx, id)
}

func (s *TrackerService) AddSubgoal(ctx context.Context, goalID, text, description string) error {
	return s.backend.AddSubgoal(ctx, goalID, text, description)
}

func (s *TrackerService) ToggleSubgoal(ctx context.Context, goalID, subgoalID string) error {
	return s.backend.ToggleSubgoal(ctx, goalID, subgoalID)
}

func (s *TrackerService) DeleteSubgoal(ctx context.Context, goalID, subgoalID string) error {
	return s.backend.DeleteSubgoal(ctx, goalID, subgoalID)
}

func (s *TrackerService) AddTodo(ctx context.Context, text string) error {
	return s.backend.AddTodo(ctx, text)
}

func (s *TrackerService) ToggleTodo(ctx context.Context, id string) error {
	return s.backend.ToggleTodo(ctx, id)
}

func (s *TrackerService) DeleteTodo(ctx context.Context, id string) error {
	return s.backend.DeleteTodo(ctx, id)
}

func (s *TrackerService) AddReward(ctx context.Context, text string) error {
	return s.backend.AddReward(ctx, text)
}

func (s *TrackerService) ToggleReward(ctx context.Context, id string) error {
	return s.backend.ToggleReward(ctx, id)
}

func (s *TrackerService) SendMessage(ctx context.Context, text string) error {
	return s.backend.SendMessage(ctx, text)
}
