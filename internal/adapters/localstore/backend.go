// Package localstore implements the local snapshot persistence variant: the
// collections live in process memory and every successful mutation writes the
// full state through to an on-device key-value store under fixed keys.
package localstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/penguin/core/internal/domain/entities"
	"github.com/penguin/core/internal/domain/state"
	"github.com/penguin/core/internal/infrastructure/logger"
	"github.com/penguin/core/internal/ports"
)

// Storage keys, one per collection plus one for the active identity. The
// penguin_ prefix is the product's original storage scheme.
const (
	KeyGoals    = "penguin_goals"
	KeyTodos    = "penguin_todos"
	KeyMessages = "penguin_messages"
	KeyRewards  = "penguin_rewards"
	KeyUser     = "penguin_user"
)

// Backend is the local snapshot variant of ports.Backend.
type Backend struct {
	mu  sync.RWMutex
	kv  ports.KV
	log *logger.Logger
	ids idAllocator

	identity entities.Identity
	loggedIn bool
	cols     state.Collections

	subs    map[int]chan state.Collections
	nextSub int
	closed  bool
}

// New restores the collections and the active identity from the KV store.
// Each key restores independently: a missing or corrupt record falls back to
// an empty default for that collection only.
func New(ctx context.Context, kv ports.KV, log *logger.Logger) (*Backend, error) {
	b := &Backend{
		kv:   kv,
		log:  log.WithComponent("localstore"),
		cols: state.Empty(),
		subs: make(map[int]chan state.Collections),
	}

	restoreKey(ctx, b, KeyGoals, &b.cols.Goals)
	restoreKey(ctx, b, KeyTodos, &b.cols.Todos)
	restoreKey(ctx, b, KeyMessages, &b.cols.Messages)
	restoreKey(ctx, b, KeyRewards, &b.cols.Rewards)
	b.cols = b.cols.Normalize()

	if raw, ok, err := kv.Get(ctx, KeyUser); err != nil {
		b.log.WithError(err).Warn("failed to restore active identity")
	} else if ok && len(raw) > 0 {
		// restored verbatim, no re-validation by contract
		b.identity = entities.Identity(raw)
		b.loggedIn = true
	}

	return b, nil
}

func restoreKey[T any](ctx context.Context, b *Backend, key string, dest *T) {
	raw, ok, err := b.kv.Get(ctx, key)
	if err != nil {
		b.log.WithError(err).Warnw("failed to read stored collection", "key", key)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		b.log.WithError(err).Warnw("corrupt stored collection, using empty default", "key", key)
		var zero T
		*dest = zero
	}
}

// Login implements ports.Backend.
func (b *Backend) Login(ctx context.Context, id entities.Identity) error {
	if !id.Valid() {
		return entities.ErrUnknownIdentity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.identity = id
	b.loggedIn = true
	if err := b.kv.Set(ctx, KeyUser, []byte(id)); err != nil {
		b.log.WithError(err).Warn("failed to persist active identity")
	}
	b.log.Infow("identity activated", "identity", id)
	return nil
}

// Logout implements ports.Backend.
func (b *Backend) Logout(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.identity = ""
	b.loggedIn = false
	if err := b.kv.Delete(ctx, KeyUser); err != nil {
		b.log.WithError(err).Warn("failed to clear persisted identity")
	}
	return nil
}

// ActiveIdentity implements ports.Backend.
func (b *Backend) ActiveIdentity() (entities.Identity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.identity, b.loggedIn
}

// apply runs one pure mutation under the lock, persists the result, and
// publishes the new snapshot. Absorbed no-ops neither persist nor publish.
func (b *Backend) apply(ctx context.Context, op string, fn func(state.Collections, entities.Identity) (state.Collections, bool)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loggedIn {
		return entities.ErrNotLoggedIn
	}

	next, ok := fn(b.cols, b.identity)
	b.log.LogMutation(op, string(b.identity), ok)
	if !ok {
		return nil
	}

	if err := b.persist(ctx, next); err != nil {
		// keep serving the new in-memory state; durability failures are
		// logged only, per the product's failure contract
		b.log.WithError(err).Warnw("snapshot write failed", "op", op)
	}

	b.cols = next
	b.publish(next)
	return nil
}

func (b *Backend) persist(ctx context.Context, c state.Collections) error {
	for key, v := range map[string]interface{}{
		KeyGoals:    c.Goals,
		KeyTodos:    c.Todos,
		KeyMessages: c.Messages,
		KeyRewards:  c.Rewards,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if err := b.kv.Set(ctx, key, data); err != nil {
			return err
		}
	}
	return nil
}

// AddGoal implements ports.Backend.
func (b *Backend) AddGoal(ctx context.Context, text string, target int) error {
	id := b.ids.Next()
	return b.apply(ctx, "add_goal", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.AddGoal(c, owner, id, text, target)
	})
}

// UpdateGoalProgress implements ports.Backend.
func (b *Backend) UpdateGoalProgress(ctx context.Context, id string, delta int) error {
	return b.apply(ctx, "update_goal_progress", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.UpdateGoalProgress(c, owner, id, delta)
	})
}

// DeleteGoal implements ports.Backend. The local variant trusts the caller on
// ownership: the partition of the active identity is the only one reachable.
func (b *Backend) DeleteGoal(ctx context.Context, id string) error {
	return b.apply(ctx, "delete_goal", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.DeleteGoal(c, owner, id)
	})
}

// AddSubgoal implements ports.Backend.
func (b *Backend) AddSubgoal(ctx context.Context, goalID, text, description string) error {
	id := b.ids.Next()
	return b.apply(ctx, "add_subgoal", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.AddSubgoal(c, owner, goalID, id, text, description)
	})
}

// ToggleSubgoal implements ports.Backend.
func (b *Backend) ToggleSubgoal(ctx context.Context, goalID, subgoalID string) error {
	return b.apply(ctx, "toggle_subgoal", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.ToggleSubgoal(c, owner, goalID, subgoalID)
	})
}

// DeleteSubgoal implements ports.Backend.
func (b *Backend) DeleteSubgoal(ctx context.Context, goalID, subgoalID string) error {
	return b.apply(ctx, "delete_subgoal", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.DeleteSubgoal(c, owner, goalID, subgoalID)
	})
}

// AddTodo implements ports.Backend.
func (b *Backend) AddTodo(ctx context.Context, text string) error {
	id := b.ids.Next()
	return b.apply(ctx, "add_todo", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.AddTodo(c, owner, id, text)
	})
}

// ToggleTodo implements ports.Backend.
func (b *Backend) ToggleTodo(ctx context.Context, id string) error {
	return b.apply(ctx, "toggle_todo", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.ToggleTodo(c, owner, id)
	})
}

// DeleteTodo implements ports.Backend.
func (b *Backend) DeleteTodo(ctx context.Context, id string) error {
	return b.apply(ctx, "delete_todo", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.DeleteTodo(c, owner, id)
	})
}

// AddReward implements ports.Backend.
func (b *Backend) AddReward(ctx context.Context, text string) error {
	id := b.ids.Next()
	return b.apply(ctx, "add_reward", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.AddReward(c, owner, id, text)
	})
}

// ToggleReward implements ports.Backend.
func (b *Backend) ToggleReward(ctx context.Context, id string) error {
	return b.apply(ctx, "toggle_reward", func(c state.Collections, _ entities.Identity) (state.Collections, bool) {
		return state.ToggleReward(c, id)
	})
}

// SendMessage implements ports.Backend.
func (b *Backend) SendMessage(ctx context.Context, text string) error {
	id := b.ids.Next()
	return b.apply(ctx, "send_message", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.SendMessage(c, owner, id, text)
	})
}

// Snapshot implements ports.Backend.
func (b *Backend) Snapshot() state.Collections {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cols
}

// Subscribe implements ports.Backend.
func (b *Backend) Subscribe() (<-chan state.Collections, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan state.Collections, 1)
	id := b.nextSub
	b.nextSub++
	if !b.closed {
		b.subs[id] = ch
	} else {
		close(ch)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// publish pushes the snapshot to every subscriber; a slow subscriber only
// ever sees the latest value (last-snapshot-wins), never a backlog.
// Callers hold b.mu, so there is a single sender at a time.
func (b *Backend) publish(c state.Collections) {
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- c
		}
	}
}

// Close implements ports.Backend.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return b.kv.Close()
}

var _ ports.Backend = (*Backend)(nil)
