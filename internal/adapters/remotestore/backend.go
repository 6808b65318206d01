// Package remotestore implements the remote sync persistence variant. The
// three shared collections (goals, messages, rewards) are canonical in the
// remote document store: mutations issue write commands and never apply
// locally, and each subscription delivery replaces the local projection
// wholesale. Todos remain on-device in this variant.
package remotestore

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/penguin/core/internal/adapters/localstore"
	"github.com/penguin/core/internal/domain/entities"
	"github.com/penguin/core/internal/domain/state"
	"github.com/penguin/core/internal/infrastructure/logger"
	"github.com/penguin/core/internal/ports"
)

// Backend is the remote sync variant of ports.Backend.
type Backend struct {
	mu    sync.RWMutex
	store ports.RemoteStore
	kv    ports.KV
	log   *logger.Logger

	identity entities.Identity
	loggedIn bool
	cols     state.Collections

	// gen guards against deliveries racing a teardown: a listener stamped
	// with an old generation can never write into the store again.
	gen         int
	cancelFeeds context.CancelFunc
	feeds       sync.WaitGroup

	subs    map[int]chan state.Collections
	nextSub int
	closed  bool
}

// New builds the remote backend. Todos and the active identity restore from
// the on-device KV store; shared collections stay empty until the first
// subscription delivery. A previously persisted identity reopens its feeds
// immediately.
func New(ctx context.Context, store ports.RemoteStore, kv ports.KV, log *logger.Logger) (*Backend, error) {
	b := &Backend{
		store: store,
		kv:    kv,
		log:   log.WithComponent("remotestore"),
		cols:  state.Empty(),
		subs:  make(map[int]chan state.Collections),
	}

	if raw, ok, err := kv.Get(ctx, localstore.KeyTodos); err != nil {
		b.log.WithError(err).Warn("failed to restore todos")
	} else if ok {
		if err := json.Unmarshal(raw, &b.cols.Todos); err != nil {
			b.log.WithError(err).Warn("corrupt stored todos, using empty default")
			b.cols.Todos = nil
		}
	}
	b.cols = b.cols.Normalize()

	if raw, ok, err := kv.Get(ctx, localstore.KeyUser); err != nil {
		b.log.WithError(err).Warn("failed to restore active identity")
	} else if ok && len(raw) > 0 {
		b.identity = entities.Identity(raw)
		b.loggedIn = true
		b.openFeeds()
	}

	return b, nil
}

// Login implements ports.Backend. Activating an identity opens one
// subscription per shared collection.
func (b *Backend) Login(ctx context.Context, id entities.Identity) error {
	if !id.Valid() {
		return entities.ErrUnknownIdentity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn && b.identity == id {
		return nil
	}
	if b.loggedIn {
		b.teardownFeedsLocked()
	}

	b.identity = id
	b.loggedIn = true
	if err := b.kv.Set(ctx, localstore.KeyUser, []byte(id)); err != nil {
		b.log.WithError(err).Warn("failed to persist active identity")
	}
	b.openFeeds()
	b.log.Infow("identity activated, subscriptions open", "identity", id)
	return nil
}

// Logout implements ports.Backend. All open subscriptions are torn down; no
// delivery can land after this returns.
func (b *Backend) Logout(ctx context.Context) error {
	b.mu.Lock()
	b.teardownFeedsLocked()
	b.identity = ""
	b.loggedIn = false
	if err := b.kv.Delete(ctx, localstore.KeyUser); err != nil {
		b.log.WithError(err).Warn("failed to clear persisted identity")
	}
	// shared collections are no longer canonical without a feed
	b.cols.Goals = state.Empty().Goals
	b.cols.Messages = []entities.Message{}
	b.cols.Rewards = []entities.Reward{}
	b.mu.Unlock()

	b.feeds.Wait()
	return nil
}

// ActiveIdentity implements ports.Backend.
func (b *Backend) ActiveIdentity() (entities.Identity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.identity, b.loggedIn
}

// teardownFeedsLocked cancels the listener contexts and bumps the generation
// so any delivery already in flight becomes stale and gets dropped.
func (b *Backend) teardownFeedsLocked() {
	b.gen++
	if b.cancelFeeds != nil {
		b.cancelFeeds()
		b.cancelFeeds = nil
	}
}

// openFeeds starts one listener goroutine per shared collection. Caller
// holds b.mu.
func (b *Backend) openFeeds() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancelFeeds = cancel
	gen := b.gen

	for _, kind := range []string{ports.RemoteGoals, ports.RemoteMessages, ports.RemoteRewards} {
		kind := kind
		col := b.store.Collection(kind)
		b.feeds.Add(1)
		go func() {
			defer b.feeds.Done()
			err := col.Listen(ctx, func(docs []ports.RemoteDoc) {
				b.applyRemote(gen, kind, docs)
			})
			if err != nil && ctx.Err() == nil {
				// stream died; state stays as-is until the next login
				b.log.WithError(err).Errorw("change feed stopped", "collection", kind)
			}
		}()
	}
}

// applyRemote replaces one collection with a freshly delivered snapshot.
// Replacement is atomic and wholesale, so an identically repeated delivery
// can never duplicate records.
func (b *Backend) applyRemote(gen int, kind string, docs []ports.RemoteDoc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen || b.closed {
		return
	}

	switch kind {
	case ports.RemoteGoals:
		goals := state.Empty().Goals
		for _, doc := range docs {
			var g entities.Goal
			if err := doc.DataTo(&g); err != nil {
				b.log.WithError(err).Warnw("skipping undecodable goal", "id", doc.ID())
				continue
			}
			if g.ID == "" {
				g.ID = doc.ID()
			}
			if !g.Owner.Valid() {
				b.log.Warnw("skipping goal with unknown owner", "id", g.ID)
				continue
			}
			if g.Subgoals == nil {
				g.Subgoals = []entities.Subgoal{}
			}
			goals[g.Owner] = append(goals[g.Owner], g)
		}
		b.cols.Goals = goals

	case ports.RemoteMessages:
		msgs := make([]entities.Message, 0, len(docs))
		for _, doc := range docs {
			var m entities.Message
			if err := doc.DataTo(&m); err != nil {
				b.log.WithError(err).Warnw("skipping undecodable message", "id", doc.ID())
				continue
			}
			if m.ID == "" {
				m.ID = doc.ID()
			}
			msgs = append(msgs, m)
		}
		b.cols.Messages = msgs

	case ports.RemoteRewards:
		rewards := make([]entities.Reward, 0, len(docs))
		for _, doc := range docs {
			var r entities.Reward
			if err := doc.DataTo(&r); err != nil {
				b.log.WithError(err).Warnw("skipping undecodable reward", "id", doc.ID())
				continue
			}
			if r.ID == "" {
				r.ID = doc.ID()
			}
			rewards = append(rewards, r)
		}
		b.cols.Rewards = rewards
	}

	b.publish(b.cols)
}

// activeIdentity returns the identity for a mutation, or ErrNotLoggedIn.
func (b *Backend) activeIdentity() (entities.Identity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.loggedIn {
		return "", entities.ErrNotLoggedIn
	}
	return b.identity, nil
}

// write issues one remote command. Failures are logged and absorbed: the
// next snapshot simply arrives without the change and the caller retries by
// repeating the action.
func (b *Backend) write(op string, fn func() error) error {
	if err := fn(); err != nil {
		b.log.WithError(err).Warnw("remote write failed, state unchanged", "op", op)
	}
	return nil
}

// AddGoal implements ports.Backend. The new goal becomes visible only once
// the goals feed delivers a snapshot containing it.
func (b *Backend) AddGoal(ctx context.Context, text string, target int) error {
	owner, err := b.activeIdentity()
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" || target <= 0 {
		return nil
	}

	goal := entities.Goal{
		ID:       uuid.NewString(),
		Text:     text,
		Target:   target,
		Owner:    owner,
		Subgoals: []entities.Subgoal{},
	}
	return b.write("add_goal", func() error {
		return b.store.Collection(ports.RemoteGoals).Create(ctx, goal.ID, goal)
	})
}

// ownedGoal looks up a goal in the active identity's partition.
func (b *Backend) ownedGoal(owner entities.Identity, id string) (entities.Goal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, g := range b.cols.Goals[owner] {
		if g.ID == id {
			return g, true
		}
	}
	return entities.Goal{}, false
}

// UpdateGoalProgress implements ports.Backend. The clamp happens against the
// last observed snapshot; the server value is the one that sticks.
func (b *Backend) UpdateGoalProgress(ctx context.Context, id string, delta int) error {
	owner, err := b.activeIdentity()
	if err != nil {
		return err
	}
	g, ok := b.ownedGoal(owner, id)
	if !ok {
		return nil
	}

	current := g.Current + delta
	if current < 0 {
		current = 0
	}
	if current > g.Target {
		current = g.Target
	}
	return b.write("update_goal_progress", func() error {
		return b.store.Collection(ports.RemoteGoals).Update(ctx, id, map[string]interface{}{
			"current": current,
		})
	})
}

// DeleteGoal implements ports.Backend. Unlike the local variant, ownership
// is enforced here: only the owner's delete command goes out.
func (b *Backend) DeleteGoal(ctx context.Context, id string) error {
	owner, err := b.activeIdentity()
	if err != nil {
		return err
	}
	if _, ok := b.ownedGoal(owner, id); !ok {
		b.log.Debugw("delete refused, goal not owned by active identity", "id", id)
		return nil
	}
	return b.write("delete_goal", func() error {
		return b.store.Collection(ports.RemoteGoals).Delete(ctx, id)
	})
}

// AddSubgoal implements ports.Backend.
func (b *Backend) AddSubgoal(ctx context.Context, goalID, text, description string) error {
	owner, err := b.activeIdentity()
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	g, ok := b.ownedGoal(owner, goalID)
	if !ok {
		return nil
	}

	subs := append(append([]entities.Subgoal{}, g.Subgoals...), entities.Subgoal{
		ID:          uuid.NewString(),
		Text:        text,
		Description: description,
	})
	return b.writeSubgoals(ctx, goalID, subs)
}

// ToggleSubgoal implements ports.Backend.
func (b *Backend) ToggleSubgoal(ctx context.Context, goalID, subgoalID string) error {
	owner, err := b.activeIdentity()
	if err != nil {
		return err
	}
	g, ok := b.ownedGoal(owner, goalID)
	if !ok {
		return nil
	}

	subs := append([]entities.Subgoal{}, g.Subgoals...)
	found := false
	for i := range subs {
		if subs[i].ID == subgoalID {
			subs[i].Completed = !subs[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	return b.writeSubgoals(ctx, goalID, subs)
}

// DeleteSubgoal implements ports.Backend.
func (b *Backend) DeleteSubgoal(ctx context.Context, goalID, subgoalID string) error {
	owner, err := b.activeIdentity()
	if err != nil {
		return err
	}
	g, ok := b.ownedGoal(owner, goalID)
	if !ok {
		return nil
	}

	subs := make([]entities.Subgoal, 0, len(g.Subgoals))
	found := false
	for _, s := range g.Subgoals {
		if s.ID == subgoalID {
			found = true
			continue
		}
		subs = append(subs, s)
	}
	if !found {
		return nil
	}
	return b.writeSubgoals(ctx, goalID, subs)
}

func (b *Backend) writeSubgoals(ctx context.Context, goalID string, subs []entities.Subgoal) error {
	return b.write("write_subgoals", func() error {
		return b.store.Collection(ports.RemoteGoals).Update(ctx, goalID, map[string]interface{}{
			"subgoals": subs,
		})
	})
}

// applyLocal runs a todo mutation against the on-device slice of the state,
// mirroring the local variant's write-through behavior for this collection.
func (b *Backend) applyLocal(ctx context.Context, op string, fn func(state.Collections, entities.Identity) (state.Collections, bool)) error {
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

	if data, err := json.Marshal(next.Todos); err != nil {
		b.log.WithError(err).Warnw("failed to serialize todos", "op", op)
	} else if err := b.kv.Set(ctx, localstore.KeyTodos, data); err != nil {
		b.log.WithError(err).Warnw("failed to persist todos", "op", op)
	}

	b.cols = next
	b.publish(next)
	return nil
}

// AddTodo implements ports.Backend. Todos are local-only in this variant.
func (b *Backend) AddTodo(ctx context.Context, text string) error {
	id := uuid.NewString()
	return b.applyLocal(ctx, "add_todo", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.AddTodo(c, owner, id, text)
	})
}

// ToggleTodo implements ports.Backend.
func (b *Backend) ToggleTodo(ctx context.Context, id string) error {
	return b.applyLocal(ctx, "toggle_todo", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.ToggleTodo(c, owner, id)
	})
}

// DeleteTodo implements ports.Backend.
func (b *Backend) DeleteTodo(ctx context.Context, id string) error {
	return b.applyLocal(ctx, "delete_todo", func(c state.Collections, owner entities.Identity) (state.Collections, bool) {
		return state.DeleteTodo(c, owner, id)
	})
}

// AddReward implements ports.Backend.
func (b *Backend) AddReward(ctx context.Context, text string) error {
	from, err := b.activeIdentity()
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	reward := entities.Reward{
		ID:   uuid.NewString(),
		From: from,
		To:   from.Other(),
		Text: text,
	}
	return b.write("add_reward", func() error {
		return b.store.Collection(ports.RemoteRewards).Create(ctx, reward.ID, reward)
	})
}

// ToggleReward implements ports.Backend. Claiming stays unrestricted: any
// active identity may flip any reward.
func (b *Backend) ToggleReward(ctx context.Context, id string) error {
	if _, err := b.activeIdentity(); err != nil {
		return err
	}

	b.mu.RLock()
	r, ok := b.cols.RewardByID(id)
	b.mu.RUnlock()
	if !ok {
		return nil
	}

	return b.write("toggle_reward", func() error {
		return b.store.Collection(ports.RemoteRewards).Update(ctx, id, map[string]interface{}{
			"claimed": !r.Claimed,
		})
	})
}

// SendMessage implements ports.Backend.
func (b *Backend) SendMessage(ctx context.Context, text string) error {
	from, err := b.activeIdentity()
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	msg := entities.Message{ID: uuid.NewString(), From: from, Text: text}
	return b.write("send_message", func() error {
		return b.store.Collection(ports.RemoteMessages).Create(ctx, msg.ID, msg)
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

// publish mirrors the local variant: buffered channel of one, latest wins.
// Callers hold b.mu.
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
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.teardownFeedsLocked()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()

	b.feeds.Wait()
	if err := b.kv.Close(); err != nil {
		return err
	}
	return b.store.Close()
}

var _ ports.Backend = (*Backend)(nil)
