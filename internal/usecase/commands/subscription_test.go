//go:build unit

package commands_test

import (
	"context"
	"testing"

	"librarium/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("records the subscription", func(t *testing.T) {
		store := newFakeStore()
		copyID := store.addCopy("on_loan")
		actor := memberActor()
		store.contacts[actor.ID] = "reader@example.com"

		subs := commands.NewSubscriptionCommands(&fakeUoW{store: store})
		require.NoError(t, subs.Subscribe(ctx, actor, copyID))

		_, ok := store.subscribers[copyID][actor.ID]
		assert.True(t, ok)
	})

	t.Run("duplicate subscription rejected", func(t *testing.T) {
		store := newFakeStore()
		copyID := store.addCopy("on_loan")
		actor := memberActor()
		store.contacts[actor.ID] = "reader@example.com"

		subs := commands.NewSubscriptionCommands(&fakeUoW{store: store})
		require.NoError(t, subs.Subscribe(ctx, actor, copyID))

		err := subs.Subscribe(ctx, actor, copyID)
		require.ErrorIs(t, err, commands.ErrValidation)
		assert.ErrorIs(t, err, commands.ErrAlreadySubscribed)
	})

	t.Run("missing contact address rejected", func(t *testing.T) {
		store := newFakeStore()
		copyID := store.addCopy("on_loan")
		actor := memberActor()

		subs := commands.NewSubscriptionCommands(&fakeUoW{store: store})
		err := subs.Subscribe(ctx, actor, copyID)
		require.ErrorIs(t, err, commands.ErrValidation)
		assert.ErrorIs(t, err, commands.ErrNoContactAddress)
	})

	t.Run("unknown copy", func(t *testing.T) {
		store := newFakeStore()
		actor := memberActor()
		store.contacts[actor.ID] = "reader@example.com"

		subs := commands.NewSubscriptionCommands(&fakeUoW{store: store})
		err := subs.Subscribe(ctx, actor, uuid.New())
		require.ErrorIs(t, err, commands.ErrCopyNotFound)
	})
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the subscription", func(t *testing.T) {
		store := newFakeStore()
		copyID := store.addCopy("on_loan")
		actor := memberActor()
		store.subscribe(copyID, actor.ID, "reader@example.com")

		subs := commands.NewSubscriptionCommands(&fakeUoW{store: store})
		require.NoError(t, subs.Unsubscribe(ctx, actor, copyID))

		_, ok := store.subscribers[copyID][actor.ID]
		assert.False(t, ok)
	})

	t.Run("absent subscription rejected", func(t *testing.T) {
		store := newFakeStore()
		copyID := store.addCopy("on_loan")

		subs := commands.NewSubscriptionCommands(&fakeUoW{store: store})
		err := subs.Unsubscribe(ctx, memberActor(), copyID)
		require.ErrorIs(t, err, commands.ErrValidation)
		assert.ErrorIs(t, err, commands.ErrNotSubscribed)
	})
}
