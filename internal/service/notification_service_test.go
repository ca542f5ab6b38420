package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recipe-social/internal/model"
)

func TestNotificationLifecycle(t *testing.T) {
	store := newTestStore(t)
	svc := NewNotificationService(store)
	ctx := context.Background()
	a := createUser(t, store, "alice", false)
	b := createUser(t, store, "bob", false)

	n1, err := svc.Create(ctx, NotificationInput{RecipientID: a.ID, Verb: model.VerbFollowed, ActorID: b.ID,
		TargetType: model.TargetTypeUser, TargetID: b.ID})
	require.NoError(t, err)
	assert.False(t, n1.IsRead)
	_, err = svc.Create(ctx, NotificationInput{RecipientID: a.ID, Verb: model.VerbBadgeAwarded})
	require.NoError(t, err)

	cnt, err := svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	page, err := svc.List(ctx, a.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, n := range page.Items {
		if n.ID == n1.ID {
			require.NotNil(t, n.Actor)
			assert.Equal(t, b.ID, n.Actor.ID)
		} else {
			assert.Nil(t, n.ActorID)
		}
	}

	// 不是自己的通知按不存在处理
	_, err = svc.MarkRead(ctx, b.ID, n1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	read, err := svc.MarkRead(ctx, a.ID, n1.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	cnt, err = svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	updated, err := svc.MarkAllRead(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	cnt, err = svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)

	others, err := svc.List(ctx, b.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, others.Items)
}

func TestNotificationRequiresActor(t *testing.T) {
	store := newTestStore(t)
	svc := NewNotificationService(store)
	ctx := context.Background()

	_, err := svc.List(ctx, "", 1, 20)
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = svc.UnreadCount(ctx, "")
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestDirectNotifierPersists(t *testing.T) {
	store := newTestStore(t)
	notifier := NewDirectNotifier(store)
	social := NewSocialGraphService(store, notifier)
	ctx := context.Background()
	a := createUser(t, store, "alice", false)
	b := createUser(t, store, "bob", false)

	_, err := social.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)

	list, err := store.Notifications.List(ctx, b.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.VerbFollowed, list[0].Verb)
	require.NotNil(t, list[0].ActorID)
	assert.Equal(t, a.ID, *list[0].ActorID)
}
