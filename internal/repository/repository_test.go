package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/pkg/database"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db)
}

func addUser(t *testing.T, s *Store, name string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.New().String(), Email: name + "@example.com", Name: name}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func TestFollowCreateIsIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b := addUser(t, s, "alice"), addUser(t, s, "bob")

	f, created, err := s.Follows.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, f.ID)

	_, created, err = s.Follows.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.Follows.GetOrCreate(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	cnt, err := s.Follows.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestFollowListsPreloadUsers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b, c := addUser(t, s, "alice"), addUser(t, s, "bob"), addUser(t, s, "carol")
	_, _, _ = s.Follows.Create(ctx, a.ID, c.ID)
	_, _, _ = s.Follows.Create(ctx, b.ID, c.ID)

	followers, err := s.Follows.ListFollowers(ctx, c.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	for _, f := range followers {
		require.NotNil(t, f.Follower)
	}

	ids, err := s.Follows.FollowerIDs(ctx, c.ID, 0, 1)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	following, err := s.Follows.ListFollowings(ctx, a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].Following.Name)
}

func TestFollowedByExcludes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b, c, d := addUser(t, s, "a"), addUser(t, s, "b"), addUser(t, s, "c"), addUser(t, s, "d")
	_, _, _ = s.Follows.Create(ctx, a.ID, b.ID)
	_, _, _ = s.Follows.Create(ctx, b.ID, c.ID)
	_, _, _ = s.Follows.Create(ctx, b.ID, d.ID)
	_, _, _ = s.Follows.Create(ctx, b.ID, a.ID)

	ids, err := s.Follows.FollowedBy(ctx, []string{b.ID}, []string{a.ID, b.ID, d.ID}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids)

	ids, err = s.Follows.FollowedBy(ctx, nil, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRequestTransitionOnlyFromPending(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b := addUser(t, s, "alice"), addUser(t, s, "bob")

	req, created, err := s.Requests.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, created)

	// 只有目标用户可以处理
	ok, err := s.Requests.Transition(ctx, req.ID, a.ID, model.FollowRequestApproved)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Requests.Transition(ctx, req.ID, b.ID, model.FollowRequestRejected)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Requests.Transition(ctx, req.ID, b.ID, model.FollowRequestApproved)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Requests.FindPending(ctx, req.ID, b.ID)
	assert.True(t, IsNotFound(err))

	stored, err := s.Requests.Get(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, s.Requests.ResetPending(ctx, stored))
	pending, err := s.Requests.ListPending(ctx, b.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)
}

func TestBlockRelatedIDsBothDirections(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b, c := addUser(t, s, "a"), addUser(t, s, "b"), addUser(t, s, "c")

	first, err := s.Blocks.GetOrCreate(ctx, a.ID, b.ID)
	require.NoError(t, err)
	again, err := s.Blocks.GetOrCreate(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	_, err = s.Blocks.GetOrCreate(ctx, c.ID, a.ID)
	require.NoError(t, err)

	ids, err := s.Blocks.RelatedIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{b.ID, c.ID}, ids)

	ok, err := s.Blocks.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserSearchTreatsWildcardsLiterally(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	addUser(t, s, "chef_anna")
	addUser(t, s, "chefxanna")
	addUser(t, s, "Bob")

	res, err := s.Users.Search(ctx, "F_A", nil, 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "chef_anna", res[0].Name)

	res, err = s.Users.Search(ctx, "100%", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestUserPopularOrdersByFollowers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b, c := addUser(t, s, "a"), addUser(t, s, "b"), addUser(t, s, "c")
	_, _, _ = s.Follows.Create(ctx, a.ID, c.ID)
	_, _, _ = s.Follows.Create(ctx, b.ID, c.ID)
	_, _, _ = s.Follows.Create(ctx, a.ID, b.ID)

	res, err := s.Users.Popular(ctx, []string{a.ID}, 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, c.ID, res[0].ID)
	assert.EqualValues(t, 2, res[0].FollowerCount)
	assert.Equal(t, b.ID, res[1].ID)
}

func TestUpsertRatingOverwrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	author, rater := addUser(t, s, "author"), addUser(t, s, "rater")
	rec := &model.Recipe{AuthorID: author.ID, Title: "Soup", IsPublished: true}
	require.NoError(t, s.Activities.CreateRecipe(ctx, rec))

	first, err := s.Activities.UpsertRating(ctx, rater.ID, rec.ID, 3, "ok")
	require.NoError(t, err)
	second, err := s.Activities.UpsertRating(ctx, rater.ID, rec.ID, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Score)
	assert.Equal(t, "great", second.Review)

	_, created, err := s.Activities.GetOrCreateFavorite(ctx, rater.ID, rec.ID)
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = s.Activities.GetOrCreateFavorite(ctx, rater.ID, rec.ID)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestNotificationMarkReadScopedToRecipient(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b := addUser(t, s, "a"), addUser(t, s, "b")
	batch := []*model.Notification{
		{ID: uuid.New().String(), RecipientID: a.ID, Verb: model.VerbFollowed},
		{ID: uuid.New().String(), RecipientID: a.ID, Verb: model.VerbRated},
	}
	require.NoError(t, s.Notifications.CreateBatch(ctx, batch, 1))
	require.NoError(t, s.Notifications.CreateBatch(ctx, nil, 10))

	n, err := s.Notifications.MarkRead(ctx, batch[0].ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Notifications.MarkRead(ctx, batch[0].ID, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	cnt, err := s.Notifications.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	n, err = s.Notifications.MarkAllRead(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestTransactionRollsBackEveryWrite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b := addUser(t, s, "alice"), addUser(t, s, "bob")
	req, _, err := s.Requests.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Transaction(ctx, func(tx *Store) error {
		ok, err := tx.Requests.Transition(ctx, req.ID, b.ID, model.FollowRequestApproved)
		require.NoError(t, err)
		require.True(t, ok)
		if _, err := tx.Follows.GetOrCreate(ctx, a.ID, b.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := s.Requests.Get(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FollowRequestPending, stored.Status)
	exists, err := s.Follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestResetPendingUsesDatabaseClock(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b := addUser(t, s, "alice"), addUser(t, s, "bob")
	req, _, err := s.Requests.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Requests.Transition(ctx, req.ID, b.ID, model.FollowRequestRejected)
	require.NoError(t, err)

	stored, err := s.Requests.Get(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, s.Requests.ResetPending(ctx, stored))
	assert.Equal(t, time.UTC, stored.CreatedAt.Location())
	assert.Equal(t, model.FollowRequestPending, stored.Status)
}

func TestPopularKeepsZeroFollowerCount(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	addUser(t, s, "lonely")

	res, err := s.Users.Popular(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	payload, err := json.Marshal(res[0])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"follower_count":0`)
}
