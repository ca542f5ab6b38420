package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recipe-social/internal/model"
)

func TestPublishRecipeAnnouncesOnlyPublished(t *testing.T) {
	store := newTestStore(t)
	notifier := &recordingNotifier{}
	svc := NewActivityService(store, notifier)
	ctx := context.Background()
	a := createUser(t, store, "cook", false)

	draft, err := svc.PublishRecipe(ctx, a.ID, RecipeInput{Title: "Draft"})
	require.NoError(t, err)
	assert.False(t, draft.IsPublished)

	pub, err := svc.PublishRecipe(ctx, a.ID, RecipeInput{Title: "  Soup ", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, "Soup", pub.Title)
	assert.Equal(t, []string{pub.ID}, notifier.announced)

	_, err = svc.PublishRecipe(ctx, a.ID, RecipeInput{Title: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRateUpsertsAndNotifies(t *testing.T) {
	store := newTestStore(t)
	notifier := &recordingNotifier{}
	svc := NewActivityService(store, notifier)
	ctx := context.Background()
	cook := createUser(t, store, "cook", false)
	fan := createUser(t, store, "fan", false)
	rec, err := svc.PublishRecipe(ctx, cook.ID, RecipeInput{Title: "Soup", IsPublished: true})
	require.NoError(t, err)

	r1, err := svc.Rate(ctx, fan.ID, rec.ID, 3, "ok")
	require.NoError(t, err)
	r2, err := svc.Rate(ctx, fan.ID, rec.ID, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, r1.ID, r2.ID)
	assert.Equal(t, 5, r2.Score)
	assert.Equal(t, "great", r2.Review)

	// 给自己的菜谱评分不通知
	_, err = svc.Rate(ctx, cook.ID, rec.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, []model.Verb{model.VerbRated, model.VerbRated}, notifier.verbs())

	_, err = svc.Rate(ctx, fan.ID, rec.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Rate(ctx, fan.ID, "missing", 3, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoriteIdempotent(t *testing.T) {
	store := newTestStore(t)
	notifier := &recordingNotifier{}
	svc := NewActivityService(store, notifier)
	ctx := context.Background()
	cook := createUser(t, store, "cook", false)
	fan := createUser(t, store, "fan", false)
	rec, err := svc.PublishRecipe(ctx, cook.ID, RecipeInput{Title: "Soup", IsPublished: true})
	require.NoError(t, err)

	f1, err := svc.Favorite(ctx, fan.ID, rec.ID)
	require.NoError(t, err)
	f2, err := svc.Favorite(ctx, fan.ID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, f1.ID, f2.ID)
	assert.Equal(t, []model.Verb{model.VerbFavorited}, notifier.verbs())

	require.NoError(t, svc.Unfavorite(ctx, fan.ID, rec.ID))
	require.NoError(t, svc.Unfavorite(ctx, fan.ID, rec.ID))

	_, err = svc.Favorite(ctx, fan.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
