package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/recipe-social/config"
	"github.com/d60-Lab/recipe-social/internal/model"
)

func TestInitDBSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"}}

	db, err := InitDB(cfg)
	require.NoError(t, err)

	for _, m := range []any{&model.User{}, &model.Follow{}, &model.FollowRequest{}, &model.Block{},
		&model.Mute{}, &model.Notification{}, &model.FeedPreference{}, &model.Recipe{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&model.Follow{}, "idx_follow_pair"))
}

func TestDeleteUserCascades(t *testing.T) {
	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	alice := model.User{ID: "u-alice", Email: "alice@example.com", Name: "alice"}
	bob := model.User{ID: "u-bob", Email: "bob@example.com", Name: "bob"}
	require.NoError(t, db.Create(&[]model.User{alice, bob}).Error)

	rec := model.Recipe{ID: "r-1", AuthorID: alice.ID, Title: "Soup", IsPublished: true}
	require.NoError(t, db.Create(&rec).Error)
	require.NoError(t, db.Create(&model.Rating{ID: "rt-1", UserID: bob.ID, RecipeID: rec.ID, Score: 4}).Error)
	require.NoError(t, db.Create(&model.Favorite{ID: "fv-1", UserID: bob.ID, RecipeID: rec.ID}).Error)
	require.NoError(t, db.Create(&model.Follow{ID: "f-1", FollowerID: alice.ID, FollowingID: bob.ID}).Error)
	require.NoError(t, db.Create(&model.FollowRequest{ID: "fr-1", RequesterID: alice.ID, TargetID: bob.ID,
		Status: model.FollowRequestPending}).Error)
	require.NoError(t, db.Create(&model.Block{ID: "b-1", UserID: alice.ID, BlockedUserID: bob.ID}).Error)
	require.NoError(t, db.Create(&model.Mute{ID: "m-1", UserID: alice.ID, MutedUserID: bob.ID}).Error)
	require.NoError(t, db.Create(&model.Notification{ID: "n-1", RecipientID: alice.ID, Verb: model.VerbBadgeAwarded}).Error)
	require.NoError(t, db.Create(&model.FeedPreference{UserID: alice.ID, ShowRecipes: true,
		FeedOrder: model.FeedOrderChronological, UpdatedAt: time.Now().UTC()}).Error)

	require.NoError(t, db.Delete(&model.User{}, "id = ?", alice.ID).Error)

	for _, m := range []any{&model.Recipe{}, &model.Rating{}, &model.Favorite{}, &model.Follow{},
		&model.FollowRequest{}, &model.Block{}, &model.Mute{}, &model.Notification{}, &model.FeedPreference{}} {
		var cnt int64
		require.NoError(t, db.Model(m).Count(&cnt).Error)
		assert.Zero(t, cnt, "%T", m)
	}
	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel(""))
}
