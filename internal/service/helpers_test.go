package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
	"github.com/d60-Lab/recipe-social/pkg/database"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

func createUser(t *testing.T, store *repository.Store, name string, private bool) *model.User {
	t.Helper()
	u := &model.User{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(name) + "@example.com",
		Name:      name,
		IsPrivate: private,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

// recordingNotifier 同步记录通知事件
type recordingNotifier struct {
	mu        sync.Mutex
	events    []NotificationInput
	announced []string
}

func (n *recordingNotifier) Notify(in NotificationInput) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, in)
}

func (n *recordingNotifier) Announce(authorID, recipeID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.announced = append(n.announced, recipeID)
}

func (n *recordingNotifier) verbs() []model.Verb {
	n.mu.Lock()
	defer n.mu.Unlock()
	res := make([]model.Verb, 0, len(n.events))
	for _, e := range n.events {
		res = append(res, e.Verb)
	}
	return res
}
