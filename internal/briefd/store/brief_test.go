package store

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thrust-io/briefd/internal/model"
)

func newTestFactory(t *testing.T) Factory {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory := NewFactory(db)
	require.NoError(t, factory.AutoMigrate())
	return factory
}

func TestBriefCreateAndGet(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	brief := &model.Brief{
		ID:        "01JBRIEF0000000000000000A1",
		UserID:    "u1",
		ProjectID: "p1",
		Title:     "q3-earnings.pdf",
		Status:    model.StatusProcessing,
	}
	require.NoError(t, factory.Briefs().Create(ctx, brief))

	got, err := factory.Briefs().Get(ctx, brief.ID)
	require.NoError(t, err)
	assert.Equal(t, "q3-earnings.pdf", got.Title)
	assert.Equal(t, model.StatusProcessing, got.Status)

	_, err = factory.Briefs().Get(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBriefUpdate(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	brief := &model.Brief{ID: "b1", UserID: "u1", Status: model.StatusProcessing}
	require.NoError(t, factory.Briefs().Create(ctx, brief))

	updated, err := factory.Briefs().Update(ctx, "b1", map[string]any{
		"status":  model.StatusDone,
		"summary": "## Overview\n- point",
	})
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := factory.Briefs().Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, got.Status)
	assert.Equal(t, "## Overview\n- point", got.Summary)

	updated, err = factory.Briefs().Update(ctx, "missing", map[string]any{"status": model.StatusDone})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestBriefListByUserOrder(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, factory.Briefs().Create(ctx, &model.Brief{
			ID:        id,
			UserID:    "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, factory.Briefs().Create(ctx, &model.Brief{ID: "other", UserID: "u2"}))

	got, err := factory.Briefs().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "b3", got[0].ID)
	assert.Equal(t, "b1", got[2].ID)
}

func TestBriefGetByIDs(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	require.NoError(t, factory.Briefs().Create(ctx, &model.Brief{ID: "b1", UserID: "u1"}))
	require.NoError(t, factory.Briefs().Create(ctx, &model.Brief{ID: "b2", UserID: "u1"}))

	got, err := factory.Briefs().GetByIDs(ctx, []string{"b1", "b2", "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = factory.Briefs().GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProjectTitlesByIDs(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	db := factory.(*datastore).db
	require.NoError(t, db.Create(&model.Project{ID: "p1", Title: "Acme Diligence"}).Error)
	require.NoError(t, db.Create(&model.Project{ID: "p2", Title: "Market Entry"}).Error)

	titles, err := factory.Projects().TitlesByIDs(ctx, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": "Acme Diligence", "p2": "Market Entry"}, titles)
}

func TestChatAppendAndList(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	turns := []*model.ChatTurn{
		{ProjectID: "p1", UserID: "u1", Role: model.RoleUser, Content: "What drove margin?", CreatedAt: base},
		{ProjectID: "p1", UserID: "u1", Role: model.RoleAssistant, Content: "Mix shift.", CreatedAt: base.Add(time.Minute)},
		{ProjectID: "p2", UserID: "u1", Role: model.RoleUser, Content: "other project", CreatedAt: base},
	}
	for _, turn := range turns {
		require.NoError(t, factory.Chats().Append(ctx, turn))
	}

	got, err := factory.Chats().ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.RoleUser, got[0].Role)
	assert.Equal(t, model.RoleAssistant, got[1].Role)
}

func TestTxRollback(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	err := factory.Tx(ctx, func(tx Factory) error {
		if err := tx.Briefs().Create(ctx, &model.Brief{ID: "b1", UserID: "u1"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = factory.Briefs().Get(ctx, "b1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
