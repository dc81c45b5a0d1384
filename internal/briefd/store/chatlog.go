package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/thrust-io/briefd/internal/model"
)

type chats struct {
	db *gorm.DB
}

func newChats(db *gorm.DB) *chats {
	return &chats{db}
}

// Append records one conversation turn.
func (c *chats) Append(ctx context.Context, turn *model.ChatTurn) error {
	return c.db.WithContext(ctx).Create(turn).Error
}

// ListByProject lists a project's conversation turns, oldest first.
func (c *chats) ListByProject(ctx context.Context, projectID string) ([]*model.ChatTurn, error) {
	var out []*model.ChatTurn
	err := c.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
