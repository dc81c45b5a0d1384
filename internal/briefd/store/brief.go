package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/thrust-io/briefd/internal/model"
)

type briefs struct {
	db *gorm.DB
}

func newBriefs(db *gorm.DB) *briefs {
	return &briefs{db}
}

// Create creates a new brief.
func (b *briefs) Create(ctx context.Context, brief *model.Brief) error {
	return b.db.WithContext(ctx).Create(brief).Error
}

// Get retrieves a brief by ID.
func (b *briefs) Get(ctx context.Context, id string) (*model.Brief, error) {
	var brief model.Brief
	if err := b.db.WithContext(ctx).Where("id = ?", id).First(&brief).Error; err != nil {
		return nil, err
	}
	return &brief, nil
}

// Update applies field values to the brief with the given ID.
func (b *briefs) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	result := b.db.WithContext(ctx).Model(&model.Brief{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUser lists a user's briefs, newest first.
func (b *briefs) ListByUser(ctx context.Context, userID string) ([]*model.Brief, error) {
	var out []*model.Brief
	err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDs retrieves briefs by ID. Missing IDs are silently skipped.
func (b *briefs) GetByIDs(ctx context.Context, ids []string) ([]*model.Brief, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []*model.Brief
	if err := b.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
