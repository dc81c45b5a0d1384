package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/thrust-io/briefd/internal/model"
)

type projects struct {
	db *gorm.DB
}

func newProjects(db *gorm.DB) *projects {
	return &projects{db}
}

// Get retrieves a project by ID.
func (p *projects) Get(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// TitlesByIDs returns project titles keyed by ID. Unknown IDs are omitted.
func (p *projects) TitlesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	var rows []*model.Project
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}
