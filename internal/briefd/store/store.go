// Package store implements relational and vector persistence for briefs.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/thrust-io/briefd/internal/model"
)

// Factory defines the factory interface for creating stores.
type Factory interface {
	Briefs() BriefStore
	Projects() ProjectStore
	Chats() ChatStore
	// Tx runs fn inside a database transaction; the Factory passed to fn is
	// bound to that transaction.
	Tx(ctx context.Context, fn func(Factory) error) error
	AutoMigrate() error
	Close() error
}

// BriefStore defines the brief storage interface.
type BriefStore interface {
	Create(ctx context.Context, brief *model.Brief) error
	Get(ctx context.Context, id string) (*model.Brief, error)
	// Update applies the given column values to the brief with the given id
	// and reports whether a row was changed.
	Update(ctx context.Context, id string, fields map[string]any) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Brief, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Brief, error)
}

// ProjectStore defines read access to projects.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*model.Project, error)
	// TitlesByIDs returns a map from project ID to title for the given IDs.
	TitlesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// ChatStore defines the Q&A conversation log interface.
type ChatStore interface {
	Append(ctx context.Context, turn *model.ChatTurn) error
	ListByProject(ctx context.Context, projectID string) ([]*model.ChatTurn, error)
}

// datastore implements the Factory interface.
type datastore struct {
	db *gorm.DB
}

// NewFactory creates a storage factory backed by the given database handle.
func NewFactory(db *gorm.DB) Factory {
	return &datastore{db: db}
}

// Briefs returns the brief store.
func (ds *datastore) Briefs() BriefStore {
	return newBriefs(ds.db)
}

// Projects returns the project store.
func (ds *datastore) Projects() ProjectStore {
	return newProjects(ds.db)
}

// Chats returns the conversation log store.
func (ds *datastore) Chats() ChatStore {
	return newChats(ds.db)
}

// Tx runs fn inside a transaction.
func (ds *datastore) Tx(ctx context.Context, fn func(Factory) error) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&datastore{db: tx})
	})
}

// AutoMigrate migrates the database schema.
func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(
		&model.Brief{},
		&model.Project{},
		&model.ChatTurn{},
	)
}

// Close closes the factory and underlying connections.
func (ds *datastore) Close() error {
	return nil
}
