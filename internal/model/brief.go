// Package model provides data models for the briefd platform.
package model

import (
	"time"
)

// Brief status values. A brief moves uploaded -> processing -> done (or
// failed); "edit" marks revisions produced by the conversational editor.
const (
	StatusUploaded   = "uploaded"
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
	StatusEdit       = "edit"
)

// Brief is the central artifact: a summarized document (or prompt) with its
// executive summary, optional slide bullets and an embedding in the vector
// store. Edit revisions are Briefs pointing at their parent via ParentID.
type Brief struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(32)"`
	UserID           string    `json:"user_id" gorm:"type:varchar(64);index;not null"`
	ProjectID        string    `json:"project_id" gorm:"type:varchar(64);index"`
	Title            string    `json:"title" gorm:"type:varchar(255)"`
	Filename         string    `json:"filename" gorm:"type:varchar(255)"`
	FileURL          string    `json:"file_url" gorm:"type:varchar(1024)"`
	Prompt           string    `json:"prompt" gorm:"type:text"`
	Status           string    `json:"status" gorm:"type:varchar(32);default:'uploaded'"`
	Summary          string    `json:"summary" gorm:"type:text"`
	ExecutiveSummary string    `json:"executive_summary" gorm:"type:text"`
	SlideBullets     string    `json:"slide_bullets" gorm:"type:text"`
	ParentID         *string   `json:"parent_id,omitempty" gorm:"type:varchar(32);index"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Brief.
func (Brief) TableName() string {
	return "briefs"
}

// IsRevision reports whether the brief is an edit revision of another brief.
func (b *Brief) IsRevision() bool {
	return b.ParentID != nil && *b.ParentID != ""
}
