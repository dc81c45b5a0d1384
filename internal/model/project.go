package model

import (
	"time"
)

// Project groups briefs for a client engagement. Projects are owned by the
// front-of-house application; briefd only reads titles for citation labels.
type Project struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);index"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Project.
func (Project) TableName() string {
	return "projects"
}
