package model

import (
	"time"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one turn of a project-level Q&A conversation.
type ChatTurn struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID string    `json:"project_id" gorm:"type:varchar(64);index;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);index"`
	Role      string    `json:"role" gorm:"type:varchar(16);not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for ChatTurn.
func (ChatTurn) TableName() string {
	return "thrust_chats"
}

// HistoryTurn is a role/content pair supplied by the client with an editor or
// ask request. It is never persisted directly.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
