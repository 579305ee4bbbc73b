package model

import (
	"time"

	"gorm.io/datatypes"
)

// 集合名称
const (
	CollectionUsers     = "users"
	CollectionFeeds     = "feeds"
	CollectionFeedItems = "feedItems"
)

// Document gorm 文档存储的行结构（collection + id 复合主键）
type Document struct {
	Collection string         `gorm:"primaryKey;type:varchar(32)"`
	ID         string         `gorm:"primaryKey;type:varchar(64)"`
	Body       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string { return "documents" }
