// Package events publishes feed mutations for downstream consumers.
package events

import (
	"context"
	"time"
)

// 事件类型（NATS subject 后缀）
const (
	StatusPosted   = "status.posted"
	CommentPosted  = "comment.posted"
	ItemLiked      = "item.liked"
	ItemUnliked    = "item.unliked"
	CommentLiked   = "comment.liked"
	CommentUnliked = "comment.unliked"
)

// Event describes one successful feed mutation.
type Event struct {
	Type         string    `json:"type"`
	FeedItemID   string    `json:"feed_item_id"`
	UserID       string    `json:"user_id"`
	CommentIndex *int      `json:"comment_index,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
