// Package view keeps the display state of a single feed item and renders it
// to a terminal.
package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/d60-Lab/feedmock/internal/model"
)

var ErrUnknownVariant = errors.New("unknown feed item type")

// LikeCommenter is the part of the async feed facade a FeedItemView calls.
type LikeCommenter interface {
	LikeFeedItem(ctx context.Context, feedItemID, userID string, cb func([]model.User)) error
	UnlikeFeedItem(ctx context.Context, feedItemID, userID string, cb func([]model.User)) error
	PostComment(ctx context.Context, feedItemID, authorID, contents string, cb func(*model.ResolvedFeedItem)) error
}

// Update is a change delivered by a completed feed call.
type Update interface {
	apply(item *model.ResolvedFeedItem)
}

// LikeCounterUpdate replaces only the like list; contents and comments stay as they are.
type LikeCounterUpdate struct {
	LikeCounter []model.User
}

func (u LikeCounterUpdate) apply(item *model.ResolvedFeedItem) {
	item.LikeCounter = u.LikeCounter
}

// ItemReplaced replaces the whole local state.
type ItemReplaced struct {
	Item model.ResolvedFeedItem
}

func (u ItemReplaced) apply(item *model.ResolvedFeedItem) {
	*item = u.Item
}

// FeedItemView 单条动态的本地展示状态
type FeedItemView struct {
	feed   LikeCommenter
	userID string

	mu    sync.RWMutex
	state model.ResolvedFeedItem

	updates chan Update
}

// New builds a view of item on behalf of userID. Callers must drain Updates.
func New(item model.ResolvedFeedItem, userID string, feed LikeCommenter) *FeedItemView {
	return &FeedItemView{
		feed:    feed,
		userID:  userID,
		state:   item,
		updates: make(chan Update, 16),
	}
}

func (v *FeedItemView) Updates() <-chan Update { return v.updates }

func (v *FeedItemView) State() model.ResolvedFeedItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *FeedItemView) Apply(u Update) {
	v.mu.Lock()
	defer v.mu.Unlock()
	u.apply(&v.state)
}

// DidUserLike reports whether the current user appears in the local like list.
func (v *FeedItemView) DidUserLike() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return didLike(v.state.LikeCounter, v.userID)
}

func didLike(users []model.User, userID string) bool {
	return lo.ContainsBy(users, func(u model.User) bool { return u.ID == userID })
}

// ToggleLike unlikes the item if the current user already likes it and likes it otherwise.
func (v *FeedItemView) ToggleLike(ctx context.Context) error {
	v.mu.RLock()
	id, liked := v.state.ID, didLike(v.state.LikeCounter, v.userID)
	v.mu.RUnlock()

	cb := func(users []model.User) { v.updates <- LikeCounterUpdate{LikeCounter: users} }
	if liked {
		return v.feed.UnlikeFeedItem(ctx, id, v.userID, cb)
	}
	return v.feed.LikeFeedItem(ctx, id, v.userID, cb)
}

// PostComment posts text as the current user.
func (v *FeedItemView) PostComment(ctx context.Context, text string) error {
	id := v.State().ID
	return v.feed.PostComment(ctx, id, v.userID, text, func(item *model.ResolvedFeedItem) {
		v.updates <- ItemReplaced{Item: *item}
	})
}

var (
	nameStyle  = color.New(color.Bold, color.FgBlue)
	metaStyle  = color.New(color.Faint)
	likeStyle  = color.New(color.FgCyan)
	countStyle = color.New(color.FgGreen)
)

// Render writes the item to w. On an unknown item type nothing is written.
func (v *FeedItemView) Render(w io.Writer) error {
	item := v.State()

	var buf bytes.Buffer
	switch c := item.Contents.(type) {
	case *model.ResolvedStatusUpdate:
		renderStatusUpdate(&buf, c)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, item.Type)
	}

	label := "Like"
	if didLike(item.LikeCounter, v.userID) {
		label = "Unlike"
	}
	fmt.Fprintf(&buf, "[%s] [Comment] [Share]\n", likeStyle.Sprint(label))
	fmt.Fprintf(&buf, "%s people like this\n", countStyle.Sprint(len(item.LikeCounter)))

	for i, cm := range item.Comments {
		fmt.Fprintf(&buf, "  #%d %s %s\n", i, nameStyle.Sprint(cm.Author.FullName), metaStyle.Sprint(formatDate(cm.PostDate)))
		fmt.Fprintf(&buf, "     %s\n", cm.Contents)
		fmt.Fprintf(&buf, "     %d people like this\n", len(cm.LikeCounter))
	}

	_, err := buf.WriteTo(w)
	return err
}

func renderStatusUpdate(buf *bytes.Buffer, su *model.ResolvedStatusUpdate) {
	fmt.Fprintf(buf, "%s\n", nameStyle.Sprint(su.Author.FullName))
	fmt.Fprintf(buf, "%s\n", metaStyle.Sprintf("%s · %s", formatDate(su.PostDate), su.Location))
	for _, line := range strings.Split(su.Contents, "\n") {
		fmt.Fprintf(buf, "  %s\n", line)
	}
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("Jan 2, 2006 15:04")
}
