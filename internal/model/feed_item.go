package model

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ItemType 区分 FeedItem 的内容变体
type ItemType string

const (
	TypeStatusUpdate ItemType = "statusUpdate"
)

// ItemContents is the payload of a stored FeedItem. The set of implementations
// is closed: *StatusUpdate for known kinds and *UnknownContents for anything
// else read back from the store.
type ItemContents interface {
	ItemType() ItemType
	isItemContents()
}

// StatusUpdate 状态更新
type StatusUpdate struct {
	Author   string `json:"author"`
	PostDate int64  `json:"postDate"`
	Location string `json:"location"`
	Contents string `json:"contents"`
}

func (*StatusUpdate) ItemType() ItemType { return TypeStatusUpdate }
func (*StatusUpdate) isItemContents()    {}

// UnknownContents keeps the raw payload of an unrecognised item type so the
// document survives a read-modify-write untouched.
type UnknownContents struct {
	Type ItemType
	Raw  jsoniter.RawMessage
}

func (u *UnknownContents) ItemType() ItemType { return u.Type }
func (*UnknownContents) isItemContents()      {}

// FeedItem 存储形态：作者与 likeCounter 为用户 ID
type FeedItem struct {
	ID          string
	Type        ItemType
	Contents    ItemContents
	Comments    []Comment
	LikeCounter LikeCounter
}

func (f *FeedItem) GetID() string   { return f.ID }
func (f *FeedItem) SetID(id string) { f.ID = id }

// NewStatusUpdate builds an unsaved status update with empty comments and likes.
func NewStatusUpdate(author, location, contents string, postDate int64) *FeedItem {
	return &FeedItem{
		Type: TypeStatusUpdate,
		Contents: &StatusUpdate{
			Author:   author,
			PostDate: postDate,
			Location: location,
			Contents: contents,
		},
		Comments:    []Comment{},
		LikeCounter: LikeCounter{},
	}
}

// Comment returns a pointer to the comment at idx so callers can mutate it in place.
func (f *FeedItem) Comment(idx int) (*Comment, bool) {
	if idx < 0 || idx >= len(f.Comments) {
		return nil, false
	}
	return &f.Comments[idx], true
}

type feedItemWire struct {
	ID          string              `json:"_id"`
	Type        ItemType            `json:"type"`
	Contents    jsoniter.RawMessage `json:"contents"`
	Comments    []Comment           `json:"comments"`
	LikeCounter LikeCounter         `json:"likeCounter"`
}

func (f FeedItem) MarshalJSON() ([]byte, error) {
	w := feedItemWire{
		ID:          f.ID,
		Type:        f.Type,
		Comments:    f.Comments,
		LikeCounter: f.LikeCounter,
	}
	if w.Comments == nil {
		w.Comments = []Comment{}
	}
	if w.LikeCounter == nil {
		w.LikeCounter = LikeCounter{}
	}
	switch c := f.Contents.(type) {
	case nil:
		w.Contents = jsoniter.RawMessage("null")
	case *UnknownContents:
		w.Type = c.Type
		w.Contents = c.Raw
		if len(w.Contents) == 0 {
			w.Contents = jsoniter.RawMessage("null")
		}
	default:
		w.Type = c.ItemType()
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		w.Contents = raw
	}
	return json.Marshal(w)
}

func (f *FeedItem) UnmarshalJSON(data []byte) error {
	var w feedItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	f.ID = w.ID
	f.Type = w.Type
	f.Comments = w.Comments
	f.LikeCounter = w.LikeCounter

	switch w.Type {
	case TypeStatusUpdate:
		var su StatusUpdate
		if err := json.Unmarshal(w.Contents, &su); err != nil {
			return fmt.Errorf("decode %s contents: %w", w.Type, err)
		}
		f.Contents = &su
	default:
		f.Contents = &UnknownContents{Type: w.Type, Raw: w.Contents}
	}
	return nil
}

// ResolvedContents is the read-side projection of ItemContents.
type ResolvedContents interface {
	ItemType() ItemType
	isResolvedContents()
}

// ResolvedStatusUpdate 作者已展开
type ResolvedStatusUpdate struct {
	Author   User   `json:"author"`
	PostDate int64  `json:"postDate"`
	Location string `json:"location"`
	Contents string `json:"contents"`
}

func (*ResolvedStatusUpdate) ItemType() ItemType { return TypeStatusUpdate }
func (*ResolvedStatusUpdate) isResolvedContents() {}

// ResolvedUnknown passes an unrecognised payload through to the view, which
// refuses to render it.
type ResolvedUnknown struct {
	Type ItemType
	Raw  jsoniter.RawMessage
}

func (r *ResolvedUnknown) ItemType() ItemType { return r.Type }
func (*ResolvedUnknown) isResolvedContents()  {}

func (r *ResolvedUnknown) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// ResolvedFeedItem 展示形态：所有用户 ID 都已替换为 User
type ResolvedFeedItem struct {
	ID          string            `json:"_id"`
	Type        ItemType          `json:"type"`
	Contents    ResolvedContents  `json:"contents"`
	Comments    []ResolvedComment `json:"comments"`
	LikeCounter []User            `json:"likeCounter"`
}
