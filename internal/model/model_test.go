package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeCounterAdd(t *testing.T) {
	lc := LikeCounter{"1"}

	assert.True(t, lc.Add("2", false))
	assert.False(t, lc.Add("2", false), "a second like from the same user is ignored")
	assert.Equal(t, LikeCounter{"1", "2"}, lc)

	assert.True(t, lc.Add("2", true))
	assert.Equal(t, LikeCounter{"1", "2", "2"}, lc)
}

func TestLikeCounterRemoveFirstOccurrence(t *testing.T) {
	lc := LikeCounter{"3", "4", "5", "4"}
	orig := lc

	assert.True(t, lc.Remove("4"))
	assert.Equal(t, LikeCounter{"3", "5", "4"}, lc)
	assert.Equal(t, LikeCounter{"3", "4", "5", "4"}, orig, "callers holding the old slice are unaffected")

	assert.False(t, lc.Remove("9"))
	assert.Equal(t, LikeCounter{"3", "5", "4"}, lc)
}

func TestFeedPrepend(t *testing.T) {
	f := Feed{ID: "4", Contents: []string{"a", "b"}}
	f.Prepend("c")
	assert.Equal(t, []string{"c", "a", "b"}, f.Contents)
}

func TestFeedItemDecodesStatusUpdate(t *testing.T) {
	doc := `{"_id":"1","type":"statusUpdate","likeCounter":["2","3"],
		"contents":{"author":"1","postDate":1453668480000,"location":"Austin, TX","contents":"ugh."},
		"comments":[{"author":"2","contents":"hope everything is ok!","postDate":1453690800000,"likeCounter":[]}]}`

	var item FeedItem
	require.NoError(t, json.Unmarshal([]byte(doc), &item))

	assert.Equal(t, "1", item.ID)
	assert.Equal(t, TypeStatusUpdate, item.Type)
	su, ok := item.Contents.(*StatusUpdate)
	require.True(t, ok)
	assert.Equal(t, "Austin, TX", su.Location)
	assert.Equal(t, int64(1453668480000), su.PostDate)
	require.Len(t, item.Comments, 1)
	assert.Equal(t, "2", item.Comments[0].Author)
	assert.Equal(t, LikeCounter{"2", "3"}, item.LikeCounter)
}

func TestFeedItemKeepsUnknownVariant(t *testing.T) {
	doc := `{"_id":"9","type":"photo","contents":{"url":"x.png"},"comments":[],"likeCounter":[]}`

	var item FeedItem
	require.NoError(t, json.Unmarshal([]byte(doc), &item))
	unknown, ok := item.Contents.(*UnknownContents)
	require.True(t, ok)
	assert.Equal(t, ItemType("photo"), unknown.ItemType())

	item.LikeCounter.Add("4", false)
	out, err := json.Marshal(&item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"9","type":"photo","contents":{"url":"x.png"},"comments":[],"likeCounter":["4"]}`, string(out))
}

func TestNewStatusUpdateEncodesEmptyCollections(t *testing.T) {
	item := NewStatusUpdate("4", "NYC", "hello\nworld", 42)
	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"","type":"statusUpdate","comments":[],"likeCounter":[],
		"contents":{"author":"4","postDate":42,"location":"NYC","contents":"hello\nworld"}}`, string(out))
}

func TestFeedItemCommentBounds(t *testing.T) {
	item := NewStatusUpdate("4", "", "x", 0)
	item.Comments = append(item.Comments, Comment{Author: "1"})

	c, ok := item.Comment(0)
	require.True(t, ok)
	c.LikeCounter.Add("4", false)
	assert.Equal(t, LikeCounter{"4"}, item.Comments[0].LikeCounter)

	_, ok = item.Comment(1)
	assert.False(t, ok)
	_, ok = item.Comment(-1)
	assert.False(t, ok)
}

func TestUserPublicDropsPasswordHash(t *testing.T) {
	u := User{ID: "4", FullName: "John Vilk", PasswordHash: "hash"}
	assert.Empty(t, u.Public().PasswordHash)
	assert.Equal(t, "hash", u.PasswordHash)
}
