package model

// Feed 动态流：FeedItem ID 列表，最新的在前
type Feed struct {
	ID       string   `json:"_id"`
	Contents []string `json:"contents"`
}

func (f *Feed) GetID() string   { return f.ID }
func (f *Feed) SetID(id string) { f.ID = id }

// Prepend 将新条目放到最前
func (f *Feed) Prepend(feedItemID string) {
	f.Contents = append([]string{feedItemID}, f.Contents...)
}

// ResolvedFeed 展开后的动态流
type ResolvedFeed struct {
	ID       string             `json:"_id"`
	Contents []ResolvedFeedItem `json:"contents"`
}
