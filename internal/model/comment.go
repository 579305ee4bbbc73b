package model

// Comment 内嵌在 FeedItem 中的评论，只追加
type Comment struct {
	Author      string      `json:"author"`
	Contents    string      `json:"contents"`
	PostDate    int64       `json:"postDate"`
	LikeCounter LikeCounter `json:"likeCounter"`
}

// ResolvedComment 作者与点赞用户已展开为 User
type ResolvedComment struct {
	Author      User   `json:"author"`
	Contents    string `json:"contents"`
	PostDate    int64  `json:"postDate"`
	LikeCounter []User `json:"likeCounter"`
}
