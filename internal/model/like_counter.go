package model

import "github.com/samber/lo"

// LikeCounter 点赞用户 ID 列表（按点赞顺序），并非计数
type LikeCounter []string

// Index returns the position of the first occurrence of userID, or -1.
func (lc LikeCounter) Index(userID string) int {
	return lo.IndexOf(lc, userID)
}

func (lc LikeCounter) Contains(userID string) bool {
	return lc.Index(userID) != -1
}

// Add appends userID and reports whether the counter changed. Unless
// allowDuplicate is set, a user already present is left as is.
func (lc *LikeCounter) Add(userID string, allowDuplicate bool) bool {
	if !allowDuplicate && lc.Contains(userID) {
		return false
	}
	*lc = append(*lc, userID)
	return true
}

// Remove drops the first occurrence of userID and reports whether it was present.
func (lc *LikeCounter) Remove(userID string) bool {
	idx := lc.Index(userID)
	if idx == -1 {
		return false
	}
	*lc = append((*lc)[:idx:idx], (*lc)[idx+1:]...)
	return true
}
