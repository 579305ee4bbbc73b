package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/feedmock/pkg/response"
)

type postStatusRequest struct {
	Location string `json:"location"`
	Contents string `json:"contents" binding:"required"`
}

type postCommentRequest struct {
	Author   string `json:"author" binding:"required"`
	Contents string `json:"contents" binding:"required"`
}

// GetFeed 获取用户动态流（已展开用户）
// @Summary 获取动态流
// @Tags 动态
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=model.ResolvedFeed}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id}/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	userID := c.Param("user_id")
	if !h.actingAs(c, userID) {
		return
	}
	feed, err := h.feedService.GetFeedData(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, feed)
}

// PostStatusUpdate 发布状态
// @Summary 发布状态更新
// @Tags 动态
// @Accept json
// @Produce json
// @Param user_id path string true "用户ID"
// @Param request body postStatusRequest true "状态内容"
// @Success 201 {object} response.Response{data=model.FeedItem}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id}/feed [post]
func (h *Handler) PostStatusUpdate(c *gin.Context) {
	userID := c.Param("user_id")
	if !h.actingAs(c, userID) {
		return
	}
	var req postStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.feedService.PostStatusUpdate(c.Request.Context(), userID, req.Location, req.Contents)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, item)
}

// GetFeedItem 获取单条动态
// @Summary 获取单条动态
// @Tags 动态
// @Produce json
// @Param feeditem_id path string true "动态ID"
// @Success 200 {object} response.Response{data=model.ResolvedFeedItem}
// @Failure 404 {object} response.Response
// @Router /api/v1/feeditems/{feeditem_id} [get]
func (h *Handler) GetFeedItem(c *gin.Context) {
	item, err := h.feedService.GetFeedItem(c.Request.Context(), c.Param("feeditem_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, item)
}

// PostComment 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param feeditem_id path string true "动态ID"
// @Param request body postCommentRequest true "评论内容"
// @Success 201 {object} response.Response{data=model.ResolvedFeedItem}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/feeditems/{feeditem_id}/comments [post]
func (h *Handler) PostComment(c *gin.Context) {
	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !h.actingAs(c, req.Author) {
		return
	}
	item, err := h.feedService.PostComment(c.Request.Context(), c.Param("feeditem_id"), req.Author, req.Contents)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, item)
}

// LikeFeedItem 点赞
// @Summary 点赞动态
// @Tags 点赞
// @Produce json
// @Param feeditem_id path string true "动态ID"
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 404 {object} response.Response
// @Router /api/v1/feeditems/{feeditem_id}/likelist/{user_id} [put]
func (h *Handler) LikeFeedItem(c *gin.Context) {
	userID := c.Param("user_id")
	if !h.actingAs(c, userID) {
		return
	}
	users, err := h.feedService.LikeFeedItem(c.Request.Context(), c.Param("feeditem_id"), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, users)
}

// UnlikeFeedItem 取消点赞
// @Summary 取消点赞动态
// @Tags 点赞
// @Produce json
// @Param feeditem_id path string true "动态ID"
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 404 {object} response.Response
// @Router /api/v1/feeditems/{feeditem_id}/likelist/{user_id} [delete]
func (h *Handler) UnlikeFeedItem(c *gin.Context) {
	userID := c.Param("user_id")
	if !h.actingAs(c, userID) {
		return
	}
	users, err := h.feedService.UnlikeFeedItem(c.Request.Context(), c.Param("feeditem_id"), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, users)
}

// LikeComment 评论点赞
// @Summary 点赞评论
// @Tags 点赞
// @Produce json
// @Param feeditem_id path string true "动态ID"
// @Param comment_idx path int true "评论下标"
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/feeditems/{feeditem_id}/comments/{comment_idx}/likelist/{user_id} [put]
func (h *Handler) LikeComment(c *gin.Context) {
	h.toggleCommentLike(c, true)
}

// UnlikeComment 取消评论点赞
// @Summary 取消点赞评论
// @Tags 点赞
// @Produce json
// @Param feeditem_id path string true "动态ID"
// @Param comment_idx path int true "评论下标"
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/feeditems/{feeditem_id}/comments/{comment_idx}/likelist/{user_id} [delete]
func (h *Handler) UnlikeComment(c *gin.Context) {
	h.toggleCommentLike(c, false)
}

func (h *Handler) toggleCommentLike(c *gin.Context, like bool) {
	userID := c.Param("user_id")
	if !h.actingAs(c, userID) {
		return
	}
	idx, err := strconv.Atoi(c.Param("comment_idx"))
	if err != nil || idx < 0 {
		response.BadRequest(c, "invalid comment index")
		return
	}

	ctx := c.Request.Context()
	feedItemID := c.Param("feeditem_id")
	op := h.feedService.UnlikeComment
	if like {
		op = h.feedService.LikeComment
	}
	users, err := op(ctx, feedItemID, idx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, users)
}
