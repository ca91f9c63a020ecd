package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tweetline/tweetline/internal/middleware"
	"github.com/tweetline/tweetline/internal/models"
	"github.com/tweetline/tweetline/internal/services"
)

type TweetHandler struct {
	tweetService *services.TweetService
}

func NewTweetHandler(tweetService *services.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// unauthorized answers visibility and ownership failures. The body never
// reveals whether the tweet exists.
func unauthorized(c *gin.Context) {
	c.String(http.StatusUnauthorized, "Invalid Request")
}

func (h *TweetHandler) GetFeed(c *gin.Context) {
	userID := middleware.GetUserID(c)

	feed, err := h.tweetService.Feed(c.Request.Context(), userID)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	if feed == nil {
		feed = []*models.FeedItem{}
	}
	c.JSON(http.StatusOK, feed)
}

func (h *TweetHandler) GetOwnTweets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	tweets, err := h.tweetService.OwnTweets(c.Request.Context(), userID)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	if tweets == nil {
		tweets = []*models.TweetStats{}
	}
	c.JSON(http.StatusOK, tweets)
}

func (h *TweetHandler) GetTweet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	tweetID := c.Param("tweetId")

	detail, err := h.tweetService.Detail(c.Request.Context(), userID, tweetID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			unauthorized(c)
			return
		}
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *TweetHandler) GetTweetLikes(c *gin.Context) {
	userID := middleware.GetUserID(c)
	tweetID := c.Param("tweetId")

	likes, err := h.tweetService.Likers(c.Request.Context(), userID, tweetID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			unauthorized(c)
			return
		}
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if likes == nil {
		likes = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (h *TweetHandler) GetTweetReplies(c *gin.Context) {
	userID := middleware.GetUserID(c)
	tweetID := c.Param("tweetId")

	replies, err := h.tweetService.Repliers(c.Request.Context(), userID, tweetID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			unauthorized(c)
			return
		}
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if replies == nil {
		replies = []*models.ReplyItem{}
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

func (h *TweetHandler) CreateTweet(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req services.CreateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tweet == "" {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	if _, err := h.tweetService.Create(c.Request.Context(), userID, &req); err != nil {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.String(http.StatusOK, "Created a Tweet")
}

func (h *TweetHandler) DeleteTweet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	tweetID := c.Param("tweetId")

	if err := h.tweetService.Delete(c.Request.Context(), userID, tweetID); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			unauthorized(c)
			return
		}
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.String(http.StatusOK, "Tweet Removed")
}

func (h *TweetHandler) LikeTweet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	tweetID := c.Param("tweetId")

	err := h.tweetService.Like(c.Request.Context(), userID, tweetID)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		unauthorized(c)
	case errors.Is(err, services.ErrAlreadyLiked):
		c.String(http.StatusBadRequest, "Already liked")
	case err != nil:
		c.String(http.StatusInternalServerError, "Internal Server Error")
	default:
		c.String(http.StatusOK, "Tweet Liked")
	}
}

func (h *TweetHandler) ReplyToTweet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	tweetID := c.Param("tweetId")

	var req services.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reply == "" {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	err := h.tweetService.Reply(c.Request.Context(), userID, tweetID, &req)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		unauthorized(c)
	case err != nil:
		c.String(http.StatusInternalServerError, "Internal Server Error")
	default:
		c.String(http.StatusOK, "Reply Added")
	}
}
