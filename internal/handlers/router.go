package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tweetline/tweetline/internal/middleware"
)

// NewRouter wires every endpoint. Register and login are open; all other
// routes sit behind the bearer-token middleware.
func NewRouter(userHandler *UserHandler, tweetHandler *TweetHandler, jwtConfig *middleware.JWTConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	router.POST("/register/", userHandler.Register)
	router.POST("/login/", userHandler.Login)

	protected := router.Group("")
	protected.Use(middleware.NewJWTAuth(jwtConfig))
	{
		protected.GET("/user/tweets/feed/", tweetHandler.GetFeed)
		protected.GET("/user/following/", userHandler.GetFollowing)
		protected.GET("/user/followers/", userHandler.GetFollowers)
		protected.GET("/user/tweets/", tweetHandler.GetOwnTweets)
		protected.POST("/user/tweets/", tweetHandler.CreateTweet)
		protected.POST("/user/follow/", userHandler.Follow)
		protected.DELETE("/user/follow/:userId/", userHandler.Unfollow)

		protected.GET("/tweets/:tweetId/", tweetHandler.GetTweet)
		protected.GET("/tweets/:tweetId/likes/", tweetHandler.GetTweetLikes)
		protected.GET("/tweets/:tweetId/replies/", tweetHandler.GetTweetReplies)
		protected.POST("/tweets/:tweetId/like/", tweetHandler.LikeTweet)
		protected.POST("/tweets/:tweetId/replies/", tweetHandler.ReplyToTweet)
		protected.DELETE("/tweets/:tweetId/", tweetHandler.DeleteTweet)
	}

	return router
}
