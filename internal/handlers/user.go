package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tweetline/tweetline/internal/middleware"
	"github.com/tweetline/tweetline/internal/models"
	"github.com/tweetline/tweetline/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	jwtSecret   string
	jwtTTL      time.Duration
}

func NewUserHandler(userService *services.UserService, jwtSecret string, jwtTTL time.Duration) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
	}
}

// Register creates an account. Failures come back as 400 with a
// plain-text reason; success is a plain-text confirmation.
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	_, err := h.userService.Register(c.Request.Context(), &req)
	switch {
	case errors.Is(err, services.ErrUserExists):
		c.String(http.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrPasswordTooShort):
		c.String(http.StatusBadRequest, "Password is too short")
	case err != nil:
		c.String(http.StatusInternalServerError, "Internal Server Error")
	default:
		c.String(http.StatusOK, "User created successfully")
	}
}

// Login verifies the password and answers with a signed bearer token.
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	user, err := h.userService.Login(c.Request.Context(), &req)
	switch {
	case errors.Is(err, services.ErrInvalidUser):
		c.String(http.StatusBadRequest, "Invalid user")
		return
	case errors.Is(err, services.ErrInvalidPassword):
		c.String(http.StatusBadRequest, "Invalid password")
		return
	case err != nil:
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token, err := middleware.GenerateToken(user.ID.String(), user.Username, h.jwtSecret, h.jwtTTL)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"jwtToken": token})
}

func (h *UserHandler) GetFollowing(c *gin.Context) {
	userID := middleware.GetUserID(c)

	following, err := h.userService.Following(c.Request.Context(), userID)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	if following == nil {
		following = []*models.NameItem{}
	}
	c.JSON(http.StatusOK, following)
}

func (h *UserHandler) GetFollowers(c *gin.Context) {
	userID := middleware.GetUserID(c)

	followers, err := h.userService.Followers(c.Request.Context(), userID)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	if followers == nil {
		followers = []*models.NameItem{}
	}
	c.JSON(http.StatusOK, followers)
}

func (h *UserHandler) Follow(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req services.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.String(http.StatusBadRequest, "Invalid Request")
		return
	}

	err := h.userService.Follow(c.Request.Context(), userID, req.Username)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.String(http.StatusBadRequest, "User not found")
	case errors.Is(err, services.ErrSelfFollow):
		c.String(http.StatusBadRequest, "Cannot follow yourself")
	case errors.Is(err, services.ErrAlreadyFollowing):
		c.String(http.StatusBadRequest, "Already following")
	case err != nil:
		c.String(http.StatusInternalServerError, "Internal Server Error")
	default:
		c.String(http.StatusOK, "Followed successfully")
	}
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	userID := middleware.GetUserID(c)
	followingID := c.Param("userId")

	err := h.userService.Unfollow(c.Request.Context(), userID, followingID)
	switch {
	case errors.Is(err, services.ErrNotFollowing):
		c.String(http.StatusBadRequest, "Not following")
	case err != nil:
		c.String(http.StatusBadRequest, "Invalid Request")
	default:
		c.String(http.StatusOK, "Unfollowed successfully")
	}
}
