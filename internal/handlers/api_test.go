package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tweetline/tweetline/internal/config"
	"github.com/tweetline/tweetline/internal/middleware"
	"github.com/tweetline/tweetline/internal/models"
	"github.com/tweetline/tweetline/internal/repository"
	"github.com/tweetline/tweetline/internal/services"
	"github.com/tweetline/tweetline/pkg/logger"
)

const testJWTSecret = "test-secret"

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	return nil
}

type testServer struct {
	router    *gin.Engine
	db        *repository.Database
	tweetRepo *repository.TweetRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	log := logger.NewLogger()
	userRepo := repository.NewUserRepository(db.DB)
	followerRepo := repository.NewFollowerRepository(db.DB)
	tweetRepo := repository.NewTweetRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	replyRepo := repository.NewReplyRepository(db.DB)

	userService := services.NewUserService(userRepo, followerRepo, nopPublisher{}, log)
	tweetService := services.NewTweetService(tweetRepo, likeRepo, replyRepo, followerRepo, nopPublisher{}, log)

	userHandler := NewUserHandler(userService, testJWTSecret, time.Hour)
	tweetHandler := NewTweetHandler(tweetService)

	router := NewRouter(userHandler, tweetHandler, &middleware.JWTConfig{Secret: testJWTSecret})
	return &testServer{router: router, db: db, tweetRepo: tweetRepo}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, username, password, name string) {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/register/", "", map[string]string{
		"username": username,
		"password": password,
		"name":     name,
		"gender":   "other",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register %s: status = %d, body = %s", username, rr.Code, rr.Body.String())
	}
}

func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/login/", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", username, rr.Code, rr.Body.String())
	}

	var resp struct {
		JWTToken string `json:"jwtToken"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login response decode failed: %v", err)
	}
	if resp.JWTToken == "" {
		t.Fatal("login returned empty token")
	}
	return resp.JWTToken
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret1", "Alice")

	rr := ts.do(t, http.MethodPost, "/register/", "", map[string]string{
		"username": "alice", "password": "secret1", "name": "Alice",
	})
	if rr.Code != http.StatusBadRequest || rr.Body.String() != "User already exists" {
		t.Errorf("duplicate register: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodPost, "/register/", "", map[string]string{
		"username": "bob", "password": "short", "name": "Bob",
	})
	if rr.Code != http.StatusBadRequest || rr.Body.String() != "Password is too short" {
		t.Errorf("short password register: status = %d, body = %q", rr.Code, rr.Body.String())
	}
}

func TestLoginValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "secret1", "Alice")

	rr := ts.do(t, http.MethodPost, "/login/", "", map[string]string{
		"username": "ghost", "password": "secret1",
	})
	if rr.Code != http.StatusBadRequest || rr.Body.String() != "Invalid user" {
		t.Errorf("unknown user login: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodPost, "/login/", "", map[string]string{
		"username": "alice", "password": "wrongpass",
	})
	if rr.Code != http.StatusBadRequest || rr.Body.String() != "Invalid password" {
		t.Errorf("wrong password login: status = %d, body = %q", rr.Code, rr.Body.String())
	}
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/user/tweets/feed/"},
		{http.MethodGet, "/user/following/"},
		{http.MethodGet, "/user/followers/"},
		{http.MethodGet, "/user/tweets/"},
		{http.MethodPost, "/user/tweets/"},
	}
	for _, p := range paths {
		rr := ts.do(t, p.method, p.path, "", nil)
		if rr.Code != http.StatusUnauthorized || rr.Body.String() != "Invalid JWT Token" {
			t.Errorf("%s %s without token: status = %d, body = %q", p.method, p.path, rr.Code, rr.Body.String())
		}
	}
}

// Register, login, tweet, then read the tweet back with zero counts.
func TestTweetLifecycle(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret1", "Alice")
	token := ts.login(t, "alice", "secret1")

	rr := ts.do(t, http.MethodPost, "/user/tweets/", token, map[string]string{"tweet": "hello world"})
	if rr.Code != http.StatusOK || rr.Body.String() != "Created a Tweet" {
		t.Fatalf("create tweet: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodGet, "/user/tweets/", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("own tweets: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var tweets []struct {
		Tweet    string `json:"tweet"`
		Likes    int64  `json:"likes"`
		Replies  int64  `json:"replies"`
		DateTime string `json:"dateTime"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &tweets); err != nil {
		t.Fatalf("own tweets decode failed: %v", err)
	}
	if len(tweets) != 1 {
		t.Fatalf("own tweets length = %d, want 1", len(tweets))
	}
	if tweets[0].Tweet != "hello world" || tweets[0].Likes != 0 || tweets[0].Replies != 0 {
		t.Errorf("own tweet = %+v, want hello world with 0/0 counts", tweets[0])
	}
	if _, err := time.Parse(models.DateTimeLayout, tweets[0].DateTime); err != nil {
		t.Errorf("dateTime %q not in storage layout: %v", tweets[0].DateTime, err)
	}
}

// B follows A, A tweets, B sees it; C neither sees the feed entry nor
// the detail, and the detail failure does not reveal existence.
func TestFollowGatedVisibility(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret1", "Alice")
	ts.register(t, "bob", "secret1", "Bob")
	ts.register(t, "carol", "secret1", "Carol")
	tokenA := ts.login(t, "alice", "secret1")
	tokenB := ts.login(t, "bob", "secret1")
	tokenC := ts.login(t, "carol", "secret1")

	rr := ts.do(t, http.MethodPost, "/user/follow/", tokenB, map[string]string{"username": "alice"})
	if rr.Code != http.StatusOK {
		t.Fatalf("follow: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodPost, "/user/tweets/", tokenA, map[string]string{"tweet": "gated"})
	if rr.Code != http.StatusOK {
		t.Fatalf("create tweet: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodGet, "/user/tweets/feed/", tokenB, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("feed: status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var feed []models.FeedItem
	if err := json.Unmarshal(rr.Body.Bytes(), &feed); err != nil {
		t.Fatalf("feed decode failed: %v", err)
	}
	if len(feed) != 1 || feed[0].Username != "alice" || feed[0].Tweet != "gated" {
		t.Fatalf("feed = %+v, want alice's tweet", feed)
	}

	// Find the tweet's ID for the detail endpoints.
	var tweet models.Tweet
	if err := ts.db.DB.First(&tweet).Error; err != nil {
		t.Fatalf("tweet lookup failed: %v", err)
	}
	tweetPath := "/tweets/" + tweet.ID.String() + "/"

	rr = ts.do(t, http.MethodGet, tweetPath, tokenB, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("follower detail: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodGet, tweetPath, tokenC, nil)
	if rr.Code != http.StatusUnauthorized || rr.Body.String() != "Invalid Request" {
		t.Errorf("non-follower detail: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	// Non-follower gets the same answer for likes and replies listings.
	for _, sub := range []string{"likes/", "replies/"} {
		rr = ts.do(t, http.MethodGet, tweetPath+sub, tokenC, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("non-follower %s: status = %d", sub, rr.Code)
		}
	}

	// An unknown tweet ID answers identically to an invisible one.
	rr = ts.do(t, http.MethodGet, "/tweets/00000000-0000-0000-0000-000000000000/", tokenB, nil)
	if rr.Code != http.StatusUnauthorized || rr.Body.String() != "Invalid Request" {
		t.Errorf("unknown tweet detail: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	// C's feed stays empty.
	rr = ts.do(t, http.MethodGet, "/user/tweets/feed/", tokenC, nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "[]" {
		t.Errorf("non-follower feed: status = %d, body = %q", rr.Code, rr.Body.String())
	}
}

func TestLikesAndReplies(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret1", "Alice")
	ts.register(t, "bob", "secret1", "Bob")
	tokenA := ts.login(t, "alice", "secret1")
	tokenB := ts.login(t, "bob", "secret1")

	ts.do(t, http.MethodPost, "/user/follow/", tokenB, map[string]string{"username": "alice"})
	ts.do(t, http.MethodPost, "/user/tweets/", tokenA, map[string]string{"tweet": "engage me"})

	var tweet models.Tweet
	if err := ts.db.DB.First(&tweet).Error; err != nil {
		t.Fatalf("tweet lookup failed: %v", err)
	}
	tweetPath := "/tweets/" + tweet.ID.String() + "/"

	rr := ts.do(t, http.MethodPost, tweetPath+"like/", tokenB, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("like: status = %d, body = %s", rr.Code, rr.Body.String())
	}
	rr = ts.do(t, http.MethodPost, tweetPath+"like/", tokenB, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("duplicate like: status = %d, want 400", rr.Code)
	}

	rr = ts.do(t, http.MethodPost, tweetPath+"replies/", tokenB, map[string]string{"reply": "nice one"})
	if rr.Code != http.StatusOK {
		t.Fatalf("reply: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodGet, tweetPath+"likes/", tokenB, nil)
	var likes struct {
		Likes []string `json:"likes"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &likes); err != nil {
		t.Fatalf("likes decode failed: %v", err)
	}
	if len(likes.Likes) != 1 || likes.Likes[0] != "bob" {
		t.Errorf("likes = %+v, want [bob]", likes.Likes)
	}

	rr = ts.do(t, http.MethodGet, tweetPath+"replies/", tokenB, nil)
	var replies struct {
		Replies []models.ReplyItem `json:"replies"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &replies); err != nil {
		t.Fatalf("replies decode failed: %v", err)
	}
	if len(replies.Replies) != 1 || replies.Replies[0].Name != "Bob" || replies.Replies[0].Reply != "nice one" {
		t.Errorf("replies = %+v, want Bob/nice one", replies.Replies)
	}

	rr = ts.do(t, http.MethodGet, tweetPath, tokenB, nil)
	var detail models.TweetStats
	if err := json.Unmarshal(rr.Body.Bytes(), &detail); err != nil {
		t.Fatalf("detail decode failed: %v", err)
	}
	if detail.Likes != 1 || detail.Replies != 1 {
		t.Errorf("detail counts = %d/%d, want 1/1", detail.Likes, detail.Replies)
	}
}

func TestDeleteTweet(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret1", "Alice")
	ts.register(t, "bob", "secret1", "Bob")
	tokenA := ts.login(t, "alice", "secret1")
	tokenB := ts.login(t, "bob", "secret1")

	ts.do(t, http.MethodPost, "/user/tweets/", tokenA, map[string]string{"tweet": "ephemeral"})

	var tweet models.Tweet
	if err := ts.db.DB.First(&tweet).Error; err != nil {
		t.Fatalf("tweet lookup failed: %v", err)
	}
	tweetPath := "/tweets/" + tweet.ID.String() + "/"

	rr := ts.do(t, http.MethodDelete, tweetPath, tokenB, nil)
	if rr.Code != http.StatusUnauthorized || rr.Body.String() != "Invalid Request" {
		t.Errorf("non-owner delete: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodDelete, tweetPath, tokenA, nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "Tweet Removed" {
		t.Errorf("owner delete: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodGet, "/user/tweets/", tokenA, nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "[]" {
		t.Errorf("own tweets after delete: status = %d, body = %q", rr.Code, rr.Body.String())
	}
}

func TestFollowingAndFollowersListings(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret1", "Alice")
	ts.register(t, "bob", "secret1", "Bob")
	tokenA := ts.login(t, "alice", "secret1")
	tokenB := ts.login(t, "bob", "secret1")

	ts.do(t, http.MethodPost, "/user/follow/", tokenB, map[string]string{"username": "alice"})

	rr := ts.do(t, http.MethodGet, "/user/following/", tokenB, nil)
	var following []models.NameItem
	if err := json.Unmarshal(rr.Body.Bytes(), &following); err != nil {
		t.Fatalf("following decode failed: %v", err)
	}
	if len(following) != 1 || following[0].Name != "Alice" {
		t.Errorf("following = %+v, want [Alice]", following)
	}

	rr = ts.do(t, http.MethodGet, "/user/followers/", tokenA, nil)
	var followers []models.NameItem
	if err := json.Unmarshal(rr.Body.Bytes(), &followers); err != nil {
		t.Fatalf("followers decode failed: %v", err)
	}
	if len(followers) != 1 || followers[0].Name != "Bob" {
		t.Errorf("followers = %+v, want [Bob]", followers)
	}

	// A token never lists another user's relationships.
	rr = ts.do(t, http.MethodGet, "/user/following/", tokenA, nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "[]" {
		t.Errorf("alice following: status = %d, body = %q", rr.Code, rr.Body.String())
	}
}
