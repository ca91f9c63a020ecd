package services

import "errors"

// Sentinel errors handlers translate to HTTP statuses. "Tweet does not
// exist" and "tweet exists but is not visible to you" deliberately share
// ErrUnauthorized so responses never leak existence.
var (
	ErrUserExists       = errors.New("user already exists")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidUser      = errors.New("invalid user")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUnauthorized     = errors.New("invalid request")
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrAlreadyLiked     = errors.New("already liked")
)
