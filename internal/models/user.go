package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

// Follower is a directed edge: FollowerUserID follows FollowingUserID.
type Follower struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	FollowerUserID  uuid.UUID `json:"follower_user_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_edge"`
	FollowingUserID uuid.UUID `json:"following_user_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_edge"`
	CreatedAt       time.Time `json:"created_at"`

	FollowerUser  User `json:"-" gorm:"foreignKey:FollowerUserID"`
	FollowingUser User `json:"-" gorm:"foreignKey:FollowingUserID"`
}

func (User) TableName() string {
	return "user"
}

func (Follower) TableName() string {
	return "follower"
}

// IDs are assigned application-side so the same schema works on the
// postgres and sqlite backends.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (f *Follower) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
