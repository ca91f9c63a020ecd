package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateTimeLayout is the storage format for tweet timestamps:
// second precision, no timezone designator.
const DateTimeLayout = "2006-01-02 15:04:05"

type Tweet struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Body     string    `json:"tweet" gorm:"type:text;not null"`
	DateTime string    `json:"dateTime" gorm:"not null;index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TweetID   uuid.UUID `json:"tweet_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_once"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_once"`
	CreatedAt time.Time `json:"created_at"`

	Tweet Tweet `json:"-" gorm:"foreignKey:TweetID"`
	User  User  `json:"-" gorm:"foreignKey:UserID"`
}

type Reply struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TweetID   uuid.UUID `json:"tweet_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	Body      string    `json:"reply" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	Tweet Tweet `json:"-" gorm:"foreignKey:TweetID"`
	User  User  `json:"-" gorm:"foreignKey:UserID"`
}

func (Tweet) TableName() string {
	return "tweet"
}

func (Like) TableName() string {
	return "like"
}

func (Reply) TableName() string {
	return "reply"
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
