package models

// Row projections returned directly by the read endpoints.

type FeedItem struct {
	Username string `json:"username"`
	Tweet    string `json:"tweet"`
	DateTime string `json:"dateTime"`
}

type TweetStats struct {
	Tweet    string `json:"tweet"`
	Likes    int64  `json:"likes"`
	Replies  int64  `json:"replies"`
	DateTime string `json:"dateTime"`
}

type NameItem struct {
	Name string `json:"name"`
}

type ReplyItem struct {
	Name  string `json:"name"`
	Reply string `json:"reply"`
}
