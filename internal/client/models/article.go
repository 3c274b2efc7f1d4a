package models

import "time"

type Writer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	Image        string    `json:"image"`
	LikeCount    int       `json:"likeCount"`
	IsLiked      bool      `json:"isLiked"`
	CommentCount int       `json:"commentCount"`
	Writer       Writer    `json:"writer"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ArticleList struct {
	List       []Article `json:"list"`
	TotalCount int       `json:"totalCount"`
}

// ArticleOrder is the sort order of the article list.
type ArticleOrder string

const (
	OrderRecent ArticleOrder = "recent"
	OrderLike   ArticleOrder = "like"
)

type ArticleQuery struct {
	Page     int
	PageSize int
	OrderBy  ArticleOrder
	Keyword  string
}

type ArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}
