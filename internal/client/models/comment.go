package models

import "time"

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Writer    Writer    `json:"writer"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentPage is one cursor page of comments. NextCursor is nil on the last
// page.
type CommentPage struct {
	List       []Comment `json:"list"`
	NextCursor *int      `json:"nextCursor"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}
