package models

import "time"

// Post is a forum thread.
type Post struct {
	ID            string    `db:"id" json:"id"`
	WalletAddress string    `db:"wallet_address" json:"walletAddress"`
	Title         string    `db:"title" json:"title"`
	Content       string    `db:"content" json:"content"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Comment belongs to a post. Replies are comments with a ParentID.
type Comment struct {
	ID            string    `db:"id" json:"id"`
	PostID        string    `db:"post_id" json:"postId"`
	ParentID      *string   `db:"parent_id" json:"parentId,omitempty"`
	WalletAddress string    `db:"wallet_address" json:"walletAddress"`
	Content       string    `db:"content" json:"content"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// IsReply reports whether the comment answers another comment.
func (c Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != ""
}
