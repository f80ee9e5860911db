package models

import "time"

// PushToken is a registered push delivery subscription for a user.
type PushToken struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Endpoint  string    `db:"endpoint" json:"endpoint"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PushMessage is the payload posted to the push delivery endpoint.
type PushMessage struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
