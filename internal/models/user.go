package models

import "time"

// User is an account that owns projects and participates in collaboration.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserRef is the minimal identity carried on wire envelopes.
type UserRef struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
