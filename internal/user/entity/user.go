package entity

import "time"

// User is a registered identity. Usernames are not unique.
type User struct {
	ID        string    `db:"id" json:"_id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}
