package entity

import "time"

type User struct {
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
}

type UserLoginData struct {
	Username  string
	SessionID string
}
