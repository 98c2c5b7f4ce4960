package entity

import "time"

// Session is the server-side record behind an access token. It lives in the
// session registry for the lifetime of the token and is deleted on logout,
// which is what actually ends a login, independent of the JWT expiry.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
