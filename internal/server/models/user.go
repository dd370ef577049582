package models

import "time"

// User is a credential record. Username is the primary key and the sole
// identity token threaded through every authorization decision.
// PasswordHash holds a bcrypt hash and is never serialized to clients.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
