package domain

import "time"

type User struct {
	ID        string
	Username  string
	FullName  string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
}
