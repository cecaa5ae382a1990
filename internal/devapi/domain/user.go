package domain

import "time"

const (
	RoleRenter = "RENTER"
	RoleAdmin  = "ADMIN"
)

type User struct {
	ID           string
	Email        string // stored lower-cased, unique
	FullName     string
	Phone        string
	Role         string
	PasswordHash string // argon2 encoded
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
