package models

import (
	"time"
)

type User struct {
	ID                  string
	Email               string
	Nickname            string
	PasswordHash        string
	Role                Role
	EmailVerified       bool
	VerificationToken   string // NULL once the address is verified
	FailedLoginAttempts int
	IsLocked            bool
	LastLoginAt         *time.Time // NULL until first successful login
	FirstName           string
	LastName            string
	Bio                 string
	GithubProfileURL    string
	LinkedinProfileURL  string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
