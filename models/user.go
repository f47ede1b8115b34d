package models

import (
	"strings"
	"time"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Owner is the personal owner reference of the user.
func (u User) Owner() Owner {
	return UserOwner(u.ID)
}

// Group is a set of users sharing accounts and transactions.
type Group struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Owner     Owner     `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials is the body of register and login requests.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Credentials) Validate() string {
	c.Username = strings.TrimSpace(c.Username)
	if len(c.Username) < 3 || len(c.Username) > 64 {
		return "username must be between 3 and 64 characters"
	}
	if len(c.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(c.Password) > 72 {
		return "password must be at most 72 bytes"
	}
	return ""
}

// MemberInput adds an existing user to a group.
type MemberInput struct {
	Username string `json:"username"`
}

func (m *MemberInput) Validate() string {
	m.Username = strings.TrimSpace(m.Username)
	if m.Username == "" {
		return "username is required"
	}
	return ""
}

// Session is returned on login and register.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
	Owner     Owner     `json:"owner"`
}
