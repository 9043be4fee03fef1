package models

import "time"

// User is the singleton admin identity. Password holds a bcrypt hash; it is
// persisted but only PublicUser is ever sent to clients.
type User struct {
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	Avatar             string    `json:"avatar"`
	Password           string    `json:"password"`
	LastPasswordChange time.Time `json:"lastPasswordChange"`
}

// PublicUser is the client-facing view of User.
type PublicUser struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

func (u User) Public() PublicUser {
	return PublicUser{Name: u.Name, Role: u.Role, Avatar: u.Avatar}
}
