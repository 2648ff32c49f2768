// Package models defines the ImuneTrack data model shared by repositories,
// services and transports.
package models

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries the attributes to change; nil fields are left as is.
// Password is plain text and is hashed by the service.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	IsAdmin  *bool
}
