// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. Records reference it through OwnerID.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}
