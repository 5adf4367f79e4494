package models

import "time"

type User struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`

	// Store credentials. TokenExpiry is zero when IDToken never expires.
	IDToken      string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"-"`
}
