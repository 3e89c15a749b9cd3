package domain

import (
	"encoding/json"
	"time"
)

// User is the profile of the logged-in account.
type User struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userWire struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// ParseUser decodes the body of GET /api/user/get.
func ParseUser(body []byte) (*User, error) {
	var wire userWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, err
	}
	return &User{
		Username:  wire.Username,
		Email:     wire.Email,
		CreatedAt: wire.CreatedAt.Time(),
		UpdatedAt: wire.UpdatedAt.Time(),
	}, nil
}
