package models

import "time"

// AppMapping binds a numeric app_id registry key to a redirect URL.
type AppMapping struct {
	AppID     string    `json:"app_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PixelTokenBinding binds a pixel identifier to an affiliate token.
type PixelTokenBinding struct {
	Pixel     string    `json:"pixel"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
