package models

import "time"

// User represents a marketplace participant. Listings and conversations embed a
// copy of the seller/participant taken at creation time; there are no live
// references back to a user registry.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Avatar      string    `json:"avatar,omitempty"`
	Location    string    `json:"location"`
	JoinedDate  time.Time `json:"joinedDate"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	IsVerified  bool      `json:"isVerified"`
	IsAdmin     bool      `json:"isAdmin,omitempty"`
}
