package model

import (
	"database/sql"
	"time"
)

// User represents a registered student account.
type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"` // never exposed in API responses
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	StudentID    string         `json:"studentid"`
	Contact      sql.NullString `json:"-"`
	Gender       sql.NullString `json:"-"`
	DOB          sql.NullString `json:"-"` // YYYY-MM-DD
	DOBEditCount int            `json:"-"`
	ImageURL     sql.NullString `json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Profile is the JSON shape returned to the profile page.
type Profile struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	StudentID    string `json:"studentid"`
	Contact      string `json:"contact"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	DOBEditCount int    `json:"dobEditCount"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// ToProfile flattens the nullable columns into the API shape.
func (u *User) ToProfile() *Profile {
	return &Profile{
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		StudentID:    u.StudentID,
		Contact:      u.Contact.String,
		Gender:       u.Gender.String,
		DOB:          u.DOB.String,
		DOBEditCount: u.DOBEditCount,
		ImageURL:     u.ImageURL.String,
	}
}
