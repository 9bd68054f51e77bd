package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid", "Juan Dela Cruz", ""},
		{"valid with surrounding spaces", "  Maria Clara Ibarra  ", ""},
		{"empty", "", "Full name required"},
		{"too short", "Ana Cruz", ""}, // exactly 8 chars after trim
		{"below minimum", "Ana Li", "Full name must be 8-25 characters"},
		{"too long", "Maximiliano Bartholomew Montgomery", "Full name must be 8-25 characters"},
		{"digits rejected", "Juan Cruz 3rd", "Full name must contain only letters and spaces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FullName(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestSchoolEmail(t *testing.T) {
	assert.NoError(t, SchoolEmail("jdcruz@mcm.edu.ph"))
	assert.NoError(t, SchoolEmail("JDCRUZ@MCM.EDU.PH"))
	assert.Error(t, SchoolEmail(""))
	assert.Error(t, SchoolEmail("jdcruz@gmail.com"))
	assert.Error(t, SchoolEmail("jdcruz@mcm.edu.ph.evil.com"))
}

func TestStudentID(t *testing.T) {
	assert.NoError(t, StudentID("2023456789"))
	assert.EqualError(t, StudentID(""), "Student ID required")
	assert.EqualError(t, StudentID("202345678"), "Student ID must be exactly 10 digits")
	assert.EqualError(t, StudentID("20234567890"), "Student ID must be exactly 10 digits")
	assert.EqualError(t, StudentID("2013456789"), "Student ID must start with 202")
	assert.EqualError(t, StudentID("20234a6789"), "Student ID must be exactly 10 digits")
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("jd.cruz_23"))
	assert.NoError(t, Username("abc"))
	assert.Error(t, Username(""))
	assert.Error(t, Username("ab"))
	assert.Error(t, Username("way_too_long_username_here"))
	assert.Error(t, Username("bad space"))
	assert.Error(t, Username("emoji🙂"))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("abc12345"))
	assert.NoError(t, Password("A1b2c3d4e5f6g7h"))
	assert.Error(t, Password(""))
	assert.Error(t, Password("short1"))
	assert.Error(t, Password("abcdefgh"))      // no digit
	assert.Error(t, Password("12345678"))      // no letter
	assert.Error(t, Password("abc123!@#"))     // special chars rejected
	assert.Error(t, Password("abc1234567890123456")) // too long
}

func TestContact(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"local format", "09171234567", ""},
		{"international format", "+639171234567", ""},
		{"empty", "", "Mobile number required"},
		{"local too short", "0917123456", "Mobile number must have 11 digits"},
		{"local too long", "091712345678", "Mobile number must have 11 digits"},
		{"international wrong length", "+63917123456", "Mobile number must be 13 characters in international format"},
		{"letters", "09abc", "Mobile number must have 11 digits"},
		{"garbage", "12345", "Invalid mobile number prefix"},
		{"non digits", "12-345", "Mobile number must contain digits only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Contact(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestDOBAt(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, DOBAt("", now)) // optional
	assert.NoError(t, DOBAt("2005-06-01", now))
	assert.NoError(t, DOBAt("2009-03-15", now)) // turns 17 today
	assert.EqualError(t, DOBAt("2009-03-16", now), "You must be at least 17 years old to register")
	assert.EqualError(t, DOBAt("2012-01-01", now), "You must be at least 17 years old to register")
	assert.EqualError(t, DOBAt("not-a-date", now), "Invalid date format")
	assert.EqualError(t, DOBAt("15-03-2005", now), "Invalid date format")
}

func TestDOBWithinBounds(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, DOBWithinBounds("", now))
	assert.NoError(t, DOBWithinBounds("2000-01-01", now))
	assert.NoError(t, DOBWithinBounds("2014-12-31", now))
	assert.NoError(t, DOBWithinBounds("1991-03-15", now)) // exactly 35 years
	assert.Error(t, DOBWithinBounds("1990-01-01", now))   // older than 35 years
	assert.Error(t, DOBWithinBounds("2015-01-01", now))   // past fixed upper bound
	assert.Error(t, DOBWithinBounds("bogus", now))
}
