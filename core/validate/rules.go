// Package validate holds the registration and profile field rules as pure
// predicates. The browser mirrors these same checks for inline feedback; the
// server-side copy here is authoritative.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/HnnhKylSdsBrl/ClassCart/model"
)

// Institutional constants.
const (
	EmailDomain     = "@mcm.edu.ph"
	StudentIDPrefix = "202"
)

// DOB bounds for profile updates: the earliest allowed birthdate slides with
// the current date, the latest is fixed.
const (
	MaxAgeYears = 35
	MinAgeYears = 17
)

var DOBUpperBound = time.Date(2014, time.December, 31, 0, 0, 0, 0, time.UTC)

var (
	fullNameRe  = regexp.MustCompile(`^[A-Za-z ]+$`)
	studentIDRe = regexp.MustCompile(`^\d{10}$`)
	usernameRe  = regexp.MustCompile(`^[A-Za-z0-9._-]{3,20}$`)
	passwordRe  = regexp.MustCompile(`^[A-Za-z\d]{8,15}$`)
	letterRe    = regexp.MustCompile(`[A-Za-z]`)
	digitRe     = regexp.MustCompile(`\d`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
	localRe     = regexp.MustCompile(`^09\d{9}$`)
	intlRe      = regexp.MustCompile(`^\+639\d{9}$`)
)

// FullName checks the display name: trimmed length 8-25, letters and spaces.
func FullName(name string) error {
	s := strings.TrimSpace(name)
	if s == "" {
		return model.ValidationError("Full name required")
	}
	if len(s) < 8 || len(s) > 25 {
		return model.ValidationError("Full name must be 8-25 characters")
	}
	if !fullNameRe.MatchString(s) {
		return model.ValidationError("Full name must contain only letters and spaces")
	}
	return nil
}

// SchoolEmail checks for the institutional domain suffix, case-insensitively.
func SchoolEmail(email string) error {
	if email == "" {
		return model.ValidationError("Email required")
	}
	if !strings.HasSuffix(strings.ToLower(email), EmailDomain) {
		return model.ValidationError("School email must end with " + EmailDomain)
	}
	return nil
}

// StudentID checks for exactly 10 digits with the institutional prefix.
func StudentID(id string) error {
	s := strings.TrimSpace(id)
	if s == "" {
		return model.ValidationError("Student ID required")
	}
	if !studentIDRe.MatchString(s) {
		return model.ValidationError("Student ID must be exactly 10 digits")
	}
	if !strings.HasPrefix(s, StudentIDPrefix) {
		return model.ValidationError("Student ID must start with " + StudentIDPrefix)
	}
	return nil
}

// Username checks 3-20 chars from letters, digits, dot, underscore, hyphen.
// This is the canonical username policy; the email-prefix variant that
// appeared in one client revision is not enforced.
func Username(username string) error {
	if username == "" {
		return model.ValidationError("Username required")
	}
	if !usernameRe.MatchString(username) {
		return model.ValidationError("Username must be 3-20 chars (letters, numbers, . _ -)")
	}
	return nil
}

// Password checks 8-15 alphanumeric chars with at least one letter and one
// digit.
func Password(pw string) error {
	if pw == "" {
		return model.ValidationError("Password required")
	}
	if !passwordRe.MatchString(pw) || !letterRe.MatchString(pw) || !digitRe.MatchString(pw) {
		return model.ValidationError("Password must be 8-15 chars and include letters and numbers")
	}
	return nil
}

// Contact checks a Philippine mobile number: 11-digit local form starting
// with 09, or 13-character international form starting with +639.
func Contact(contact string) error {
	if contact == "" {
		return model.ValidationError("Mobile number required")
	}
	if localRe.MatchString(contact) || intlRe.MatchString(contact) {
		return nil
	}
	if strings.HasPrefix(contact, "+639") {
		return model.ValidationError("Mobile number must be 13 characters in international format")
	}
	if strings.HasPrefix(contact, "09") {
		return model.ValidationError("Mobile number must have 11 digits")
	}
	if !digitsRe.MatchString(strings.TrimPrefix(contact, "+")) {
		return model.ValidationError("Mobile number must contain digits only")
	}
	return model.ValidationError("Invalid mobile number prefix")
}

// DOB checks an optional birthdate: must parse as YYYY-MM-DD and correspond
// to an age of at least 17 years as of now.
func DOB(dob string) error {
	return DOBAt(dob, time.Now())
}

// DOBAt is DOB evaluated against an explicit reference time.
func DOBAt(dob string, now time.Time) error {
	if dob == "" {
		return nil // optional field
	}
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return model.ValidationError("Invalid date format")
	}
	cutoff := now.AddDate(-MinAgeYears, 0, 0)
	if birth.After(cutoff) {
		return model.ValidationError("You must be at least 17 years old to register")
	}
	return nil
}

// DOBWithinBounds checks the profile-update window: no earlier than
// MaxAgeYears before now, no later than the fixed upper bound.
func DOBWithinBounds(dob string, now time.Time) error {
	if dob == "" {
		return nil
	}
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return model.ValidationError("Invalid date format")
	}
	lower := now.AddDate(-MaxAgeYears, 0, 0)
	if birth.Before(lower) || birth.After(DOBUpperBound) {
		return model.Errorf(model.KindValidation,
			"Birthdate must be between %s and %s",
			lower.Format("2006-01-02"), DOBUpperBound.Format("2006-01-02"))
	}
	return nil
}
