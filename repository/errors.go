package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors surfaced when a unique index rejects a write. The pre-insert
// lookups in the account service catch most duplicates, but the index is the
// authoritative guard against the check-then-insert race.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateContact  = errors.New("contact number already exists")
)

const mysqlDuplicateEntry = 1062

// translateDuplicate maps a MySQL duplicate-key error to the matching
// sentinel based on the violated index name. Returns the input unchanged for
// anything else.
func translateDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return err
	}
	msg := mysqlErr.Message
	switch {
	case strings.Contains(msg, "username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "contact"):
		return ErrDuplicateContact
	}
	return err
}
