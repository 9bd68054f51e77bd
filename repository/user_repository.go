package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/HnnhKylSdsBrl/ClassCart/model"
)

// ProfileUpdate carries the optional profile fields of a partial update.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	Name    *string
	Contact *string
	Gender  *string
}

// Empty reports whether the update carries no fields.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Contact == nil && p.Gender == nil
}

// UserRepository defines the interface for user data operations. Lookup
// methods return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByContact(ctx context.Context, contact string) (*model.User, error)
	UpdateProfile(ctx context.Context, username string, update ProfileUpdate) error
	UpdateDOB(ctx context.Context, username, dob string, countEdit bool) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	UpdateImageURL(ctx context.Context, username, imageURL string) error
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

const userColumns = "id, username, password_hash, name, email, student_id, contact, gender, dob, dob_edit_count, image_url, created_at, updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Name,
		&user.Email, &user.StudentID, &user.Contact, &user.Gender, &user.DOB,
		&user.DOBEditCount, &user.ImageURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // user not found
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return user, nil
}

// CreateUser adds a new user. A duplicate-key rejection is translated to the
// matching ErrDuplicate* sentinel.
func (r *mysqlUserRepository) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	query := "INSERT INTO users (username, password_hash, name, email, student_id, contact, gender, dob) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, user.Name, user.Email,
		user.StudentID, user.Contact, user.Gender, user.DOB)
	if err != nil {
		if dup := translateDuplicate(err); dup != err {
			return 0, dup
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	return id, nil
}

// GetUserByUsername retrieves a user by their username.
func (r *mysqlUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ?"
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

// GetUserByEmail retrieves a user by their email address.
func (r *mysqlUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetUserByContact retrieves a user by their contact number.
func (r *mysqlUserRepository) GetUserByContact(ctx context.Context, contact string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE contact = ?"
	return scanUser(r.db.QueryRowContext(ctx, query, contact))
}

// UpdateProfile applies the non-nil fields of the update. A duplicate
// contact rejection is translated to ErrDuplicateContact.
func (r *mysqlUserRepository) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) error {
	var sets []string
	var args []interface{}

	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Contact != nil {
		// An empty string clears the number. Bind NULL so cleared contacts
		// never collide on the unique index.
		sets = append(sets, "contact = ?")
		args = append(args, sql.NullString{String: *update.Contact, Valid: *update.Contact != ""})
	}
	if update.Gender != nil {
		sets = append(sets, "gender = ?")
		args = append(args, *update.Gender)
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE users SET " + strings.Join(sets, ", ") + ", updated_at = NOW() WHERE username = ?"
	args = append(args, username)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if dup := translateDuplicate(err); dup != err {
			return dup
		}
		return fmt.Errorf("failed to update profile for %s: %w", username, err)
	}
	return nil
}

// UpdateDOB sets the birthdate, bumping the edit counter in the same
// statement when the change counts as an edit.
func (r *mysqlUserRepository) UpdateDOB(ctx context.Context, username, dob string, countEdit bool) error {
	query := "UPDATE users SET dob = ?, updated_at = NOW() WHERE username = ?"
	if countEdit {
		query = "UPDATE users SET dob = ?, dob_edit_count = dob_edit_count + 1, updated_at = NOW() WHERE username = ?"
	}
	if _, err := r.db.ExecContext(ctx, query, dob, username); err != nil {
		return fmt.Errorf("failed to update dob for %s: %w", username, err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *mysqlUserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	query := "UPDATE users SET password_hash = ?, updated_at = NOW() WHERE username = ?"
	if _, err := r.db.ExecContext(ctx, query, passwordHash, username); err != nil {
		return fmt.Errorf("failed to update password for %s: %w", username, err)
	}
	return nil
}

// UpdateImageURL replaces the stored avatar reference.
func (r *mysqlUserRepository) UpdateImageURL(ctx context.Context, username, imageURL string) error {
	query := "UPDATE users SET image_url = ?, updated_at = NOW() WHERE username = ?"
	if _, err := r.db.ExecContext(ctx, query, imageURL, username); err != nil {
		return fmt.Errorf("failed to update image for %s: %w", username, err)
	}
	return nil
}
