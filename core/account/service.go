// Package account implements registration, login and profile management:
// the validation, uniqueness and date-of-birth rules that govern a student
// identity.
package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/HnnhKylSdsBrl/ClassCart/core/auth"
	"github.com/HnnhKylSdsBrl/ClassCart/core/validate"
	"github.com/HnnhKylSdsBrl/ClassCart/logger"
	"github.com/HnnhKylSdsBrl/ClassCart/model"
	"github.com/HnnhKylSdsBrl/ClassCart/repository"
	"github.com/HnnhKylSdsBrl/ClassCart/storage"

	"github.com/google/uuid"
)

// Service implements the account operations on top of the user repository
// and the image store.
type Service struct {
	users  repository.UserRepository
	images storage.ImageStore
	now    func() time.Time
}

// NewService creates an account Service.
func NewService(users repository.UserRepository, images storage.ImageStore) *Service {
	return &Service{users: users, images: images, now: time.Now}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"studentid"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`
	Contact   string `json:"contact"`
	DOB       string `json:"dob"`
}

// Register validates the payload, enforces uniqueness of username, email and
// contact, and creates the account with a bcrypt password hash. The stored
// date-of-birth edit counter starts at zero.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Profile, error) {
	if err := validate.FullName(in.Name); err != nil {
		return nil, err
	}
	if err := validate.SchoolEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validate.StudentID(in.StudentID); err != nil {
		return nil, err
	}
	if err := validate.Username(in.Username); err != nil {
		return nil, err
	}
	if err := validate.Password(in.Password); err != nil {
		return nil, err
	}
	if in.Contact != "" {
		if err := validate.Contact(in.Contact); err != nil {
			return nil, err
		}
	}
	if err := validate.DOBAt(in.DOB, s.now()); err != nil {
		return nil, err
	}
	if in.Password != in.Confirm {
		return nil, model.ValidationError("Passwords do not match")
	}

	// Pre-checks give friendly errors; the unique indexes remain the
	// authoritative guard against the check-then-insert race.
	if existing, err := s.users.GetUserByUsername(ctx, in.Username); err != nil {
		logger.Error("[Register] username lookup failed", logger.ErrorField(err))
		return nil, model.ServerError()
	} else if existing != nil {
		return nil, model.NewAppError(model.KindDuplicateUsername, "Username already taken")
	}
	if existing, err := s.users.GetUserByEmail(ctx, in.Email); err != nil {
		logger.Error("[Register] email lookup failed", logger.ErrorField(err))
		return nil, model.ServerError()
	} else if existing != nil {
		return nil, model.NewAppError(model.KindDuplicateEmail, "Email already registered")
	}
	if in.Contact != "" {
		if existing, err := s.users.GetUserByContact(ctx, in.Contact); err != nil {
			logger.Error("[Register] contact lookup failed", logger.ErrorField(err))
			return nil, model.ServerError()
		} else if existing != nil {
			return nil, model.NewAppError(model.KindDuplicateContact, "Mobile number already registered")
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		logger.Error("[Register] password hashing failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		StudentID:    in.StudentID,
	}
	if in.Contact != "" {
		user.Contact = sql.NullString{String: in.Contact, Valid: true}
	}
	if in.DOB != "" {
		user.DOB = sql.NullString{String: in.DOB, Valid: true}
	}

	if _, err := s.users.CreateUser(ctx, user); err != nil {
		if kindErr := duplicateKind(err); kindErr != nil {
			return nil, kindErr
		}
		logger.Error("[Register] user insert failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}

	logger.Info("[Register] account created", logger.String("username", in.Username))
	return user.ToProfile(), nil
}

// duplicateKind maps a repository duplicate sentinel to the matching
// AppError, or nil for other errors.
func duplicateKind(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return model.NewAppError(model.KindDuplicateUsername, "Username already taken")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return model.NewAppError(model.KindDuplicateEmail, "Email already registered")
	case errors.Is(err, repository.ErrDuplicateContact):
		return model.NewAppError(model.KindDuplicateContact, "Mobile number already registered")
	}
	return nil
}

// Login verifies the credentials and returns the user. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, model.ValidationError("Username and password are required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Error("[Login] user lookup failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		logger.Warn("[Login] invalid credentials", logger.String("username", username))
		return nil, model.NewAppError(model.KindInvalidCredentials, "invalid credentials")
	}

	logger.Info("[Login] login successful", logger.String("username", username))
	return user, nil
}

// GetProfile returns the profile for a username.
func (s *Service) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Error("[Profile] user lookup failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if user == nil {
		return nil, model.NewAppError(model.KindNotFound, "User not found")
	}
	return user.ToProfile(), nil
}

// UpdateProfileInput is a partial profile update. Nil fields are left
// untouched; username, email, student ID and password are immutable here.
type UpdateProfileInput struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Gender  *string `json:"gender"`
	DOB     *string `json:"dob"`
}

func (in UpdateProfileInput) empty() bool {
	return in.Name == nil && in.Contact == nil && in.Gender == nil && in.DOB == nil
}

// UpdateProfile applies a partial update to name, contact, gender and
// date-of-birth. A changed contact is re-checked for uniqueness; a changed
// birthdate must sit within the allowed window and may be edited at most
// once after it was first set.
func (s *Service) UpdateProfile(ctx context.Context, username string, in UpdateProfileInput) (*model.Profile, error) {
	if in.empty() {
		return nil, model.ValidationError("No fields to update")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Error("[Profile] user lookup failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if user == nil {
		return nil, model.NewAppError(model.KindNotFound, "User not found")
	}

	if in.Name != nil {
		// Validation and storage both see the trimmed value.
		trimmed := strings.TrimSpace(*in.Name)
		if err := validate.FullName(trimmed); err != nil {
			return nil, err
		}
		in.Name = &trimmed
	}
	if in.Contact != nil && *in.Contact != "" {
		if err := validate.Contact(*in.Contact); err != nil {
			return nil, err
		}
		other, err := s.users.GetUserByContact(ctx, *in.Contact)
		if err != nil {
			logger.Error("[Profile] contact lookup failed", logger.ErrorField(err))
			return nil, model.ServerError()
		}
		if other != nil && other.Username != username {
			return nil, model.NewAppError(model.KindDuplicateContact, "Mobile number already registered")
		}
	}

	if in.DOB != nil && *in.DOB != "" && *in.DOB != user.DOB.String {
		if err := validate.DOBWithinBounds(*in.DOB, s.now()); err != nil {
			return nil, err
		}
		hadDOB := user.DOB.Valid && user.DOB.String != ""
		if hadDOB && user.DOBEditCount >= 1 {
			return nil, model.NewAppError(model.KindInvalidOperation, "Birthdate can only be edited once")
		}
		// The first set is free; a later change burns the single edit.
		if err := s.users.UpdateDOB(ctx, username, *in.DOB, hadDOB); err != nil {
			logger.Error("[Profile] dob update failed", logger.ErrorField(err))
			return nil, model.ServerError()
		}
	}

	update := repository.ProfileUpdate{
		Name:    in.Name,
		Contact: in.Contact,
		Gender:  in.Gender,
	}
	if !update.Empty() {
		if err := s.users.UpdateProfile(ctx, username, update); err != nil {
			if kindErr := duplicateKind(err); kindErr != nil {
				return nil, kindErr
			}
			logger.Error("[Profile] profile update failed", logger.ErrorField(err))
			return nil, model.ServerError()
		}
	}

	return s.GetProfile(ctx, username)
}

// ChangePassword verifies the current password and stores a hash of the new
// one.
func (s *Service) ChangePassword(ctx context.Context, username, current, newPassword string) error {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Error("[ChangePassword] user lookup failed", logger.ErrorField(err))
		return model.ServerError()
	}
	if user == nil {
		return model.NewAppError(model.KindNotFound, "User not found")
	}
	if !auth.VerifyPassword(current, user.PasswordHash) {
		return model.NewAppError(model.KindInvalidCredentials, "Current password is incorrect")
	}
	if err := validate.Password(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		logger.Error("[ChangePassword] password hashing failed", logger.ErrorField(err))
		return model.ServerError()
	}
	if err := s.users.UpdatePassword(ctx, username, hash); err != nil {
		logger.Error("[ChangePassword] password update failed", logger.ErrorField(err))
		return model.ServerError()
	}

	logger.Info("[ChangePassword] password changed", logger.String("username", username))
	return nil
}

// UpdateProfilePicture stores an uploaded avatar (base64 data URL) and
// records its URL on the account.
func (s *Service) UpdateProfilePicture(ctx context.Context, username, dataURL string) (*model.Profile, error) {
	contentType, ext, data, err := storage.DecodeImageDataURL(dataURL)
	if err != nil {
		return nil, model.ValidationError(err.Error())
	}

	objectName := "avatars/" + uuid.NewString() + ext
	url, err := s.images.Save(ctx, objectName, data, contentType)
	if err != nil {
		logger.Error("[Profile] avatar upload failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}

	if err := s.users.UpdateImageURL(ctx, username, url); err != nil {
		logger.Error("[Profile] avatar update failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}
	return s.GetProfile(ctx, username)
}
