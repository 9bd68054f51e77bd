package account

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/HnnhKylSdsBrl/ClassCart/core/auth"
	"github.com/HnnhKylSdsBrl/ClassCart/model"
	"github.com/HnnhKylSdsBrl/ClassCart/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memUserRepo is an in-memory UserRepository mirroring the MySQL behaviour,
// including the unique-index rejection on insert.
type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return 0, repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return 0, repository.ErrDuplicateEmail
		}
		if user.Contact.Valid && u.Contact.Valid && u.Contact.String == user.Contact.String {
			return 0, repository.ErrDuplicateContact
		}
	}
	cp := *user
	cp.ID = r.nextID
	r.nextID++
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.users[cp.Username] = &cp
	user.ID = cp.ID
	return cp.ID, nil
}

func (r *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetUserByContact(ctx context.Context, contact string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Contact.Valid && u.Contact.String == contact {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, username string, update repository.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Contact != nil {
		// Mirror the unique index: only stored non-null values collide.
		if *update.Contact != "" {
			for name, other := range r.users {
				if name != username && other.Contact.Valid && other.Contact.String == *update.Contact {
					return repository.ErrDuplicateContact
				}
			}
		}
		u.Contact = sql.NullString{String: *update.Contact, Valid: *update.Contact != ""}
	}
	if update.Gender != nil {
		u.Gender = sql.NullString{String: *update.Gender, Valid: *update.Gender != ""}
	}
	return nil
}

func (r *memUserRepo) UpdateDOB(ctx context.Context, username, dob string, countEdit bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil
	}
	u.DOB = sql.NullString{String: dob, Valid: true}
	if countEdit {
		u.DOBEditCount++
	}
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *memUserRepo) UpdateImageURL(ctx context.Context, username, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		u.ImageURL = sql.NullString{String: imageURL, Valid: true}
	}
	return nil
}

// memImageStore records saved objects without real storage.
type memImageStore struct {
	saved map[string][]byte
}

func newMemImageStore() *memImageStore {
	return &memImageStore{saved: make(map[string][]byte)}
}

func (s *memImageStore) Save(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	s.saved[objectName] = data
	return "/static/" + objectName, nil
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:      "Juan Dela Cruz",
		Email:     "jdcruz@mcm.edu.ph",
		StudentID: "2023456789",
		Username:  "jdcruz",
		Password:  "abc12345",
		Confirm:   "abc12345",
		Contact:   "09171234567",
	}
}

func newTestService(repo *memUserRepo) *Service {
	s := NewService(repo, newMemImageStore())
	s.now = func() time.Time {
		return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newMemUserRepo()
	s := newTestService(repo)

	profile, err := s.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "jdcruz", profile.Username)
	assert.Equal(t, 0, profile.DOBEditCount)

	stored, err := repo.GetUserByUsername(context.Background(), "jdcruz")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "abc12345", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword("abc12345", stored.PasswordHash))
}

func TestRegisterValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		kind   model.ErrorKind
	}{
		{"bad name", func(in *RegisterInput) { in.Name = "Jo" }, model.KindValidation},
		{"bad email", func(in *RegisterInput) { in.Email = "jdcruz@gmail.com" }, model.KindValidation},
		{"bad student id", func(in *RegisterInput) { in.StudentID = "1234567890" }, model.KindValidation},
		{"bad username", func(in *RegisterInput) { in.Username = "x" }, model.KindValidation},
		{"bad password", func(in *RegisterInput) { in.Password, in.Confirm = "nopass", "nopass" }, model.KindValidation},
		{"bad contact", func(in *RegisterInput) { in.Contact = "12345" }, model.KindValidation},
		{"password mismatch", func(in *RegisterInput) { in.Confirm = "abc12346" }, model.KindValidation},
		{"underage dob", func(in *RegisterInput) { in.DOB = "2012-01-01" }, model.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(newMemUserRepo())
			in := validRegistration()
			tt.mutate(&in)
			_, err := s.Register(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, model.KindOf(err))
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestService(newMemUserRepo())

	_, err := s.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	// Same username, different email and contact.
	in := validRegistration()
	in.Email = "other@mcm.edu.ph"
	in.Contact = "09181234567"
	_, err = s.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, model.KindDuplicateUsername, model.KindOf(err))
}

func TestRegisterDuplicateEmailAndContact(t *testing.T) {
	s := newTestService(newMemUserRepo())

	_, err := s.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	in.Username = "otheruser"
	in.Contact = "09181234567"
	_, err = s.Register(context.Background(), in)
	assert.Equal(t, model.KindDuplicateEmail, model.KindOf(err))

	in = validRegistration()
	in.Username = "otheruser"
	in.Email = "other@mcm.edu.ph"
	_, err = s.Register(context.Background(), in)
	assert.Equal(t, model.KindDuplicateContact, model.KindOf(err))
}

func TestLogin(t *testing.T) {
	s := newTestService(newMemUserRepo())
	_, err := s.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user, err := s.Login(context.Background(), "jdcruz", "abc12345")
	require.NoError(t, err)
	assert.Equal(t, "jdcruz", user.Username)

	// Unknown user and wrong password produce the same error.
	_, errUnknown := s.Login(context.Background(), "nobody", "abc12345")
	_, errWrongPw := s.Login(context.Background(), "jdcruz", "wrong1234")
	assert.Equal(t, model.KindInvalidCredentials, model.KindOf(errUnknown))
	assert.Equal(t, model.KindInvalidCredentials, model.KindOf(errWrongPw))
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileNoFields(t *testing.T) {
	s := newTestService(newMemUserRepo())
	_, err := s.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = s.UpdateProfile(context.Background(), "jdcruz", UpdateProfileInput{})
	require.Error(t, err)
	assert.Equal(t, model.KindValidation, model.KindOf(err))
	assert.EqualError(t, err, "No fields to update")
}

func TestUpdateProfileDOBEditCounter(t *testing.T) {
	s := newTestService(newMemUserRepo())
	in := validRegistration()
	in.DOB = "" // start without a birthdate
	_, err := s.Register(context.Background(), in)
	require.NoError(t, err)
	ctx := context.Background()

	// First set is free.
	profile, err := s.UpdateProfile(ctx, "jdcruz", UpdateProfileInput{DOB: strPtr("2005-06-01")})
	require.NoError(t, err)
	assert.Equal(t, "2005-06-01", profile.DOB)
	assert.Equal(t, 0, profile.DOBEditCount)

	// Re-submitting the same value is a no-op, not an edit.
	profile, err = s.UpdateProfile(ctx, "jdcruz", UpdateProfileInput{DOB: strPtr("2005-06-01")})
	require.NoError(t, err)
	assert.Equal(t, 0, profile.DOBEditCount)

	// One change is allowed and burns the edit.
	profile, err = s.UpdateProfile(ctx, "jdcruz", UpdateProfileInput{DOB: strPtr("2005-07-01")})
	require.NoError(t, err)
	assert.Equal(t, "2005-07-01", profile.DOB)
	assert.Equal(t, 1, profile.DOBEditCount)

	// A further change is rejected.
	_, err = s.UpdateProfile(ctx, "jdcruz", UpdateProfileInput{DOB: strPtr("2005-08-01")})
	require.Error(t, err)
	assert.Equal(t, model.KindInvalidOperation, model.KindOf(err))
	assert.EqualError(t, err, "Birthdate can only be edited once")
}

func TestUpdateProfileDOBBounds(t *testing.T) {
	s := newTestService(newMemUserRepo())
	in := validRegistration()
	in.DOB = ""
	_, err := s.Register(context.Background(), in)
	require.NoError(t, err)

	// Older than 35 years relative to the fixed test clock.
	_, err = s.UpdateProfile(context.Background(), "jdcruz", UpdateProfileInput{DOB: strPtr("1980-01-01")})
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	// Later than the fixed upper bound.
	_, err = s.UpdateProfile(context.Background(), "jdcruz", UpdateProfileInput{DOB: strPtr("2015-06-01")})
	assert.Equal(t, model.KindValidation, model.KindOf(err))
}

func TestUpdateProfileContactUniqueness(t *testing.T) {
	s := newTestService(newMemUserRepo())
	ctx := context.Background()

	_, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)

	other := validRegistration()
	other.Username = "otheruser"
	other.Email = "other@mcm.edu.ph"
	other.Contact = "09181234567"
	_, err = s.Register(ctx, other)
	require.NoError(t, err)

	// Taking the first user's number must fail.
	_, err = s.UpdateProfile(ctx, "otheruser", UpdateProfileInput{Contact: strPtr("09171234567")})
	assert.Equal(t, model.KindDuplicateContact, model.KindOf(err))

	// Re-submitting your own number is fine.
	_, err = s.UpdateProfile(ctx, "jdcruz", UpdateProfileInput{Contact: strPtr("09171234567")})
	assert.NoError(t, err)
}

func TestUpdateProfileClearContact(t *testing.T) {
	s := newTestService(newMemUserRepo())
	ctx := context.Background()

	_, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)

	other := validRegistration()
	other.Username = "otheruser"
	other.Email = "other@mcm.edu.ph"
	other.Contact = "09181234567"
	_, err = s.Register(ctx, other)
	require.NoError(t, err)

	// Both users clear their numbers; cleared contacts must not collide.
	profile, err := s.UpdateProfile(ctx, "jdcruz", UpdateProfileInput{Contact: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, profile.Contact)

	profile, err = s.UpdateProfile(ctx, "otheruser", UpdateProfileInput{Contact: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, profile.Contact)

	// A cleared number is free for someone else to take.
	_, err = s.UpdateProfile(ctx, "otheruser", UpdateProfileInput{Contact: strPtr("09171234567")})
	assert.NoError(t, err)
}

func TestRegisterTrimsName(t *testing.T) {
	s := newTestService(newMemUserRepo())
	in := validRegistration()
	in.Name = "  Maria Clara Ibarra   "

	profile, err := s.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Maria Clara Ibarra", profile.Name)
}

func TestUpdateProfileTrimsName(t *testing.T) {
	s := newTestService(newMemUserRepo())
	ctx := context.Background()
	_, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)

	profile, err := s.UpdateProfile(ctx, "jdcruz", UpdateProfileInput{Name: strPtr("  Maria Clara Ibarra   ")})
	require.NoError(t, err)
	assert.Equal(t, "Maria Clara Ibarra", profile.Name)
}

func TestChangePassword(t *testing.T) {
	s := newTestService(newMemUserRepo())
	ctx := context.Background()
	_, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)

	err = s.ChangePassword(ctx, "jdcruz", "wrongpass1", "newpass123")
	assert.Equal(t, model.KindInvalidCredentials, model.KindOf(err))

	err = s.ChangePassword(ctx, "jdcruz", "abc12345", "bad")
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	err = s.ChangePassword(ctx, "jdcruz", "abc12345", "newpass123")
	require.NoError(t, err)

	_, err = s.Login(ctx, "jdcruz", "newpass123")
	assert.NoError(t, err)
	_, err = s.Login(ctx, "jdcruz", "abc12345")
	assert.Equal(t, model.KindInvalidCredentials, model.KindOf(err))
}

func TestUpdateProfilePicture(t *testing.T) {
	repo := newMemUserRepo()
	s := newTestService(repo)
	ctx := context.Background()
	_, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)

	// 1x1 PNG, base64-encoded.
	dataURL := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="
	profile, err := s.UpdateProfilePicture(ctx, "jdcruz", dataURL)
	require.NoError(t, err)
	assert.Contains(t, profile.ImageURL, "/static/avatars/")
	assert.Contains(t, profile.ImageURL, ".png")

	_, err = s.UpdateProfilePicture(ctx, "jdcruz", "data:text/plain;base64,aGVsbG8=")
	assert.Equal(t, model.KindValidation, model.KindOf(err))
}
