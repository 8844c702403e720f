// Package services contains the business logic over the repositories. This
// file implements UserService: account creation, password authentication
// and password rotation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/models"
	"github.com/dmitrijs2005/catcurious/internal/repositories/repomanager"
)

// UserService manages accounts. Failed authentications return
// common.ErrUserNotFound or common.ErrInvalidCredentials; both match
// common.ErrUnauthorized, which is what callers should surface.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	opts        options

	dummyOnce sync.Once
	dummySalt string
	dummyHash string
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, opts ...Option) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		opts:        newOptions(opts),
	}
}

// CreateAccount stores a new user with a fresh salt and returns its id.
func (s *UserService) CreateAccount(ctx context.Context, userName, password string) (id int64, err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpCreateAccount, start, err, "username", userName, "user_id", id) }()

	if err := validateInput(accountInput{UserName: userName, Password: password}); err != nil {
		return 0, err
	}

	salt, hash, err := s.derive(password)
	if err != nil {
		return 0, err
	}

	user := &models.User{UserName: userName, Salt: salt, PasswordHash: hash}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return 0, err
	}

	return u.ID, nil
}

// Authenticate checks password against the stored hash for userName.
func (s *UserService) Authenticate(ctx context.Context, userName, password string) (err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpAuthenticate, start, err, "username", userName) }()

	_, err = s.authenticate(ctx, userName, password)
	return err
}

// UpdatePassword replaces the salt and hash of userName after checking
// oldPassword. The write succeeds only if the credentials are still the
// ones that were verified; a concurrent rotation makes it fail with
// common.ErrInvalidCredentials and leaves the winner's credentials in place.
func (s *UserService) UpdatePassword(ctx context.Context, userName, oldPassword, newPassword string) (err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpUpdatePassword, start, err, "username", userName) }()

	in := passwordChangeInput{UserName: userName, OldPassword: oldPassword, NewPassword: newPassword}
	if err := validateInput(in); err != nil {
		return err
	}

	user, err := s.authenticate(ctx, userName, oldPassword)
	if err != nil {
		return err
	}

	salt, hash, err := s.derive(newPassword)
	if err != nil {
		return err
	}

	err = s.repomanager.Users(s.db).UpdateCredentials(ctx, userName, user.Salt, user.PasswordHash, salt, hash)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrInvalidCredentials
	}
	return err
}

// GetUserID returns the id of userName.
func (s *UserService) GetUserID(ctx context.Context, userName string) (id int64, err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpGetUserID, start, err, "username", userName) }()

	if userName == "" {
		return 0, fmt.Errorf("%w: UserName (required)", common.ErrInvalidInput)
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, common.ErrUserNotFound
		}
		return 0, err
	}
	return user.ID, nil
}

// authenticate verifies password and returns the user row that was checked.
// Every call is reported to the observer as an auth attempt.
func (s *UserService) authenticate(ctx context.Context, userName, password string) (user *models.User, err error) {
	defer func() { s.opts.observer.AuthAttempt(err) }()

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	user, err = s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// same work as a real check so absence is not visible in timing
			s.dummyVerify(pw)
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, pw, user.Salt)
	if err != nil {
		return nil, common.StorageError("verify stored password hash", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// derive returns a fresh salt and the hash of password under it.
func (s *UserService) derive(password string) (string, string, error) {
	salt, err := s.hasher.NewSalt()
	if err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	hash, err := s.hasher.Hash(pw, salt)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return salt, hash, nil
}

func (s *UserService) dummyVerify(password []byte) {
	s.dummyOnce.Do(func() {
		salt, err := s.hasher.NewSalt()
		if err != nil {
			return
		}
		hash, err := s.hasher.Hash(common.GenerateRandByteArray(32), salt)
		if err != nil {
			return
		}
		s.dummySalt, s.dummyHash = salt, hash
	})

	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(s.dummyHash, password, s.dummySalt)
	}
}
