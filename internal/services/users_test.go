package services

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/logging"
	"github.com/dmitrijs2005/catcurious/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_AliceScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.users.CreateAccount(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.NoError(t, f.users.Authenticate(ctx, "alice", "pw1"))

	err = f.users.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, f.users.UpdatePassword(ctx, "alice", "pw1", "pw2"))

	assert.ErrorIs(t, f.users.Authenticate(ctx, "alice", "pw1"), common.ErrInvalidCredentials)
	assert.NoError(t, f.users.Authenticate(ctx, "alice", "pw2"))
}

func TestCreateAccount_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		password string
	}{
		{"empty username", "", "pw"},
		{"empty password", "alice", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}
			s := NewUserService(nil, &fakeManager{users: repo}, newTestHasher(t))

			_, err := s.CreateAccount(context.Background(), tt.userName, tt.password)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
			assert.Zero(t, repo.calls, "store must not be touched")
		})
	}
}

func TestCreateAccount_DuplicateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateAccount(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = f.users.CreateAccount(ctx, "alice", "other")
	assert.ErrorIs(t, err, common.ErrDuplicateUser)

	// the original password still works
	assert.NoError(t, f.users.Authenticate(ctx, "alice", "pw1"))
}

func TestCreateAccount_StoresSaltedHashOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateAccount(ctx, "alice", "hunter2")
	require.NoError(t, err)
	_, err = f.users.CreateAccount(ctx, "bob", "hunter2")
	require.NoError(t, err)

	alice := f.storedUser(t, "alice")
	bob := f.storedUser(t, "bob")

	assert.Len(t, alice.Salt, 2*16, "hex of 16 bytes")
	assert.NotContains(t, alice.PasswordHash, "hunter2")
	assert.NotContains(t, alice.Salt, "alice")
	assert.NotEqual(t, alice.Salt, bob.Salt)
	assert.NotEqual(t, alice.PasswordHash, bob.PasswordHash, "same password, different salt")
	assert.False(t, alice.Deleted)
}

func TestCreateAccount_SaltsAreFresh(t *testing.T) {
	if testing.Short() {
		t.Skip("creates 10000 accounts")
	}

	ctx := context.Background()
	f := newFixture(t)

	const n = 10000
	for i := 0; i < n; i++ {
		_, err := f.users.CreateAccount(ctx, "user"+strconv.Itoa(i), "same-password")
		require.NoError(t, err)
	}

	rows, err := f.db.Query(`select salt from users`)
	require.NoError(t, err)
	defer rows.Close()

	seen := make(map[string]struct{}, n)
	for rows.Next() {
		var salt string
		require.NoError(t, rows.Scan(&salt))
		_, dup := seen[salt]
		require.False(t, dup, "salt collision")
		seen[salt] = struct{}{}
	}
	require.NoError(t, rows.Err())
	assert.Len(t, seen, n)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.users.Authenticate(ctx, "ghost", "pw")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)

	// same public message as a wrong password
	_, err2 := f.users.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err2)
	wrong := f.users.Authenticate(ctx, "alice", "nope")
	assert.True(t, errors.Is(wrong, common.ErrUnauthorized) && errors.Is(err, common.ErrUnauthorized))

	require.Len(t, f.obs.auth, 2)
	assert.ErrorIs(t, f.obs.auth[0], common.ErrUserNotFound)
	assert.ErrorIs(t, f.obs.auth[1], common.ErrInvalidCredentials)
}

func TestAuthenticate_IsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.Authenticate(ctx, "Alice", "pw"), common.ErrUserNotFound)
	assert.ErrorIs(t, f.users.Authenticate(ctx, "alice", "PW"), common.ErrInvalidCredentials)
}

func TestAuthenticate_CorruptStoredHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.db.Exec(`insert into users (username, salt, password_hash) values ('mallory', 'zz', 'garbage')`)
	require.NoError(t, err)

	err = f.users.Authenticate(ctx, "mallory", "pw")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.NotErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthenticate_StorageError(t *testing.T) {
	boom := common.StorageError("select user", errors.New("conn refused"))
	s := NewUserService(nil, &fakeManager{users: &fakeUsersRepo{getErr: boom}}, newTestHasher(t))

	err := s.Authenticate(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.NotErrorIs(t, err, common.ErrUnauthorized)
}

func TestUpdatePassword_InvalidInput(t *testing.T) {
	tests := []struct {
		name             string
		user, oldP, newP string
	}{
		{"empty username", "", "a", "b"},
		{"empty old", "alice", "", "b"},
		{"empty new", "alice", "a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}
			s := NewUserService(nil, &fakeManager{users: repo}, newTestHasher(t))

			err := s.UpdatePassword(context.Background(), tt.user, tt.oldP, tt.newP)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
			assert.Zero(t, repo.calls)
		})
	}
}

func TestUpdatePassword_WrongOldPasswordLeavesAccountUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateAccount(ctx, "alice", "pw1")
	require.NoError(t, err)
	before := f.storedUser(t, "alice")

	err = f.users.UpdatePassword(ctx, "alice", "wrong", "pw2")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	after := f.storedUser(t, "alice")
	assert.Equal(t, before, after)
	assert.NoError(t, f.users.Authenticate(ctx, "alice", "pw1"))
}

func TestUpdatePassword_UnknownUser(t *testing.T) {
	f := newFixture(t)

	err := f.users.UpdatePassword(context.Background(), "ghost", "a", "b")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUpdatePassword_AlwaysNewSalt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)
	first := f.storedUser(t, "alice")

	// rotating to the same password still changes salt and hash
	require.NoError(t, f.users.UpdatePassword(ctx, "alice", "pw", "pw"))
	second := f.storedUser(t, "alice")

	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, f.users.Authenticate(ctx, "alice", "pw"))
}

func TestUpdatePassword_LostCompareAndSwap(t *testing.T) {
	h := newTestHasher(t)
	salt, err := h.NewSalt()
	require.NoError(t, err)
	hash, err := h.Hash([]byte("pw1"), salt)
	require.NoError(t, err)

	repo := &fakeUsersRepo{
		getOut:    &models.User{ID: 1, UserName: "alice", Salt: salt, PasswordHash: hash},
		updateErr: common.ErrNotFound,
	}
	s := NewUserService(nil, &fakeManager{users: repo}, h)

	err = s.UpdatePassword(context.Background(), "alice", "pw1", "pw2")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUpdatePassword_ConcurrentRotationsOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateAccount(ctx, "alice", "pw0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.users.UpdatePassword(ctx, "alice", "pw0", "new"+strconv.Itoa(i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		if err == nil {
			winners++
			assert.NoError(t, f.users.Authenticate(ctx, "alice", "new"+strconv.Itoa(i)))
			continue
		}
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	}
	assert.Equal(t, 1, winners)
	assert.ErrorIs(t, f.users.Authenticate(ctx, "alice", "pw0"), common.ErrInvalidCredentials)
}

func TestGetUserID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)
	bobID, err := f.users.CreateAccount(ctx, "bob", "pw")
	require.NoError(t, err)

	got, err := f.users.GetUserID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bobID, got)

	_, err = f.users.GetUserID(ctx, "carol")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = f.users.GetUserID(ctx, "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUserService_LogsNoSecrets(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := logging.NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	f := newFixture(t, WithLogger(log))

	_, err := f.users.CreateAccount(ctx, "alice", "first-secret")
	require.NoError(t, err)
	_ = f.users.Authenticate(ctx, "alice", "bad-secret")
	_ = f.users.Authenticate(ctx, "nobody", "other-secret")
	require.NoError(t, f.users.UpdatePassword(ctx, "alice", "first-secret", "second-secret"))

	stored := f.storedUser(t, "alice")
	out := buf.String()

	require.NotEmpty(t, out)
	for _, secret := range []string{"first-secret", "bad-secret", "other-secret", "second-secret", stored.Salt, stored.PasswordHash} {
		assert.NotContains(t, out, secret)
	}
	assert.Contains(t, out, `"op":"update_password"`)
}

func TestUserService_ReportsOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _ = f.users.CreateAccount(ctx, "alice", "pw")
	_ = f.users.Authenticate(ctx, "alice", "pw")
	_ = f.users.UpdatePassword(ctx, "alice", "pw", "pw2")
	_, _ = f.users.GetUserID(ctx, "alice")

	assert.Equal(t, []string{OpCreateAccount, OpAuthenticate, OpUpdatePassword, OpGetUserID}, f.obs.ops())
	// authenticate + the check inside update_password
	assert.Len(t, f.obs.auth, 2)
}
