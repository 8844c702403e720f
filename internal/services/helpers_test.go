package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/catcurious/internal/cryptox"
	"github.com/dmitrijs2005/catcurious/internal/dbx"
	"github.com/dmitrijs2005/catcurious/internal/models"
	"github.com/dmitrijs2005/catcurious/internal/repositories/cats"
	"github.com/dmitrijs2005/catcurious/internal/repositories/repomanager"
	"github.com/dmitrijs2005/catcurious/internal/repositories/users"
	"github.com/dmitrijs2005/catcurious/internal/testutil/sqlitetest"
	"github.com/stretchr/testify/require"
)

// cheap argon2 parameters keep the suite fast
var testParams = cryptox.Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32}

func newTestHasher(t testing.TB) *cryptox.Hasher {
	t.Helper()
	h, err := cryptox.NewHasher(testParams, cryptox.MinSaltSize)
	require.NoError(t, err)
	return h
}

type fixture struct {
	db    *sql.DB
	users *UserService
	cats  *CatService
	obs   *recordingObserver
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	t.Helper()
	db := sqlitetest.Open(t)
	m := repomanager.NewSQLiteRepositoryManager(nil)
	obs := &recordingObserver{}
	opts = append([]Option{WithObserver(obs)}, opts...)
	return &fixture{
		db:    db,
		users: NewUserService(db, m, newTestHasher(t), opts...),
		cats:  NewCatService(db, m, opts...),
		obs:   obs,
	}
}

func (f *fixture) storedUser(t *testing.T, userName string) *models.User {
	t.Helper()
	u, err := users.NewSQLiteRepository(f.db).GetUserByLogin(context.Background(), userName)
	require.NoError(t, err)
	return u
}

type outcome struct {
	op  string
	err error
}

type recordingObserver struct {
	mu       sync.Mutex
	auth     []error
	outcomes []outcome
}

func (r *recordingObserver) AuthAttempt(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auth = append(r.auth, err)
}

func (r *recordingObserver) Operation(op string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome{op: op, err: err})
}

func (r *recordingObserver) ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.outcomes))
	for i, o := range r.outcomes {
		out[i] = o.op
	}
	return out
}

// fakeManager vends fake repositories for error-path tests.
type fakeManager struct {
	users *fakeUsersRepo
	cats  *fakeCatsRepo
}

func (m *fakeManager) Dialect() string                              { return "fake" }
func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) ResetSchema(context.Context, *sql.DB) error   { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeManager) Cats(dbx.DBTX) cats.Repository                { return m.cats }
func (m *fakeManager) TableExists(context.Context, dbx.DBTX, string) (bool, error) {
	return true, nil
}

var _ repomanager.RepositoryManager = (*fakeManager)(nil)

type fakeUsersRepo struct {
	calls int

	createErr error
	getOut    *models.User
	getErr    error
	updateErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	f.calls++
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) UpdateCredentials(context.Context, string, string, string, string, string) error {
	f.calls++
	return f.updateErr
}

type fakeCatsRepo struct {
	calls int
	err   error
}

func (f *fakeCatsRepo) Create(_ context.Context, c *models.Cat) (*models.Cat, error) {
	f.calls++
	return c, f.err
}

func (f *fakeCatsRepo) GetByID(context.Context, int64) (*models.Cat, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeCatsRepo) GetByName(context.Context, string) (*models.Cat, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeCatsRepo) DeleteByID(context.Context, int64) error {
	f.calls++
	return f.err
}

func (f *fakeCatsRepo) Clear(context.Context) error {
	f.calls++
	return f.err
}
