package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/app/auth"
	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	pkgauth "github.com/emblabrowall/donosti-guide/internal/pkg/auth"
	"github.com/emblabrowall/donosti-guide/internal/pkg/filestorage"
	"github.com/emblabrowall/donosti-guide/internal/pkg/identity"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

var errStorageDown = errors.New("storage down")

type fakePhotos struct {
	mu      sync.Mutex
	objects map[string]*filestorage.Photo
	failing bool
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{objects: make(map[string]*filestorage.Photo)}
}

func (f *fakePhotos) SavePhoto(ctx context.Context, name string, photo *filestorage.Photo) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return "", errStorageDown
	}
	f.objects[name] = photo
	return "https://photos.test/" + name, nil
}

func (f *fakePhotos) DeletePhoto(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, name)
	return nil
}

func (f *fakePhotos) has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[name]
	return ok
}

type testEnv struct {
	repos    *repositories.Repositories
	provider *identity.LocalProvider
	photos   *fakePhotos
	now      time.Time

	posts       PostService
	forum       ForumService
	ledger      LedgerService
	calendar    CalendarService
	accounts    AccountService
	admin       AdminService
	analytics   AnalyticsService
	leaderboard LeaderboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := kvstore.NewMemoryStore()
	repos := repositories.NewRepositories(store)
	_, err := repos.SettingsRepository.EnsureVerificationCodes(context.Background(), []string{"DONOSTI2025"})
	require.NoError(t, err)

	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	env := &testEnv{
		repos:    repos,
		provider: identity.NewLocalProvider(store, jwt, bcrypt.MinCost),
		photos:   newFakePhotos(),
		now:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	clock := Clock(func() time.Time { return env.now })
	log := zerolog.Nop()
	authz := auth.NewAuthorizationService(log)
	policy := AccountPolicy{AdminCode: "CASAPINA2025", AdminEmails: []string{"boss@donosti.test"}}

	env.posts = NewPostService(repos, authz, env.photos, clock, log)
	env.forum = NewForumService(repos, authz, clock, log)
	env.ledger = NewLedgerService(repos, authz, log)
	env.calendar = NewCalendarService(repos, authz, clock, log)
	env.accounts = NewAccountService(repos, env.provider, policy, clock, log)
	env.admin = NewAdminService(repos, env.provider, authz, env.photos, clock, log)
	env.analytics = NewAnalyticsService(repos, log)
	env.leaderboard = NewLeaderboardService(repos, DefaultScoreWeights, 10)
	return env
}

// tick advances the test clock so that timestamps are strictly ordered
func (e *testEnv) tick() {
	e.now = e.now.Add(time.Minute)
}

func asUser(id string) *models.Actor {
	return &models.Actor{ID: id, Email: id + "@example.com", Name: "User " + id}
}

func asAdmin(id string) *models.Actor {
	a := asUser(id)
	a.Admin = true
	return a
}
