package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fitfam/internal/apperror"
	"fitfam/internal/credentials"
	"fitfam/internal/database"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/security"
)

type testEnv struct {
	users       *repository.UserRepository
	families    *repository.FamilyRepository
	memberships *repository.MembershipRepository
	workouts    *repository.WorkoutRepository
	movements   *repository.MovementRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations("../../migrations"))

	return &testEnv{
		users:       repository.NewUserRepository(db, bcrypt.MinCost),
		families:    repository.NewFamilyRepository(db),
		memberships: repository.NewMembershipRepository(db),
		workouts:    repository.NewWorkoutRepository(db),
		movements:   repository.NewMovementRepository(db),
	}
}

func TestAuthService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokens := security.NewTokenManager("test-secret", time.Hour)
	auth := NewAuthService(env.users, tokens, nil)

	bio := "<b>Lifter</b>"
	token, user, err := auth.Register(ctx, models.NewUser{
		Email:     "ann@example.com",
		Password:  "password123",
		FirstName: "Ann",
		LastName:  "Smith",
		IsAdmin:   true,
		Bio:       &bio,
	})
	require.NoError(t, err)
	assert.False(t, user.IsAdmin, "registration must not grant admin")
	assert.Equal(t, "Lifter", *user.Bio)

	actor, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, Actor{UserID: user.ID, IsAdmin: false}, actor)

	t.Run("login", func(t *testing.T) {
		token, _, err := auth.Login(ctx, "ann@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		_, _, err = auth.Login(ctx, "ann@example.com", "wrong-password")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("oauth reuses account by email", func(t *testing.T) {
		_, existing, err := auth.OAuthLogin(ctx, "ann@example.com", "Ann", "Smith")
		require.NoError(t, err)
		assert.Equal(t, user.ID, existing.ID)

		_, created, err := auth.OAuthLogin(ctx, "newbie@example.com", "", "")
		require.NoError(t, err)
		assert.Equal(t, "newbie", created.FirstName)
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := auth.VerifyToken("garbage")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestFamilyService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	families := NewFamilyService(env.families, env.memberships)

	ann, err := env.users.Create(ctx, models.NewUser{Email: "ann@example.com", Password: "password123", FirstName: "Ann", LastName: "Smith"})
	require.NoError(t, err)
	bob, err := env.users.Create(ctx, models.NewUser{Email: "bob@example.com", Password: "password123", FirstName: "Bob", LastName: "Jones"})
	require.NoError(t, err)

	fam, err := families.CreateFamily(ctx, models.NewFamily{FamilyName: "Smiths"}, ann.ID)
	require.NoError(t, err)
	require.NotNil(t, fam.JoinCode)
	assert.True(t, credentials.IsJoinCode(*fam.JoinCode))

	creator, err := env.memberships.Find(ctx, ann.ID, fam.ID)
	require.NoError(t, err)
	assert.True(t, creator.IsAdmin)

	m, err := families.JoinFamilyByCode(ctx, bob.ID, " "+*fam.JoinCode+" ")
	require.NoError(t, err)
	assert.Equal(t, models.MemStatusActive, m.MemStatus)
	assert.False(t, m.IsAdmin)

	_, err = families.JoinFamilyByCode(ctx, bob.ID, *fam.JoinCode)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)

	t.Run("join code activates a pending membership", func(t *testing.T) {
		carl, err := env.users.Create(ctx, models.NewUser{Email: "carl@example.com", Password: "password123", FirstName: "Carl", LastName: "Brown"})
		require.NoError(t, err)
		pending := models.MemStatusPending
		_, err = env.memberships.Create(ctx, models.NewMembership{UserID: carl.ID, FamilyID: fam.ID, MemStatus: &pending})
		require.NoError(t, err)

		m, err := families.JoinFamilyByCode(ctx, carl.ID, *fam.JoinCode)
		require.NoError(t, err)
		assert.Equal(t, models.MemStatusActive, m.MemStatus)
	})

	_, err = families.JoinFamilyByCode(ctx, bob.ID, "strong-barbell-0000")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = families.JoinFamilyByCode(ctx, bob.ID, "")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

type fakeFeed struct {
	calls    int
	workouts []models.NewWorkout
	err      error
}

func (f *fakeFeed) Enabled() bool { return true }

func (f *fakeFeed) FeaturedWorkouts(_ context.Context, _ models.Date) ([]models.NewWorkout, error) {
	f.calls++
	return f.workouts, f.err
}

type fakeLocker struct {
	held     map[string]bool
	released []string
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	delete(l.held, key)
	l.released = append(l.released, key)
	return nil
}

func TestWorkoutServiceImportsFeatured(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	day, err := models.ParseDate("20240305")
	require.NoError(t, err)
	category := models.CategoryFeatured
	swID := "sw-1"

	feed := &fakeFeed{workouts: []models.NewWorkout{
		{SwID: &swID, Name: "Daily", Category: &category, FeaturedDate: &day},
	}}
	locker := &fakeLocker{held: map[string]bool{}}
	workouts := NewWorkoutService(env.workouts, feed, locker)

	list, err := workouts.FindAll(ctx, models.WorkoutFilter{FeaturedDate: &day})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Daily", list[0].Name)
	assert.Equal(t, []string{"featured:20240305"}, locker.released)

	_, err = workouts.FindAll(ctx, models.WorkoutFilter{FeaturedDate: &day})
	require.NoError(t, err)
	assert.Equal(t, 1, feed.calls, "a stored day is not fetched again")

	t.Run("lock held elsewhere", func(t *testing.T) {
		other, _ := models.ParseDate("20240306")
		locker.held["featured:20240306"] = true
		list, err := workouts.FindAll(ctx, models.WorkoutFilter{FeaturedDate: &other})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Equal(t, 1, feed.calls)
	})

	t.Run("feed failure still lists", func(t *testing.T) {
		failing := NewWorkoutService(env.workouts, &fakeFeed{err: errors.New("timeout")}, nil)
		other, _ := models.ParseDate("20240307")
		list, err := failing.FindAll(ctx, models.WorkoutFilter{FeaturedDate: &other})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

type fakeCatalogue struct{}

func (fakeCatalogue) Movements(context.Context) ([]models.Movement, error) {
	return []models.Movement{{ID: "thruster", Name: "Thruster"}, {ID: "pullup", Name: "Pull-up"}}, nil
}

func (fakeCatalogue) Benchmarks(_ context.Context, category string) ([]models.NewWorkout, error) {
	if category != models.CategoryGirls {
		return nil, nil
	}
	id := "fran"
	return []models.NewWorkout{{SwID: &id, Name: "Fran", Category: &category, MovementIDs: []string{"thruster", "pullup"}}}, nil
}

func TestSeedService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seed := NewSeedService(fakeCatalogue{}, env.movements, env.workouts)

	n, err := seed.SeedMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = seed.SeedBenchmarks(ctx, []string{models.CategoryGirls, models.CategoryHeroes})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// running again is a no-op
	n, err = seed.SeedBenchmarks(ctx, []string{models.CategoryGirls})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := env.workouts.FindAll(ctx, models.WorkoutFilter{MovementIDs: []string{"thruster"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fran", list[0].Name)
}
