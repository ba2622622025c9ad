// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package users

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/sec"
	"github.com/labramp/backbone/internal/resource"
)

// lowIterations keeps PBKDF2 affordable in tests while staying real.
const lowIterations = 1000

// fakeStore is an in-memory user Store.
type fakeStore struct {
	byID map[string]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]*User)}
}

func (store *fakeStore) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range store.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (store *fakeStore) FindByID(_ context.Context, id string) (*User, error) {
	user, ok := store.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (store *fakeStore) Insert(_ context.Context, user *User) error {
	copied := *user
	store.byID[user.ID] = &copied
	return nil
}

func (store *fakeStore) UpdatePassword(_ context.Context, id, encodedHash string, updatedAt time.Time) error {
	if user, ok := store.byID[id]; ok {
		user.Password = encodedHash
		user.UpdatedAt = updatedAt
	}
	return nil
}

func (store *fakeStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if user, ok := store.byID[id]; ok {
		user.LastLogin = &at
		user.UpdatedAt = at
	}
	return nil
}

// countingHasher counts key derivations so tests can assert that every login
// path performs the same amount of hashing work.
type countingHasher struct {
	hashCalls   int
	verifyCalls int
}

func (hasher *countingHasher) Hash(password, salt string, iterations int) (string, error) {
	hasher.hashCalls++
	return sec.HashPassword(password, salt, iterations)
}

func (hasher *countingHasher) Verify(password, encoded string) (bool, error) {
	hasher.verifyCalls++
	return sec.VerifyPassword(password, encoded)
}

func (hasher *countingHasher) derivations() int {
	return hasher.hashCalls + hasher.verifyCalls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, *fakeStore, *countingHasher) {
	t.Helper()

	store := newFakeStore()
	hasher := &countingHasher{}
	service := NewService(store, quietLogger(),
		WithHasher(hasher),
		WithIterations(lowIterations),
	)
	return service, store, hasher
}

func enrollUser(t *testing.T, service *Service, email string, active bool) *User {
	t.Helper()

	user, err := service.Create(context.Background(), CreateInput{
		Email:    email,
		Password: "correct horse",
		Active:   active,
	})
	require.NoError(t, err)
	return user
}

func TestService_LoginSuccess(t *testing.T) {
	service, store, _ := newTestService(t)
	ctx := context.Background()

	user := enrollUser(t, service, "ada@example.com", true)

	userID, err := service.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	stored, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin, "successful login must stamp last_login")
}

func TestService_LoginWrongPassword(t *testing.T) {
	service, _, _ := newTestService(t)

	enrollUser(t, service, "ada@example.com", true)

	userID, err := service.Login(context.Background(), "ada@example.com", "wrong")
	assert.Empty(t, userID)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
	assert.Equal(t, apperr.CategorySecurity, appError.Category)
}

// TestService_LoginConstantWork asserts the enumeration-resistance property:
// unknown email and wrong password cost exactly one key derivation each.
func TestService_LoginConstantWork(t *testing.T) {
	service, _, hasher := newTestService(t)
	ctx := context.Background()

	enrollUser(t, service, "ada@example.com", true)
	hasher.hashCalls, hasher.verifyCalls = 0, 0

	_, err := service.Login(ctx, "nobody@example.com", "whatever pass")
	require.Error(t, err)
	unknownEmailWork := hasher.derivations()

	hasher.hashCalls, hasher.verifyCalls = 0, 0
	_, err = service.Login(ctx, "ada@example.com", "whatever pass")
	require.Error(t, err)
	wrongPasswordWork := hasher.derivations()

	assert.Equal(t, 1, unknownEmailWork)
	assert.Equal(t, 1, wrongPasswordWork)
}

// TestService_LoginShapeChecksAreFree asserts oversized input is rejected
// before any derivation work.
func TestService_LoginShapeChecksAreFree(t *testing.T) {
	service, _, hasher := newTestService(t)
	ctx := context.Background()

	longEmail := strings.Repeat("a", 250) + "@example.com"
	longPassword := strings.Repeat("p", 129)

	_, err := service.Login(ctx, longEmail, "some password")
	require.Error(t, err)
	_, err = service.Login(ctx, "ada@example.com", longPassword)
	require.Error(t, err)
	_, err = service.Login(ctx, "", "")
	require.Error(t, err)

	assert.Zero(t, hasher.derivations())
}

func TestService_LoginInactiveAccount(t *testing.T) {
	service, _, hasher := newTestService(t)

	enrollUser(t, service, "dormant@example.com", false)
	hasher.hashCalls, hasher.verifyCalls = 0, 0

	userID, err := service.Login(context.Background(), "dormant@example.com", "correct horse")
	assert.Empty(t, userID)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)

	// The account state is checked before verification, so no derivation
	// work is spent on a dormant account even with the right password.
	assert.Zero(t, hasher.derivations())
}

// TestService_LoginUpgradesStaleHash asserts a hash stored at an older
// iteration count is re-derived at the current one on successful login.
func TestService_LoginUpgradesStaleHash(t *testing.T) {
	service, store, _ := newTestService(t)
	ctx := context.Background()

	user := enrollUser(t, service, "ada@example.com", true)

	// Raise the policy after enrollment.
	service.iterations = lowIterations * 2

	_, err := service.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)

	stored, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)

	parsed, err := sec.SplitHash(stored.Password)
	require.NoError(t, err)
	assert.Equal(t, lowIterations*2, parsed.Iterations)

	// The upgraded hash still verifies.
	match, err := sec.VerifyPassword("correct horse", stored.Password)
	require.NoError(t, err)
	assert.True(t, match)

	// A second login leaves the hash alone.
	_, err = service.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	again, _ := store.FindByID(ctx, user.ID)
	assert.Equal(t, stored.Password, again.Password)
}

func TestService_CreateRejectsBadInput(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	preHashed, err := sec.HashPassword("secret pass", "", lowIterations)
	require.NoError(t, err)

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing_email", CreateInput{Password: "long enough"}},
		{"email_too_long", CreateInput{Email: strings.Repeat("a", 256), Password: "long enough"}},
		{"missing_password", CreateInput{Email: "a@example.com"}},
		{"password_too_short", CreateInput{Email: "a@example.com", Password: "tiny"}},
		{"password_too_long", CreateInput{Email: "a@example.com", Password: strings.Repeat("p", 129)}},
		{"password_already_hashed", CreateInput{Email: "a@example.com", Password: preHashed}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Create(ctx, testCase.input)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, 422, appError.HTTPStatus)
		})
	}
}

func TestService_CreateStoresHashedPassword(t *testing.T) {
	service, store, _ := newTestService(t)

	user := enrollUser(t, service, "ada@example.com", true)

	stored, err := store.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, sec.IsHashed(stored.Password))
	assert.NotContains(t, stored.Password, "correct horse")
}

func TestService_PasswordHook(t *testing.T) {
	service, _, _ := newTestService(t)
	hook := service.PasswordHook()
	ctx := context.Background()

	record, err := hook(ctx, resource.Record{
		"email":    "ada@example.com",
		"password": "correct horse",
	})
	require.NoError(t, err)

	encoded, _ := record["password"].(string)
	assert.True(t, sec.IsHashed(encoded))

	match, err := sec.VerifyPassword("correct horse", encoded)
	require.NoError(t, err)
	assert.True(t, match)

	// Policy violations surface as validation failures.
	_, err = hook(ctx, resource.Record{"email": "a@example.com", "password": "tiny"})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 422, appError.HTTPStatus)
}
