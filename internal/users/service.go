// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/constants"
	"github.com/labramp/backbone/internal/platform/sec"
	"github.com/labramp/backbone/pkg/uuidv7"
)

// Hasher abstracts the key derivation work so tests can count and cheapen it.
// The production implementation delegates to the sec package.
type Hasher interface {
	// Hash derives a storable representation of a raw password.
	Hash(password, salt string, iterations int) (string, error)

	// Verify checks a candidate against a stored representation.
	Verify(password, encoded string) (bool, error)
}

// secHasher is the production [Hasher].
type secHasher struct{}

func (secHasher) Hash(password, salt string, iterations int) (string, error) {
	return sec.HashPassword(password, salt, iterations)
}

func (secHasher) Verify(password, encoded string) (bool, error) {
	return sec.VerifyPassword(password, encoded)
}

// errInvalidCredentials is the single failure every unsuccessful login maps
// to. One message for unknown email, wrong password, and inactive account, so
// responses cannot be used to enumerate registered addresses.
func errInvalidCredentials() *apperr.AppError {
	return apperr.Unauthorized("Invalid email or password.")
}

// Service implements account use cases.
type Service struct {
	store      Store
	logger     *slog.Logger
	hasher     Hasher
	iterations int
	now        func() time.Time
}

// ServiceOption customizes a user service.
type ServiceOption func(*Service)

// WithHasher replaces the key derivation implementation.
func WithHasher(hasher Hasher) ServiceOption {
	return func(service *Service) { service.hasher = hasher }
}

// WithIterations overrides the PBKDF2 iteration count for new hashes.
func WithIterations(iterations int) ServiceOption {
	return func(service *Service) { service.iterations = iterations }
}

// WithClock replaces the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) ServiceOption {
	return func(service *Service) { service.now = now }
}

// NewService constructs a user [Service] with its storage dependency.
func NewService(store Store, logger *slog.Logger, opts ...ServiceOption) *Service {
	service := &Service{
		store:      store,
		logger:     logger,
		hasher:     secHasher{},
		iterations: constants.DefaultHashIterations,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

/*
Login verifies a credential pair and returns the account ID.

Description: The flow is shaped for enumeration resistance. Oversized or empty
input is rejected before any lookup since the check depends only on the
request itself. After the lookup, exactly one key derivation happens on every
path: a verification when the account exists, a burned hash of the submitted
password when it does not. Unknown email, wrong password, and inactive
account all surface as the same 401.

Parameters:
  - ctx: Context for the storage operations.
  - email: Submitted email address.
  - password: Submitted raw password.

Returns:
  - string: The authenticated account ID.
  - error: [apperr.Unauthorized] on any credential failure, or storage errors.

# Business Rules
  - A stale iteration count is upgraded in place after a successful
    verification, while the plaintext is still available.
  - LastLogin is stamped on every successful login.
*/
func (service *Service) Login(ctx context.Context, email, password string) (string, error) {
	// ── 1. Shape Checks (no account data involved) ───────────────────────

	if email == "" || len(email) > constants.MaxEmailLength {
		return "", errInvalidCredentials()
	}
	if password == "" || len(password) > constants.MaxPasswordLength {
		return "", errInvalidCredentials()
	}

	// ── 2. Lookup ────────────────────────────────────────────────────────

	user, err := service.store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if user == nil {
		// Burn the same derivation work a real verification would cost.
		if _, hashErr := service.hasher.Hash(password, "", service.iterations); hashErr != nil {
			service.logger.ErrorContext(ctx, "login_burn_hash_failed",
				slog.String("error", hashErr.Error()),
			)
		}
		return "", errInvalidCredentials()
	}

	// An inactive account is rejected before any verification work; the
	// caller still sees the same generic 401 as a bad credential.
	if !user.Active {
		service.logger.WarnContext(ctx, "login_inactive_account",
			slog.String("user_id", user.ID),
		)
		return "", errInvalidCredentials()
	}

	// ── 3. Verification ──────────────────────────────────────────────────

	match, err := service.hasher.Verify(password, user.Password)
	if err != nil {
		// A stored hash that cannot be parsed is data corruption. Log it
		// loudly but fail the login like any other bad credential.
		service.logger.ErrorContext(ctx, "login_stored_hash_unreadable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return "", errInvalidCredentials()
	}
	if !match {
		return "", errInvalidCredentials()
	}

	// ── 4. Post-Login Housekeeping ────────────────────────────────────────

	now := service.now().UTC()

	if err := service.maybeUpgradeHash(ctx, user, password, now); err != nil {
		// The login itself succeeded; a failed upgrade only means the old
		// hash stays in place until the next login.
		service.logger.ErrorContext(ctx, "login_hash_upgrade_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := service.store.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", err
	}

	return user.ID, nil
}

// maybeUpgradeHash re-derives the stored hash at the current iteration count
// when the stored one has fallen behind. Only possible during login, while
// the plaintext is in hand.
func (service *Service) maybeUpgradeHash(ctx context.Context, user *User, password string, now time.Time) error {
	stored, err := sec.SplitHash(user.Password)
	if err != nil {
		return err
	}
	if stored.Iterations >= service.iterations {
		return nil
	}

	upgraded, err := service.hasher.Hash(password, "", service.iterations)
	if err != nil {
		return err
	}

	if err := service.store.UpdatePassword(ctx, user.ID, upgraded, now); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "password_hash_upgraded",
		slog.String("user_id", user.ID),
		slog.Int("from_iterations", stored.Iterations),
		slog.Int("to_iterations", service.iterations),
	)
	return nil
}

// CreateInput holds the data required to enroll a new account.
type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Active    bool
}

/*
Create validates, hashes, and persists a brand new account.

Parameters:
  - ctx: Context for the storage operations.
  - input: The account details. Password must be plaintext.

Returns:
  - *User: The persisted account with its generated ID.
  - error: [apperr.Validation] for rule violations, or storage errors.

# Business Rules
  - Emails are mandatory and bounded by the column width.
  - Passwords are bounded on both ends before any hashing work.
  - Input that already looks like an encoded hash is rejected outright;
    accepting it would silently double-hash and lock the account out.
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return nil, err
	}

	encoded, err := service.hasher.Hash(input.Password, "", service.iterations)
	if err != nil {
		return nil, err
	}

	now := service.now().UTC()
	user := &User{
		ID:        newUserID(),
		Active:    input.Active,
		Email:     input.Email,
		Password:  encoded,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.store.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("user_service_create_failed: %w", err)
	}

	return user, nil
}

// Get returns the account with the given ID, or nil when no such account
// exists. The caller decides what an absent account means.
func (service *Service) Get(ctx context.Context, userID string) (*User, error) {
	return service.store.FindByID(ctx, userID)
}

// UpdatePassword replaces an account's credential with a freshly hashed one.
func (service *Service) UpdatePassword(ctx context.Context, userID, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	encoded, err := service.hasher.Hash(password, "", service.iterations)
	if err != nil {
		return err
	}

	return service.store.UpdatePassword(ctx, userID, encoded, service.now().UTC())
}

// validateCredentials applies the enrollment rules for email and password.
func validateCredentials(email, password string) error {
	if email == "" {
		return apperr.Validation("", apperr.FieldError{Field: "email", Missing: true})
	}
	if len(email) > constants.MaxEmailLength {
		return apperr.Validation("The email is too long.")
	}
	return validatePassword(password)
}

// validatePassword applies the raw-password policy.
func validatePassword(password string) error {
	if password == "" {
		return apperr.Validation("", apperr.FieldError{Field: "password", Missing: true})
	}
	if len(password) < constants.MinPasswordLength {
		return apperr.Validation("The password is too short.")
	}
	if len(password) > constants.MaxPasswordLength {
		return apperr.Validation("The password is too long.")
	}
	if sec.IsHashed(password) {
		return apperr.Validation("The password appears to be already hashed.")
	}
	return nil
}

// newUserID returns a time-sortable v7 UUID.
func newUserID() string { return uuidv7.New() }
