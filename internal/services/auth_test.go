package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"communityadmin/internal/clock"
	"communityadmin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainHasher stores "salt:password" so tests can reason about hashes.
type plainHasher struct{}

func (plainHasher) GenerateSalt() (string, error) { return "salt", nil }

func (plainHasher) Hash(salt, password string) (string, error) { return salt + ":" + password, nil }

func (plainHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	expiry time.Duration
}

func (f *fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	f.expiry = expiry
	return "token-" + userID, nil
}

func TestAuthService_SignUpAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	emails := &fakeEmailService{}
	issuer := &fakeIssuer{}
	svc := NewAuthService(users, plainHasher{}, issuer, emails, clock.NewFixed(testNow), time.Hour, discardLogger())

	user, err := svc.SignUp(ctx, "  Ada@Example.COM ", "correct horse", " Ada ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "salt:correct horse", user.PasswordHash)
	assert.Equal(t, testNow, user.CreatedAt)
	require.Len(t, emails.welcomes, 1)

	_, err = svc.SignUp(ctx, "ada@example.com", "another pass", "Ada")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	token, got, err := svc.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "token-"+user.ID, token)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, time.Hour, issuer.expiry)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "whatever1")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	fetched, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, fetched.Email)

	_, err = svc.GetUser(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthService_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), plainHasher{}, &fakeIssuer{}, nil, clock.NewFixed(testNow), time.Hour, discardLogger())

	_, err := svc.SignUp(ctx, "not-an-email", "long enough", "x")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SignUp(ctx, "a@b.io", "short", "x")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	repo := newFakeUserRepo()
	repo.createErr = errDB
	svc = NewAuthService(repo, plainHasher{}, &fakeIssuer{}, nil, clock.NewFixed(testNow), time.Hour, discardLogger())
	_, err = svc.SignUp(ctx, "a@b.io", "long enough", "x")
	require.ErrorIs(t, err, errDB)
}
