package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vmorozov/customer-hub/internal/common/clock"
	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
	"github.com/vmorozov/customer-hub/internal/common/logger"
	userdomain "github.com/vmorozov/customer-hub/internal/user/domain"
	userrepo "github.com/vmorozov/customer-hub/internal/user/repository"
)

func newTestAuthService(t *testing.T, repo *mockUserRepo, hasher *mockHasher) *AuthService {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Now())
	issuer := NewTokenIssuer(testSecret, 7*24*time.Hour, mockClock)
	return NewAuthService(repo, hasher, &mockIDGenerator{}, issuer, mockClock, log)
}

func TestAuthService_Register_Success(t *testing.T) {
	var created userdomain.User
	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			created = user
			return nil
		},
	}
	svc := newTestAuthService(t, repo, &mockHasher{})

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Alice@Example.COM ",
		Password: "Passw0rd",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.PasswordHash == "Passw0rd" {
		t.Error("expected stored hash, not the raw password")
	}
	if result.Token == "" {
		t.Error("expected token to be issued")
	}
	if result.User.Email != "alice@example.com" {
		t.Errorf("unexpected user email %q", result.User.Email)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			return userrepo.ErrEmailAlreadyExists
		},
	}
	svc := newTestAuthService(t, repo, &mockHasher{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "Passw0rd",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if !errors.Is(err, commonerrors.ErrEmailAlreadyExists) {
		t.Fatalf("expected the shared duplicate-email sentinel, got %v", err)
	}

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatal("expected a domain error")
	}
	if de.HTTPStatus() != 400 {
		t.Errorf("expected status 400, got %d", de.HTTPStatus())
	}
	if de.Message() != "User with this email already exists" {
		t.Errorf("unexpected message %q", de.Message())
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{}, &mockHasher{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "short",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	de, _ := commonerrors.AsDomainError(err)
	if len(de.Fields()) == 0 {
		t.Fatal("expected field errors")
	}
	for _, field := range de.Fields() {
		if field.Field != "password" {
			t.Errorf("unexpected field %q", field.Field)
		}
	}
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{}, &mockHasher{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "not-an-email",
		Password: "Passw0rd",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	de, _ := commonerrors.AsDomainError(err)
	if len(de.Fields()) != 1 || de.Fields()[0].Field != "email" {
		t.Fatalf("expected a single email field error, got %+v", de.Fields())
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			if email != "alice@example.com" {
				t.Errorf("expected normalized lookup email, got %q", email)
			}
			return userdomain.User{
				ID:           "user-1",
				Email:        email,
				PasswordHash: "hashed:Passw0rd",
			}, nil
		},
	}
	hasher := &mockHasher{
		compareFunc: func(hash string, password string) error {
			if hash != "hashed:"+password {
				return errors.New("mismatch")
			}
			return nil
		},
	}
	svc := newTestAuthService(t, repo, hasher)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "Alice@Example.com",
		Password: "Passw0rd",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Token == "" {
		t.Error("expected token to be issued")
	}
	if result.User.ID != "user-1" {
		t.Errorf("unexpected user id %q", result.User.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return userdomain.User{ID: "user-1", Email: email, PasswordHash: "hashed:other"}, nil
		},
	}
	hasher := &mockHasher{
		compareFunc: func(hash string, password string) error {
			return errors.New("mismatch")
		},
	}
	svc := newTestAuthService(t, repo, hasher)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "Wrong1pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Same failure as a wrong password: the endpoint must not reveal
	// which emails are registered.
	svc := newTestAuthService(t, &mockUserRepo{}, &mockHasher{})

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "Passw0rd",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MissingPassword(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{}, &mockHasher{})

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIdentityResolver_UnknownUser(t *testing.T) {
	resolver := NewIdentityResolver(&mockUserRepo{})

	_, err := resolver.ResolveUser(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestIdentityResolver_Found(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
			return userdomain.User{ID: id, Email: "alice@example.com"}, nil
		},
	}
	resolver := NewIdentityResolver(repo)

	identity, err := resolver.ResolveUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if identity.UserID != "user-1" || identity.Email != "alice@example.com" {
		t.Errorf("unexpected identity %+v", identity)
	}
}
