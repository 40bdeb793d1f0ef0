package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

func newAuthService(f *fixture) *AuthService {
	return NewAuthService(f.users, f.tokens, "secret", time.Hour, discardLogger)
}

func registerInput(username string, role domain.Role) ports.RegisterInput {
	return ports.RegisterInput{
		Username:         username,
		Email:            username + "@example.com",
		Password:         "s3cretpass",
		RepeatedPassword: "s3cretpass",
		Role:             role,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	res, err := svc.Register(context.Background(), registerInput("alice", domain.RoleBusiness))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.ID == 0 {
		t.Fatalf("expected user id to be assigned")
	}
	if res.User.Role != domain.RoleBusiness {
		t.Fatalf("unexpected role: %s", res.User.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("s3cretpass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	stored, _ := f.tokens.Current(context.Background(), res.User.ID)
	if stored != res.Token {
		t.Fatalf("issued token was not stored")
	}
}

func TestAuthService_Register_DefaultsToCustomer(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	res, err := svc.Register(context.Background(), registerInput("bob", ""))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Role != domain.RoleCustomer {
		t.Fatalf("expected default role customer, got %s", res.User.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.RegisterInput)
		field  string
	}{
		{"password mismatch", func(in *ports.RegisterInput) { in.RepeatedPassword = "different1" }, "password"},
		{"password too short", func(in *ports.RegisterInput) { in.Password, in.RepeatedPassword = "abc12", "abc12" }, "password"},
		{"password numeric", func(in *ports.RegisterInput) { in.Password, in.RepeatedPassword = "12345678", "12345678" }, "password"},
		{"missing email", func(in *ports.RegisterInput) { in.Email = "" }, "email"},
		{"missing username", func(in *ports.RegisterInput) { in.Username = " " }, "username"},
		{"bad role", func(in *ports.RegisterInput) { in.Role = "admin" }, "type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			svc := newAuthService(f)
			in := registerInput("carol", domain.RoleCustomer)
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			assertField(t, err, tc.field)

			if n, _ := f.users.CountByRole(context.Background(), domain.RoleCustomer); n != 0 {
				t.Fatalf("no user must be stored on validation failure, got %d", n)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	if _, err := svc.Register(context.Background(), registerInput("dave", domain.RoleCustomer)); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), registerInput("dave", domain.RoleCustomer))
	assertField(t, err, "username")
}

func TestAuthService_Login_ReusesLiveToken(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	reg, _ := svc.Register(context.Background(), registerInput("erin", domain.RoleCustomer))

	first, err := svc.Login(context.Background(), "erin", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	second, err := svc.Login(context.Background(), "erin", "s3cretpass")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first.Token != reg.Token || second.Token != reg.Token {
		t.Fatalf("expected the registration token to be reused")
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(first.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != string(domain.RoleCustomer) || claims.Username != "erin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_ReissuesWhenStoredTokenInvalid(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	reg, _ := svc.Register(context.Background(), registerInput("frank", domain.RoleCustomer))
	_ = f.tokens.Save(context.Background(), reg.User.ID, "garbage")

	res, err := svc.Login(context.Background(), "frank", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "garbage" || res.Token == "" {
		t.Fatalf("expected a fresh token, got %q", res.Token)
	}
	if _, err := svc.Authenticate(context.Background(), res.Token); err != nil {
		t.Fatalf("fresh token must authenticate: %v", err)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)
	_, _ = svc.Register(context.Background(), registerInput("gina", domain.RoleCustomer))

	if _, err := svc.Login(context.Background(), "gina", "badpass99"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost", "s3cretpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)
	reg, _ := svc.Register(context.Background(), registerInput("hank", domain.RoleBusiness))

	p, err := svc.Authenticate(context.Background(), reg.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if p.UserID != reg.User.ID || p.Role != domain.RoleBusiness || p.IsStaff {
		t.Fatalf("unexpected principal: %+v", p)
	}

	if _, err := svc.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for garbage, got %v", err)
	}

	other := NewAuthService(f.users, f.tokens, "other-secret", time.Hour, discardLogger)
	if _, err := other.Authenticate(context.Background(), reg.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for foreign signature, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsSupersededToken(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)
	reg, _ := svc.Register(context.Background(), registerInput("ivan", domain.RoleCustomer))

	_ = f.tokens.Save(context.Background(), reg.User.ID, "replaced")
	if _, err := svc.Authenticate(context.Background(), reg.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_CreateStaff(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f)

	staff, err := svc.CreateStaff(context.Background(), ports.CreateStaffInput{Username: "root", Email: "root@example.com", Password: "rootpass1"})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	if !staff.IsStaff {
		t.Fatalf("expected staff flag")
	}

	reg, _ := svc.Register(context.Background(), registerInput("judy", domain.RoleCustomer))
	promoted, err := svc.CreateStaff(context.Background(), ports.CreateStaffInput{Username: "judy"})
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if promoted.ID != reg.User.ID || !promoted.IsStaff {
		t.Fatalf("expected existing user to be promoted, got %+v", promoted)
	}

	p, err := svc.Authenticate(context.Background(), reg.Token)
	if err != nil || !p.IsStaff {
		t.Fatalf("promotion must be visible on the next request: %+v, %v", p, err)
	}
}
