package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

const (
	minPasswordLength = 8
	msgRequired       = "This field is required."
)

// tokenClaims is the payload of every bearer token. Subject is the user ID.
type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and bearer-token resolution.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, tokens: tokens, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	v := domain.NewValidationError()
	username := strings.TrimSpace(in.Username)
	if username == "" {
		v.Add("username", msgRequired)
	}
	if strings.TrimSpace(in.Email) == "" {
		v.Add("email", msgRequired)
	}
	validatePassword(in.Password, v)
	if in.RepeatedPassword == "" {
		v.Add("repeated_password", msgRequired)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		v.Add("type", fmt.Sprintf("%q is not a valid choice.", role))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if in.Password != in.RepeatedPassword {
		return nil, domain.FieldError("password", "Password fields didn't match.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.FieldError("username", "A user with that username already exists.")
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login verifies the credentials and returns the user's live token, issuing a
// fresh one when none is stored or the stored one has expired.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	current, err := s.tokens.Current(ctx, user.ID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("token lookup failed, issuing a new token")
	} else if current != "" {
		if _, perr := s.parse(current); perr == nil {
			return &ports.AuthResult{Token: current, User: user}, nil
		}
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Authenticate accepts only the token currently stored for its subject, so a
// re-issued token invalidates its predecessor. Role and staff flag are read
// from the user record, not from the claims.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	stored, err := s.tokens.Current(ctx, userID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("authenticate: %w", err)
	}
	if stored != token {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("authenticate: %w", err)
	}
	return user.Principal(), nil
}

// CreateStaff creates a staff account, or promotes the existing user with
// that username. The password is only set for new accounts.
func (s *AuthService) CreateStaff(ctx context.Context, in ports.CreateStaffInput) (*domain.User, error) {
	existing, err := s.users.FindByUsername(ctx, in.Username)
	if err == nil {
		existing.IsStaff = true
		existing.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("promote staff: %w", err)
		}
		s.log.Info().Int64("user_id", existing.ID).Msg("user promoted to staff")
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("create staff: %w", err)
	}

	v := domain.NewValidationError()
	if strings.TrimSpace(in.Username) == "" {
		v.Add("username", msgRequired)
	}
	validatePassword(in.Password, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		IsStaff:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	s.log.Info().Int64("user_id", user.ID).Msg("staff user created")
	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := s.tokens.Save(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

func (s *AuthService) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

func validatePassword(password string, v *domain.ValidationError) {
	if password == "" {
		v.Add("password", msgRequired)
		return
	}
	if len(password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		v.Add("password", "This password is entirely numeric.")
	}
}
