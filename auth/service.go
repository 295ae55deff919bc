// Package auth registers advocates and issues the bearer tokens that guard
// the plaint API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"plaintdraft-backend/models"
	"plaintdraft-backend/repository"
)

var (
	// ErrInvalidCredentials signals wrong email or password
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals the password is too short
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrEmailTaken signals the email is already registered
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrInvalidToken signals a missing, expired or forged token
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrMissingFields signals an incomplete registration
	ErrMissingFields = errors.New("auth: email, password and name are required")
)

const (
	minPasswordLength = 8
	issuer            = "plaintdraft"
)

// Repository stores advocate accounts
type Repository interface {
	Create(ctx context.Context, a *models.AdvocateAccount) error
	GetByEmail(ctx context.Context, email string) (*models.AdvocateAccount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdvocateAccount, error)
}

// RegisterRequest carries a new advocate's details
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	EnrolmentNumber string `json:"enrolment_number"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult bundles the token with the authenticated advocate
type LoginResult struct {
	Token     string                  `json:"token"`
	ExpiresAt time.Time               `json:"expires_at"`
	Advocate  *models.AdvocateAccount `json:"advocate"`
}

// Claims are the JWT claims issued to advocates
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service handles registration, login and token verification
type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// Option is a functional option for Service
type Option func(*Service)

// WithTokenTTL sets how long issued tokens stay valid
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithBcryptCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new authentication service
func NewService(repo Repository, secret string, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		secret: []byte(secret),
		ttl:    24 * time.Hour,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashPassword hashes a password with the service's bcrypt cost
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates a new advocate account
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.AdvocateAccount, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("auth: invalid email %q", req.Email)
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	a := &models.AdvocateAccount{
		Email:           email,
		PasswordHash:    hash,
		Name:            strings.TrimSpace(req.Name),
		EnrolmentNumber: strings.TrimSpace(req.EnrolmentNumber),
		Address:         strings.TrimSpace(req.Address),
		Phone:           strings.TrimSpace(req.Phone),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth: create advocate: %w", err)
	}
	return a, nil
}

// Login checks credentials and issues a token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	a, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.issue(a)
	if err != nil {
		return nil, fmt.Errorf("auth: generate token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expires, Advocate: a}, nil
}

// Advocate loads the account behind a verified token
func (s *Service) Advocate(ctx context.Context, id uuid.UUID) (*models.AdvocateAccount, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) issue(a *models.AdvocateAccount) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		Email: a.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// VerifyToken validates a token and returns the advocate id it was issued to
func (s *Service) VerifyToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}
