package service

import (
	"context"
	"errors"
	"strings"

	"github.com/donaldwalker7495-max/techcheck-api/internal/auth"
	dom "github.com/donaldwalker7495-max/techcheck-api/internal/domain"
	"github.com/donaldwalker7495-max/techcheck-api/internal/ratelimit"
	"github.com/donaldwalker7495-max/techcheck-api/internal/repo"
	"github.com/donaldwalker7495-max/techcheck-api/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials collapses "no such user" and "wrong password" into one
// value so callers cannot tell which happened.
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// bcryptCost is the fixed work factor (2^12 rounds).
const bcryptCost = 12

// UserService handles register and the login pipeline.
type UserService struct {
	repo    repo.UserRepo
	limiter *ratelimit.Limiter
	tokens  *auth.TokenService
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, limiter *ratelimit.Limiter, tokens *auth.TokenService) *UserService {
	return &UserService{repo: repo, limiter: limiter, tokens: tokens}
}

// Register creates a new user with a hashed password. Uniqueness is left to
// the store's constraint; a 23505 from the insert maps to ErrUsernameTaken,
// which also covers two concurrent registrations racing on the same name.
func (s *UserService) Register(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Login runs the pipeline: rate-limit check, credential lookup, password
// verify, attempt recording, token issue.
//
// The rate-limit check comes first so a blocked username never reaches the
// hasher. Failed attempts are recorded for unknown usernames too, so brute
// forcing a nonexistent name is throttled the same as a real one. The success
// row does not reset the failure count; failures only age out of the window.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	blocked, err := s.limiter.IsBlocked(ctx, username)
	if err != nil {
		return "", err
	}
	if blocked {
		return "", ErrTooManyAttempts
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.limiter.RecordAttempt(ctx, username, false)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.limiter.RecordAttempt(ctx, username, false)
			return "", ErrInvalidCredentials
		}
		// Malformed stored hash is an internal failure, not bad credentials.
		return "", err
	}

	s.limiter.RecordAttempt(ctx, username, true)

	return s.tokens.Issue(u.ID, u.Username)
}
