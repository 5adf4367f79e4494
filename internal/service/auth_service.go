package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/models"
	"github.com/TWRT/savvystudy/internal/planner"
	"github.com/TWRT/savvystudy/internal/repository"
)

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
	Session   *Session
}

type AuthService struct {
	identity      client.IdentityProvider
	repo          *repository.PlannerRepository
	sessions      *SessionStore
	tokens        *TokenIssuer
	durationHours int
	breakMinutes  int
	now           func() time.Time
	logger        *log.Logger
}

func NewAuthService(
	identity client.IdentityProvider,
	repo *repository.PlannerRepository,
	sessions *SessionStore,
	tokens *TokenIssuer,
	durationHours, breakMinutes int,
	now func() time.Time,
	logger *log.Logger,
) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		identity:      identity,
		repo:          repo,
		sessions:      sessions,
		tokens:        tokens,
		durationHours: durationHours,
		breakMinutes:  breakMinutes,
		now:           now,
		logger:        logger.With("component", "auth"),
	}
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", client.ErrAuth)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	user, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "err", err)
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.open(ctx, user)
}

// SignUp creates the account and writes empty collections before loading.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	user, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		s.logger.Warn("sign-up failed", "email", email, "err", err)
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if err := s.repo.Init(ctx, user); err != nil {
		return nil, fmt.Errorf("initialize user data: %w", err)
	}
	return s.open(ctx, user)
}

// open starts a session. A user who is already logged in elsewhere joins
// the existing workspace; otherwise the data is loaded from the store.
func (s *AuthService) open(ctx context.Context, user *models.User) (*LoginResult, error) {
	timer := planner.NewTimer(s.now)
	if err := timer.Configure(s.durationHours, s.breakMinutes); err != nil {
		return nil, fmt.Errorf("configure timer: %w", err)
	}

	sess, joined := s.sessions.Join(user.LocalID, timer)
	if !joined {
		data, err := s.repo.Load(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("load user data: %w", err)
		}
		sess = s.sessions.Create(user, data.Tasks, data.Reminders, timer)
	}

	token, expiresAt, err := s.tokens.Issue(sess.ID, user)
	if err != nil {
		s.sessions.Delete(sess.ID)
		return nil, err
	}

	s.logger.Info("session opened", "user", user.LocalID, "joined", joined)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user, Session: sess}, nil
}

func (s *AuthService) Logout(sess *Session) {
	s.sessions.Delete(sess.ID)
	s.logger.Info("session closed", "user", sess.UserID)
}

// Authenticate resolves a bearer token to its live session.
func (s *AuthService) Authenticate(token string) (*Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errors.Join(repository.ErrNotAuthenticated, err)
	}
	sess, ok := s.sessions.Get(claims.ID)
	if !ok || sess.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: session expired", repository.ErrNotAuthenticated)
	}
	return sess, nil
}
