package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"museumrewards/internal/auth"
	"museumrewards/internal/benefits"
	"museumrewards/internal/coins"
	"museumrewards/internal/kv"
	"museumrewards/internal/redeem"
	"museumrewards/internal/repo"
	"museumrewards/internal/theme"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("name and password required")
)

// Repository is satisfied by repo.Repo and repo.Memory.
type Repository interface {
	kv.Store
	CreateUser(ctx context.Context, name, passwordHash string) (string, error)
	GetUserByName(ctx context.Context, name string) (string, string, error)
	GetUserByID(ctx context.Context, userID string) (string, string, error)
	CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) (string, error)
	SessionActive(ctx context.Context, userID, sessionID string) (bool, error)
	DeleteSessions(ctx context.Context, userID string) error
}

// Account bundles the rewards components of one user, all reading and
// writing that user's key namespace.
type Account struct {
	Ledger   *coins.Ledger
	Benefits *benefits.Registry
	Theme    *theme.Resolver
	Redeemer *redeem.Workflow
}

type Service struct {
	Repo      Repository
	Auth      *auth.Manager
	Log       zerolog.Logger
	TokenTTL  time.Duration
	RefreshTT time.Duration

	ledgerOpts []coins.Option

	mu       sync.Mutex
	accounts map[string]*Account
}

func New(repository Repository, authManager *auth.Manager, log zerolog.Logger, ledgerOpts ...coins.Option) *Service {
	return &Service{
		Repo:       repository,
		Auth:       authManager,
		Log:        log,
		TokenTTL:   time.Hour,
		RefreshTT:  7 * 24 * time.Hour,
		ledgerOpts: ledgerOpts,
		accounts:   make(map[string]*Account),
	}
}

// Account returns the user's components, building them on first use. The
// same Account is returned for the life of the process so that balance
// updates for a user go through a single ledger.
func (s *Service) Account(userID string) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[userID]; ok {
		return acc
	}
	store := kv.Namespace(s.Repo, userID+":")
	log := s.Log.With().Str("user_id", userID).Logger()

	opts := append([]coins.Option{coins.WithLogger(log)}, s.ledgerOpts...)
	ledger := coins.New(store, opts...)
	registry := benefits.New(store, log)
	acc := &Account{
		Ledger:   ledger,
		Benefits: registry,
		Theme:    theme.New(store, log),
		Redeemer: redeem.New(ledger, registry, auth.Session{}, log),
	}
	s.accounts[userID] = acc
	return acc
}

func (s *Service) Register(ctx context.Context, name, password string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return "", ErrInvalidInput
	}
	hash, err := s.Auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	return s.Repo.CreateUser(ctx, name, hash)
}

func (s *Service) Login(ctx context.Context, name, password string) (string, string, error) {
	userID, hash, err := s.Repo.GetUserByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := s.Auth.ComparePassword(hash, password); err != nil {
		return "", "", ErrInvalidCredentials
	}
	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return "", "", err
	}
	sessionID, err := s.Repo.CreateSession(ctx, userID, refreshToken, time.Now().Add(s.RefreshTT))
	if err != nil {
		return "", "", err
	}
	accessToken, err := s.Auth.GenerateToken(userID, strings.TrimSpace(name), sessionID, s.TokenTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Logout ends every session of the user. Access tokens issued for those
// sessions stop authenticating immediately.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.Repo.DeleteSessions(ctx, userID)
}

// Authenticate reports whether the token's session is still open.
func (s *Service) Authenticate(ctx context.Context, claims *auth.Claims) (bool, error) {
	if claims.UserID == "" || claims.SessionID == "" {
		return false, nil
	}
	return s.Repo.SessionActive(ctx, claims.UserID, claims.SessionID)
}

func (s *Service) generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
