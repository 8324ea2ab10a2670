package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	EnsureAdministrator(ctx context.Context) error
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.Session, error)
	Register(ctx context.Context, username, password string) (models.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (models.Session, bool, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	IsAdmin(user models.User) bool
}

// UserConfig names the reserved administrator account.
type UserConfig struct {
	AdminUsername string
	AdminPassword string
}

// UserFilter narrows ListUsers. Zero values match everything.
type UserFilter struct {
	Search string // case-insensitive substring of username or id
	Since  int64  // minimum CreatedAt in milliseconds
}

// UserService owns the user collection and the current-session marker.
type UserService struct {
	store  storage.Store
	cfg    UserConfig
	hasher PasswordHasher
	events EventServiceProvider
	mu     sync.Mutex
	now    func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store, cfg UserConfig, hasher PasswordHasher, events EventServiceProvider) *UserService {
	if hasher == nil {
		hasher = PlainPasswords{}
	}
	return &UserService{
		store:  store,
		cfg:    cfg,
		hasher: hasher,
		events: events,
		now:    time.Now,
	}
}

// Init prepares the user collection. It runs once at startup.
func (s *UserService) Init(ctx context.Context) error {
	return s.EnsureAdministrator(ctx)
}

// EnsureAdministrator creates the reserved administrator account when missing
// and resets its password when it no longer matches the configured one.
func (s *UserService) EnsureAdministrator(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}

	idx := indexByUsername(users, s.cfg.AdminUsername)
	if idx >= 0 && s.hasher.Matches(users[idx].Password, s.cfg.AdminPassword) {
		return nil
	}

	hashed, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	if idx < 0 {
		now := s.now().UnixMilli()
		users = append(users, models.User{
			ID:        fmt.Sprintf("admin-%s-%d", s.cfg.AdminUsername, now),
			Username:  s.cfg.AdminUsername,
			Password:  hashed,
			CreatedAt: now,
		})
		log.Info().Str("username", s.cfg.AdminUsername).Msg("Created administrator account")
	} else {
		users[idx].Password = hashed
		log.Warn().Str("username", s.cfg.AdminUsername).Msg("Administrator password drifted, reset to configured value")
	}

	return storage.SaveCollection(ctx, s.store, storage.KeyUsers, users)
}

// Authenticate verifies a user's credentials against a fresh read of the collection.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	idx := indexByUsername(users, username)
	if idx < 0 || !s.hasher.Matches(users[idx].Password, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return users[idx].Sanitized(), nil
}

// Login authenticates and makes the user the active session. A failed
// attempt clears any active session.
func (s *UserService) Login(ctx context.Context, username, password string) (models.Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if rmErr := storage.Remove(ctx, s.store, storage.KeyCurrentSession); rmErr != nil {
			log.Warn().Err(rmErr).Msg("Failed to clear session after failed login")
		}
		return models.Session{}, err
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return models.Session{}, err
	}
	recordEvent(ctx, s.events, "user.login", "info", fmt.Sprintf("User '%s' signed in.", user.Username), nil, strPtr(user.ID))
	return session, nil
}

// Register creates a new account and makes it the active session.
func (s *UserService) Register(ctx context.Context, username, password string) (models.Session, error) {
	s.mu.Lock()
	users, err := s.loadUsers(ctx)
	if err != nil {
		s.mu.Unlock()
		return models.Session{}, err
	}
	if indexByUsername(users, username) >= 0 {
		s.mu.Unlock()
		return models.Session{}, ErrUsernameTaken
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.mu.Unlock()
		return models.Session{}, err
	}
	user := models.User{
		ID:        newID(),
		Username:  username,
		Password:  hashed,
		CreatedAt: s.now().UnixMilli(),
	}
	users = append(users, user)
	err = storage.SaveCollection(ctx, s.store, storage.KeyUsers, users)
	s.mu.Unlock()
	if err != nil {
		return models.Session{}, err
	}

	session, err := s.startSession(ctx, user.Sanitized())
	if err != nil {
		return models.Session{}, err
	}
	recordEvent(ctx, s.events, "user.register", "info", fmt.Sprintf("User '%s' registered.", user.Username), nil, strPtr(user.ID))
	return session, nil
}

// Logout clears the active session. The user collection is not touched.
func (s *UserService) Logout(ctx context.Context) error {
	return storage.Remove(ctx, s.store, storage.KeyCurrentSession)
}

// CurrentSession returns the active session, if any.
func (s *UserService) CurrentSession(ctx context.Context) (models.Session, bool, error) {
	return storage.LoadValue[models.Session](ctx, s.store, storage.KeyCurrentSession)
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Sanitized(), nil
		}
	}
	return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
}

// ListUsers returns sanitized users matching filter, newest first.
func (s *UserService) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if filter.Since > 0 && u.CreatedAt < filter.Since {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.ID), search) {
			continue
		}
		out = append(out, u.Sanitized())
	}
	slices.SortStableFunc(out, func(a, b models.User) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) })
	return out, nil
}

// IsAdmin reports whether user is the reserved administrator.
func (s *UserService) IsAdmin(user models.User) bool {
	return strings.EqualFold(user.Username, s.cfg.AdminUsername)
}

func (s *UserService) startSession(ctx context.Context, user models.User) (models.Session, error) {
	session := models.Session{
		User:      user,
		IsAdmin:   s.IsAdmin(user),
		StartedAt: s.now().UnixMilli(),
	}
	if err := storage.SaveValue(ctx, s.store, storage.KeyCurrentSession, session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *UserService) loadUsers(ctx context.Context) ([]models.User, error) {
	users, _, err := storage.LoadCollection[models.User](ctx, s.store, storage.KeyUsers)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func indexByUsername(users []models.User, username string) int {
	return slices.IndexFunc(users, func(u models.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}
