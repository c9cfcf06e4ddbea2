package users

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"unicode"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/notify"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit, in bytes
)

type Store interface {
	Create(ctx context.Context, u User) (User, error)
	ByEmail(ctx context.Context, email string) (User, error)
	ByID(ctx context.Context, id int64) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, p Patch) (User, error)
}

type Service struct {
	store    Store
	sessions auth.Sessions
	notifier notify.Notifier
	log      *slog.Logger
	cost     int
}

func NewService(store Store, sessions auth.Sessions, notifier notify.Notifier, log *slog.Logger) *Service {
	return &Service{store: store, sessions: sessions, notifier: notifier, log: log, cost: bcrypt.DefaultCost}
}

// Register creates a customer account and sends the welcome mail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	u, err := s.create(ctx, in.Email, in.Password, in.Name, auth.RoleCustomer)
	if err != nil {
		return User{}, err
	}
	s.notifier.Notify(ctx, notify.Notification{Kind: notify.KindWelcome, To: u.Email, Name: u.Name})
	return u, nil
}

func (s *Service) CreateStaff(ctx context.Context, in CreateStaffInput) (User, error) {
	if !in.Role.Valid() {
		return User{}, apperr.Validation("unknown role %q", in.Role)
	}
	return s.create(ctx, in.Email, in.Password, in.Name, in.Role)
}

func (s *Service) create(ctx context.Context, email, password, name string, role auth.Role) (User, error) {
	email = normalizeEmail(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return User{}, apperr.Validation("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return User{}, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return User{}, apperr.Validation("password must be at most %d bytes", maxPasswordLen)
	}
	name, err := cleanName(name)
	if err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, err
	}
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}
	return s.store.Create(ctx, User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
	})
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.store.ByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return Session{}, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, apperr.Unauthorized("invalid email or password")
	}
	if !u.IsActive {
		return Session{}, apperr.Forbidden("account is disabled")
	}
	token, err := s.sessions.Create(ctx, u.Claims())
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *Service) Me(ctx context.Context, actor auth.Claims) (User, error) {
	return s.store.ByID(ctx, actor.UserID)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// Update changes a user's name, role or active flag. Admins cannot deactivate or demote
// themselves, so the system always keeps the acting admin.
func (s *Service) Update(ctx context.Context, actor auth.Claims, id int64, p Patch) (User, error) {
	if p.Name == nil && p.Role == nil && p.IsActive == nil {
		return User{}, apperr.Validation("nothing to update")
	}
	if p.Role != nil && !p.Role.Valid() {
		return User{}, apperr.Validation("unknown role %q", *p.Role)
	}
	if id == actor.UserID {
		if p.IsActive != nil && !*p.IsActive {
			return User{}, apperr.Forbidden("you cannot deactivate your own account")
		}
		if p.Role != nil && *p.Role != auth.RoleAdmin {
			return User{}, apperr.Forbidden("you cannot remove your own admin role")
		}
	}
	if p.Name != nil {
		n, err := cleanName(*p.Name)
		if err != nil {
			return User{}, err
		}
		p.Name = &n
	}

	u, err := s.store.Update(ctx, id, p)
	if err != nil {
		return User{}, err
	}
	if p.IsActive != nil || p.Role != nil {
		if err := s.sessions.RevokeUser(ctx, id); err != nil {
			s.log.Warn("revoke sessions failed", slog.Int64("user_id", id), slog.Any("err", err))
		}
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin when the email is not registered yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.ByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	_, err = s.create(ctx, email, password, "admin", auth.RoleAdmin)
	return err
}

// cleanName trims a display name. Names end up in mail headers, so control characters are refused.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if strings.ContainsFunc(name, unicode.IsControl) {
		return "", apperr.Validation("name must not contain control characters")
	}
	return name, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
