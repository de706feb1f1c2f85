package identity

import (
	"context"
	"strings"
	"time"

	"hrrecords/internal/platform/optional"
)

type Options struct {
	OwnerID      string
	OwnerName    string
	OwnerEmail   string
	PasscodeHash string
	JWTSecret    string
	SessionTTL   time.Duration
}

type Service struct {
	Store Repository
	opts  Options
	now   func() time.Time
}

func NewService(store Repository, opts Options) *Service {
	return &Service{Store: store, opts: opts, now: time.Now}
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Login checks the shared access passcode and signs the owner in.
func (s *Service) Login(ctx context.Context, passcode string) (Session, error) {
	if strings.TrimSpace(passcode) == "" || s.opts.PasscodeHash == "" {
		return Session{}, ErrInvalidPasscode
	}
	if err := CheckPasscode(s.opts.PasscodeHash, passcode); err != nil {
		return Session{}, ErrInvalidPasscode
	}

	now := s.now().UTC()
	upsert := UserUpsert{
		ID:           s.opts.OwnerID,
		Name:         optional.Some(s.opts.OwnerName),
		LoginMethod:  optional.Some("passcode"),
		LastSignedIn: optional.Some(now),
	}
	if s.opts.OwnerEmail != "" {
		upsert.Email = optional.Some(s.opts.OwnerEmail)
	}
	if err := s.Store.Upsert(ctx, upsert); err != nil {
		return Session{}, err
	}

	caller := Caller{ID: s.opts.OwnerID, Name: s.opts.OwnerName, Role: RoleAdmin}
	token, err := GenerateToken(s.opts.JWTSecret, caller, s.opts.SessionTTL)
	if err != nil {
		return Session{}, err
	}

	user, err := s.Me(ctx, caller)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: now.Add(s.opts.SessionTTL), User: *user}, nil
}

// Authenticate resolves a session token to a caller.
func (s *Service) Authenticate(token string) (Caller, error) {
	if token == "" {
		return Caller{}, ErrUnauthenticated
	}
	caller, err := ParseToken(s.opts.JWTSecret, token)
	if err != nil {
		return Caller{}, ErrUnauthenticated
	}
	return caller, nil
}

// Me returns the stored user for caller, a user built from the session
// when the store has no row, or nil for an anonymous caller.
func (s *Service) Me(ctx context.Context, caller Caller) (*User, error) {
	if !caller.Authenticated() {
		return nil, nil
	}
	user, err := s.Store.Get(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	out := &User{ID: caller.ID, Role: caller.Role}
	if caller.Name != "" {
		name := caller.Name
		out.Name = &name
	}
	return out, nil
}
