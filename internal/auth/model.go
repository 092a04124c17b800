package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

var ErrNoSession = errors.New("not signed in")

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is what the auth service hands back after sign-in. It is stored
// as JSON so a restart finds the user still signed in.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       s.ExpiresAt,
	}
}

type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

type SignUpResult struct {
	// EmailConfirmationRequired is set when the account was created but has
	// no linked identities yet, meaning a confirmation mail is pending.
	EmailConfirmationRequired bool
}

// Error is a failure reported by the auth service itself. Its message is
// meant for the user as-is.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Gateway is the identity capability the app depends on.
type Gateway interface {
	GetSession(ctx context.Context) (*Session, error)
	GetUser(ctx context.Context) (*User, error)
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) (SignUpResult, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn func(Event, *Session)) Subscription
}

type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	once sync.Once
	fn   func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.fn)
}

// listeners is the subscriber list shared by gateway implementations.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Event, *Session)
}

func (l *listeners) add(fn func(Event, *Session)) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = map[int]func(Event, *Session){}
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return &subscription{fn: func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}}
}

func (l *listeners) emit(ev Event, s *Session) {
	l.mu.Lock()
	fns := make([]func(Event, *Session), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(ev, s)
	}
}
