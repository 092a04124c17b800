package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// SessionKey is the storage key holding the signed-in session.
const SessionKey = "auth.session"

// SessionStore is the part of storage.Store the client needs.
type SessionStore interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

type Options struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
	Store      SessionStore
	Logger     *log.Logger
}

// GoTrue talks to a Supabase-style auth REST API (/auth/v1).
type GoTrue struct {
	baseURL string
	apiKey  string
	http    *http.Client
	store   SessionStore
	logger  *log.Logger
	now     func() time.Time

	mu      sync.Mutex
	session *Session
	loaded  bool

	subs listeners
}

func NewGoTrue(opts Options) (*GoTrue, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, fmt.Errorf("auth url is empty (set [auth] url or SUPABASE_URL)")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("auth session store is nil")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &GoTrue{
		baseURL: strings.TrimRight(opts.URL, "/") + "/auth/v1",
		apiKey:  opts.APIKey,
		http:    opts.HTTPClient,
		store:   opts.Store,
		logger:  opts.Logger,
		now:     time.Now,
	}, nil
}

type wireUser struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Identities []json.RawMessage `json:"identities"`
}

func (u wireUser) user() User { return User{ID: u.ID, Email: u.Email} }

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
	User         *wireUser `json:"user"`
}

func (r tokenResponse) session(now time.Time) *Session {
	s := &Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
	}
	switch {
	case r.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(r.ExpiresAt, 0).UTC()
	case r.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second).UTC()
	}
	if s.TokenType == "" {
		s.TokenType = "bearer"
	}
	if r.User != nil {
		s.User = r.User.user()
	}
	return s
}

// signUpResponse covers both shapes the signup endpoint returns: a full
// session when confirmation is off, or a bare user when it is on.
type signUpResponse struct {
	tokenResponse
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Identities []json.RawMessage `json:"identities"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetSession returns the stored session, refreshing it when expired.
// A nil session with a nil error means nobody is signed in.
func (g *GoTrue) GetSession(ctx context.Context) (*Session, error) {
	s, err := g.current()
	if err != nil || s == nil {
		return nil, err
	}
	if s.ExpiresAt.IsZero() || g.now().Before(s.ExpiresAt.Add(-10*time.Second)) {
		return s, nil
	}
	if s.RefreshToken == "" {
		return nil, g.clear()
	}
	refreshed, err := g.refresh(ctx, s.RefreshToken)
	if err != nil {
		g.logger.Printf("refresh session: %v", err)
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return nil, g.clear()
		}
		return nil, err
	}
	return refreshed, nil
}

func (g *GoTrue) current() (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loaded {
		return g.session, nil
	}
	var s Session
	ok, err := g.store.Get(SessionKey, &s)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	g.loaded = true
	if ok && s.AccessToken != "" {
		g.session = &s
	}
	return g.session, nil
}

func (g *GoTrue) setSession(s *Session) error {
	g.mu.Lock()
	g.session = s
	g.loaded = true
	g.mu.Unlock()
	if err := g.store.Set(SessionKey, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (g *GoTrue) clear() error {
	g.mu.Lock()
	had := g.session != nil
	g.session = nil
	g.loaded = true
	g.mu.Unlock()
	if err := g.store.Delete(SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if had {
		g.subs.emit(EventSignedOut, nil)
	}
	return nil
}

// GetUser asks the service who the current access token belongs to.
func (g *GoTrue) GetUser(ctx context.Context) (*User, error) {
	s, err := g.GetSession(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	req, err := g.newRequest(ctx, http.MethodGet, "/user", nil)
	if err != nil {
		return nil, err
	}
	var u wireUser
	if err := g.doAuthed(ctx, s, req, &u); err != nil {
		return nil, err
	}
	user := u.user()
	return &user, nil
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) error {
	req, err := g.newRequest(ctx, http.MethodPost, "/token?grant_type=password", credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	var resp tokenResponse
	if err := g.do(g.http, req, &resp); err != nil {
		return err
	}
	s := resp.session(g.now())
	if err := g.setSession(s); err != nil {
		return err
	}
	g.subs.emit(EventSignedIn, s)
	return nil
}

func (g *GoTrue) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	req, err := g.newRequest(ctx, http.MethodPost, "/signup", credentials{Email: email, Password: password})
	if err != nil {
		return SignUpResult{}, err
	}
	var resp signUpResponse
	if err := g.do(g.http, req, &resp); err != nil {
		return SignUpResult{}, err
	}

	user := resp.tokenResponse.User
	if user == nil && resp.ID != "" {
		user = &wireUser{ID: resp.ID, Email: resp.Email, Identities: resp.Identities}
	}
	result := SignUpResult{
		EmailConfirmationRequired: user != nil && user.Identities != nil && len(user.Identities) == 0,
	}
	if resp.AccessToken != "" {
		s := resp.session(g.now())
		if err := g.setSession(s); err != nil {
			return result, err
		}
		g.subs.emit(EventSignedIn, s)
	}
	return result, nil
}

// SignOut revokes the session remotely when possible and always forgets
// it locally.
func (g *GoTrue) SignOut(ctx context.Context) error {
	s, err := g.current()
	if err != nil {
		return err
	}
	if s != nil {
		req, err := g.newRequest(ctx, http.MethodPost, "/logout", nil)
		if err == nil {
			err = g.doAuthed(ctx, s, req, nil)
		}
		if err != nil {
			g.logger.Printf("remote sign out: %v", err)
		}
	}
	return g.clear()
}

func (g *GoTrue) OnAuthStateChange(fn func(Event, *Session)) Subscription {
	return g.subs.add(fn)
}

func (g *GoTrue) refresh(ctx context.Context, refreshToken string) (*Session, error) {
	req, err := g.newRequest(ctx, http.MethodPost, "/token?grant_type=refresh_token", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}
	var resp tokenResponse
	if err := g.do(g.http, req, &resp); err != nil {
		return nil, err
	}
	s := resp.session(g.now())
	if err := g.setSession(s); err != nil {
		return nil, err
	}
	g.subs.emit(EventTokenRefreshed, s)
	return s, nil
}

// refresher lets oauth2 renew an expired access token through the
// refresh_token grant.
type refresher struct {
	ctx   context.Context
	g     *GoTrue
	token string
}

func (r *refresher) Token() (*oauth2.Token, error) {
	s, err := r.g.refresh(r.ctx, r.token)
	if err != nil {
		return nil, err
	}
	return s.Token(), nil
}

func (g *GoTrue) doAuthed(ctx context.Context, s *Session, req *http.Request, out any) error {
	src := oauth2.ReuseTokenSource(s.Token(), &refresher{ctx: ctx, g: g, token: s.RefreshToken})
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, g.http), src)
	client.Timeout = g.http.Timeout
	return g.do(client, req, out)
}

func (g *GoTrue) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (g *GoTrue) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(status int, raw []byte) *Error {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
		ErrorCode        string `json:"error_code"`
	}
	_ = json.Unmarshal(raw, &body)
	e := &Error{Status: status, Code: body.ErrorCode}
	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if strings.TrimSpace(m) != "" {
			e.Message = m
			break
		}
	}
	if e.Code == "" {
		e.Code = body.Error
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
