package auth

import (
	"context"
	"log"
	"sync"
)

// State is the app-wide view of who is signed in. Loading stays true
// until the first session probe finishes.
type State struct {
	Loading bool
	User    *User
	Session *Session
}

func (s State) SignedIn() bool { return !s.Loading && s.User != nil }

// Provider owns the auth state for the lifetime of the app: Start probes
// the stored session and subscribes to changes, Close releases the
// subscription. Every new State is also pushed on Updates, latest wins.
type Provider struct {
	gw     Gateway
	logger *log.Logger

	mu      sync.Mutex
	state   State
	sub     Subscription
	updates chan State
	closed  bool
}

func NewProvider(gw Gateway, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.Default()
	}
	return &Provider{
		gw:      gw,
		logger:  logger,
		state:   State{Loading: true},
		updates: make(chan State, 1),
	}
}

func (p *Provider) Gateway() Gateway { return p.gw }

func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Provider) Updates() <-chan State { return p.updates }

// Start blocks until the initial probe completes and returns the
// resolved state.
func (p *Provider) Start(ctx context.Context) State {
	p.mu.Lock()
	if p.sub == nil && !p.closed {
		p.sub = p.gw.OnAuthStateChange(func(_ Event, s *Session) {
			p.resolve(ctx, s)
		})
	}
	p.mu.Unlock()

	s, err := p.gw.GetSession(ctx)
	if err != nil {
		p.logger.Printf("session probe: %v", err)
	}
	return p.resolve(ctx, s)
}

func (p *Provider) resolve(ctx context.Context, s *Session) State {
	next := State{}
	if s != nil {
		next.Session = s
		u, err := p.gw.GetUser(ctx)
		if err != nil {
			p.logger.Printf("fetch user: %v", err)
		}
		next.User = u
	}
	p.publish(next)
	return next
}

func (p *Provider) publish(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.state = s
	select {
	case <-p.updates:
	default:
	}
	p.updates <- s
}

func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.sub != nil {
		p.sub.Unsubscribe()
	}
	close(p.updates)
}
