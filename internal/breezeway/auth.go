package breezeway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/turnover-report/internal/internaltypes"
)

// Token is a cached access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && t.ExpiresAt.After(now)
}

// TokenStore persists a token between runs. Load returns
// internaltypes.ErrNotFound when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (Token, error)
	Save(ctx context.Context, t Token) error
}

type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Authenticator hands out access tokens, reusing the stored token while it
// is valid and logging in again otherwise.
type Authenticator struct {
	client *Client
	creds  Credentials
	store  TokenStore
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	current Token
}

func NewAuthenticator(c *Client, creds Credentials, store TokenStore, ttl time.Duration, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{
		client: c,
		creds:  creds,
		store:  store,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

func (a *Authenticator) Token(ctx context.Context) (string, error) {
	t, err := a.Current(ctx)
	if err != nil {
		return "", err
	}
	return t.AccessToken, nil
}

// Current returns the token in use, obtaining one if needed.
func (a *Authenticator) Current(ctx context.Context) (Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.current.Valid(now) {
		return a.current, nil
	}

	if a.store != nil {
		t, err := a.store.Load(ctx)
		switch {
		case err == nil && t.Valid(now):
			a.log.Info("using cached access token", zap.Time("expires_at", t.ExpiresAt))
			a.current = t
			return t, nil
		case err == nil:
			a.log.Info("cached access token expired", zap.Time("expires_at", t.ExpiresAt))
		case errors.Is(err, internaltypes.ErrNotFound):
		default:
			a.log.Warn("token cache unreadable", zap.Error(err))
		}
	}

	a.log.Info("requesting new access token")
	access, err := a.client.Login(ctx, a.creds.ClientID, a.creds.ClientSecret)
	if err != nil {
		return Token{}, fmt.Errorf("authenticate: %w", err)
	}
	t := Token{AccessToken: access, ExpiresAt: now.Add(a.ttl)}
	if a.store != nil {
		if err := a.store.Save(ctx, t); err != nil {
			a.log.Warn("failed to cache access token", zap.Error(err))
		}
	}
	a.current = t
	return t, nil
}
