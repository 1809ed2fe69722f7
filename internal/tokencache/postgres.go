package tokencache

import (
	"context"
	"fmt"
	"time"

	"github.com/example/turnover-report/internal/breezeway"
	"github.com/example/turnover-report/internal/db"
)

const tokenName = "breezeway"

// PostgresStore keeps the token in the access_tokens table, for hosts
// without a persistent disk.
type PostgresStore struct {
	db     *db.DB
	sealer *Sealer
}

func NewPostgresStore(d *db.DB, sealer *Sealer) *PostgresStore {
	return &PostgresStore{db: d, sealer: sealer}
}

func (s *PostgresStore) Load(ctx context.Context) (breezeway.Token, error) {
	var (
		value     string
		expiresAt time.Time
	)
	err := s.db.QueryRow(ctx, `SELECT token, expires_at FROM access_tokens WHERE name=$1`, tokenName).Scan(&value, &expiresAt)
	if err != nil {
		return breezeway.Token{}, db.WrapNotFound(err)
	}
	t := breezeway.Token{AccessToken: value, ExpiresAt: expiresAt}
	if s.sealer != nil {
		if err := s.sealer.Open(value, &t.AccessToken); err != nil {
			return breezeway.Token{}, fmt.Errorf("tokencache: open stored token: %w", err)
		}
	}
	return t, nil
}

func (s *PostgresStore) Save(ctx context.Context, t breezeway.Token) error {
	value := t.AccessToken
	if s.sealer != nil {
		var err error
		if value, err = s.sealer.Seal(t.AccessToken); err != nil {
			return fmt.Errorf("tokencache: seal: %w", err)
		}
	}
	err := s.db.Exec(ctx, `
INSERT INTO access_tokens(name, token, expires_at, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (name) DO UPDATE SET token=EXCLUDED.token, expires_at=EXCLUDED.expires_at, updated_at=now()`,
		tokenName, value, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("tokencache: save: %w", err)
	}
	return nil
}
