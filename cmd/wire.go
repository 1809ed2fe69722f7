package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/turnover-report/internal/breezeway"
	"github.com/example/turnover-report/internal/config"
	"github.com/example/turnover-report/internal/db"
	"github.com/example/turnover-report/internal/migrate"
	"github.com/example/turnover-report/internal/tokencache"
)

// openTokenStore returns the configured token store and a function releasing
// its resources.
func openTokenStore(ctx context.Context, cfg config.Config, migrateUp bool) (breezeway.TokenStore, func(), error) {
	var sealer *tokencache.Sealer
	if cfg.TokenSecret != "" {
		s, err := tokencache.NewSealer(cfg.TokenSecret)
		if err != nil {
			return nil, nil, err
		}
		sealer = s
	}

	if cfg.TokenStore != config.TokenStorePostgres {
		return tokencache.NewFileStore(cfg.TokenFile, sealer), func() {}, nil
	}

	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if migrateUp {
		if err := migrate.Up(ctx, d); err != nil {
			d.Close()
			return nil, nil, err
		}
	}
	return tokencache.NewPostgresStore(d, sealer), d.Close, nil
}

// newAPI builds an authorized Breezeway client.
func newAPI(cfg config.Config, store breezeway.TokenStore, log *zap.Logger) (*breezeway.Client, *breezeway.Authenticator) {
	base := breezeway.New(cfg.BaseURL, cfg.HTTPTimeout)
	auth := breezeway.NewAuthenticator(base, breezeway.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}, store, cfg.TokenTTL, log.Named("auth"))
	return base.WithTokens(auth), auth
}
