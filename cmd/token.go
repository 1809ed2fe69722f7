package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/turnover-report/internal/config"
	"github.com/example/turnover-report/internal/logging"
)

func newTokenCmd() *cobra.Command {
	var migrateUp bool

	c := &cobra.Command{
		Use:   "token",
		Short: "Obtain (or reuse) the Breezeway access token and show its expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := cfg.RequireAPI(); err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogEncoding)
			defer func() { _ = log.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.HTTPTimeout)
			defer cancel()

			store, closeStore, err := openTokenStore(ctx, cfg, migrateUp)
			if err != nil {
				return err
			}
			defer closeStore()

			_, auth := newAPI(cfg, store, log)
			t, err := auth.Current(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token valid until %s (store=%s)\n", t.ExpiresAt.Format(time.RFC3339), cfg.TokenStore)
			return nil
		},
	}

	c.Flags().BoolVar(&migrateUp, "migrate", true, "apply database migrations when TOKEN_STORE=postgres")
	return c
}
