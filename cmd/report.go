package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/turnover-report/internal/config"
	"github.com/example/turnover-report/internal/domain/rental"
	"github.com/example/turnover-report/internal/logging"
	"github.com/example/turnover-report/internal/report"
	"github.com/example/turnover-report/internal/telegram"
)

func newReportCmd() *cobra.Command {
	var (
		date      string
		dryRun    bool
		migrateUp bool
	)

	c := &cobra.Command{
		Use:   "report",
		Short: "Build today's cleaning report and send it to Telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := cfg.RequireAPI(); err != nil {
				return err
			}
			if !dryRun {
				if err := cfg.RequireTelegram(); err != nil {
					return err
				}
			}

			today := time.Now().In(cfg.Location)
			if date != "" {
				today, err = time.ParseInLocation(rental.DateLayout, date, cfg.Location)
				if err != nil {
					return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
				}
			}

			log := logging.New(cfg.LogLevel, cfg.LogEncoding)
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			store, closeStore, err := openTokenStore(ctx, cfg, migrateUp)
			if err != nil {
				return err
			}
			defer closeStore()

			api, auth := newAPI(cfg, store, log)
			// fail fast: nothing can be fetched without a token
			if _, err := auth.Token(ctx); err != nil {
				return fmt.Errorf("cannot proceed without a valid Breezeway token: %w", err)
			}

			b := report.NewBuilder(api, report.BuilderConfig{
				PageLimit:         cfg.PageLimit,
				DetailConcurrency: cfg.DetailConcurrency,
				LookbackDays:      cfg.LookbackDays,
			}, log.Named("report"))

			started := time.Now()
			msg := b.Build(ctx, today).String()
			log.Info("report built", zap.String("date", rental.Day(today)), zap.Duration("took", time.Since(started)))

			fmt.Fprintln(cmd.OutOrStdout(), msg)
			if dryRun {
				return nil
			}

			n := telegram.New(cfg.TelegramBaseURL, cfg.TelegramBotToken, cfg.TelegramChatID, cfg.HTTPTimeout)
			report.Dispatch(ctx, n, msg, log.Named("telegram"))
			return nil
		},
	}

	c.Flags().StringVar(&date, "date", "", "report date YYYY-MM-DD (default today in REPORT_TIMEZONE)")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print the report without sending it")
	c.Flags().BoolVar(&migrateUp, "migrate", true, "apply database migrations when TOKEN_STORE=postgres")
	return c
}
