// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/crm-backend/internal/auth"
	"github.com/carterperez-dev/templates/crm-backend/internal/config"
	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/user"
)

const minPasswordLength = 8

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := newRootCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(ctx context.Context) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "manage",
		Short:        "Management commands for the CRM backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	load := func() (*config.Config, *slog.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		logger := core.NewLogger(cfg.Log, os.Stderr)
		slog.SetDefault(logger)
		return cfg, logger, nil
	}

	root.AddCommand(
		newKeygenCommand(load),
		newMigrateCommand(ctx, load),
		newCreateSuperuserCommand(ctx, load),
		newPruneTokensCommand(ctx, load),
	)

	return root
}

type loader func() (*config.Config, *slog.Logger, error)

func newKeygenCommand(load loader) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair used to sign access tokens",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(cfg.JWT.PrivateKeyPath); err == nil {
					return fmt.Errorf(
						"%s already exists, pass --force to overwrite",
						cfg.JWT.PrivateKeyPath,
					)
				}
			}

			if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
				return err
			}

			logger.Info("key pair written",
				"private_key", cfg.JWT.PrivateKeyPath,
				"public_key", cfg.JWT.PublicKeyPath,
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key pair")

	return cmd
}

func newMigrateCommand(ctx context.Context, load loader) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}

			db, err := core.NewDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			if statusOnly {
				pending, err := core.PendingMigrations(ctx, db.DB)
				if err != nil {
					return err
				}
				for _, name := range pending {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				logger.Info("pending migrations", "count", len(pending))
				return nil
			}

			return core.Migrate(ctx, db.DB, logger)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "list pending migrations without applying them")

	return cmd
}

func newCreateSuperuserCommand(ctx context.Context, load loader) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff identity",
		Long: `Create a staff identity outside the registration flow.

The password is read from CRM_SUPERUSER_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			password := os.Getenv("CRM_SUPERUSER_PASSWORD")
			if len(password) < minPasswordLength {
				return fmt.Errorf(
					"CRM_SUPERUSER_PASSWORD must be at least %d characters",
					minPasswordLength,
				)
			}

			cfg, logger, err := load()
			if err != nil {
				return err
			}

			db, err := core.NewDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			svc := user.NewService(user.NewRepository(db.DB))
			u, err := svc.CreateSuperuser(ctx, username, email, password)
			if err != nil {
				if errors.Is(err, core.ErrDuplicateKey) {
					return fmt.Errorf("username %q is taken", username)
				}
				return err
			}

			logger.Info("superuser created", "user_id", u.ID, "username", u.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username of the new staff identity")
	cmd.Flags().StringVar(&email, "email", "", "optional email address")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newPruneTokensCommand(ctx context.Context, load loader) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune-tokens",
		Short: "Delete expired refresh tokens",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}

			db, err := core.NewDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			n, err := auth.NewRepository(db.DB).DeleteExpired(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}

			logger.Info("pruned refresh tokens", "count", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only delete tokens expired for at least this long")

	return cmd
}
