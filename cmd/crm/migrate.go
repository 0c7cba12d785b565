package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dinamo-digital/crm-api/internal/infrastructure/db/postgres"
	"github.com/dinamo-digital/crm-api/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations and Mongo indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, log := bootstrap()

			db, err := openPostgres(ctx, cfg, logger.Component("postgres"))
			if err != nil {
				return err
			}
			defer closePostgres(db, log)

			if err := postgres.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			// openMongo ensures the indexes.
			client, _, err := openMongo(ctx, cfg)
			if err != nil {
				return err
			}
			_ = client.Disconnect(ctx)

			log.Info().Msg("migrations applied")
			return nil
		},
	}
}
