package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/core/service"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/db/postgres"
	"github.com/dinamo-digital/crm-api/pkg/logger"
)

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}

	var in ports.CreateUserInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
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

			auth := service.NewAuthService(postgres.NewUserRepository(db), cfg.JWTSecret, cfg.JWTTTL)
			user, err := auth.CreateUser(ctx, in)
			if err != nil {
				return err
			}

			log.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("user created")
			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "display name")
	create.Flags().StringVar(&in.Email, "email", "", "login email")
	create.Flags().StringVar(&in.Password, "password", "", "initial password (min 8 characters)")
	create.Flags().StringVar(&in.Role, "role", domain.RoleCommercial, "admin or comercial")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	userCmd.AddCommand(create)
	return userCmd
}
