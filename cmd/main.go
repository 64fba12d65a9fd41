package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/cmd/config"
	migration "github.com/tranhuy105/ITSS-CongAn-sub000/cmd/database/migrate"
	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/jwt"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/user"
)

type rootOptions struct {
	log *logger.Logger
	db  *gorm.DB
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "congan",
		Short:        "Vietnamese dish and restaurant catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			utils.LoadConfig()
			log, err := logger.New(utils.GetConfig("APP_ENV"))
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.log = log

			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			opts.db = db
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				opts.log.Sync()
			}
		},
	}

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newReconcileCommand(opts))
	cmd.AddCommand(newCreateAdminCommand(opts))

	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrate {
				if err := migration.Migrate(opts.db); err != nil {
					return err
				}
			}

			app, err := config.NewApp(opts.db, opts.log)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- app.Listen(":" + utils.GetConfig("APP_PORT"))
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				opts.log.Info("shutting down")
				return app.ShutdownWithTimeout(10 * time.Second)
			}
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving")
	return cmd
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migration.Migrate(opts.db); err != nil {
				return err
			}
			opts.log.Info("database migration complete")
			return nil
		},
	}
}

func newReconcileCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-ratings",
		Short: "Recompute every stored rating aggregate from live reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher := config.NewPublisher(opts.log)
			defer publisher.Close()

			res, err := config.NewRatingAggregator(opts.db, publisher, opts.log).ReconcileAll(cmd.Context())
			if err != nil {
				return err
			}
			opts.log.Info("ratings reconciled",
				"dishes", res.Dishes,
				"restaurants", res.Restaurants,
				"failed", res.Failed,
			)
			if res.Failed > 0 {
				return fmt.Errorf("%d aggregates could not be reconciled", res.Failed)
			}
			return nil
		},
	}
}

func newCreateAdminCommand(opts *rootOptions) *cobra.Command {
	req := domain.RegisterRequest{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			utils.InitValidator()
			if err := utils.Validate.Struct(req); err != nil {
				return err
			}

			svc := user.NewUserService(user.NewUserRepository(opts.db), jwt.NewJWTService())
			res, err := svc.RegisterWithRole(cmd.Context(), req, domain.RoleAdmin)
			if err != nil {
				return err
			}
			opts.log.Info("admin created", "id", res.ID, "email", res.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&req.Name, "name", "Administrator", "display name")
	return cmd
}
