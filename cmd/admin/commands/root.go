package commands

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/biashara-api/internal/application/admin"
	"github.com/jhoicas/biashara-api/internal/infrastructure/postgres"
	"github.com/jhoicas/biashara-api/pkg/config"
	"github.com/jhoicas/biashara-api/pkg/logger"
)

var (
	cfg     *config.Config
	log     *logger.Logger
	pool    *pgxpool.Pool
	adminUC *admin.AdminUseCase
)

// Execute arma el árbol de comandos de administración. Todos comparten config, logger y pool.
func Execute() error {
	root := &cobra.Command{
		Use:           "biashara-admin",
		Short:         "Tareas de administración de Biashara Connect",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			log = logger.New(logger.Config{
				Env:     cfg.App.Env,
				Level:   cfg.App.LogLevel,
				Service: cfg.App.Name + "-admin",
				Output:  cmd.ErrOrStderr(),
			})
			pool, err = postgres.NewPool(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			adminUC = admin.NewAdminUseCase(postgres.NewTxRunner(pool), log.Named("admin"))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pool != nil {
				pool.Close()
			}
		},
	}

	root.AddCommand(migrateCmd(), verifySellerCmd(), unverifySellerCmd(), createAdminCmd())
	return root.Execute()
}
