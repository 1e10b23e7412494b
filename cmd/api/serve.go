package main

import (
	"os/signal"
	"syscall"

	"rental/internal/infra/db"
	infrarepo "rental/internal/infra/repository"
	"rental/internal/job"
	"rental/internal/server"
	"rental/internal/usecase"
	"rental/internal/validator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		migrate bool
		noCron  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the critical stock scanner",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if migrate {
				if err := db.Migrate(a.db, a.log); err != nil {
					return err
				}
			}

			//Repository (GORM)
			users := infrarepo.NewUserGormRepository(a.db)
			products := infrarepo.NewProductGormRepository(a.db)
			movements := infrarepo.NewStockMovementGormRepository(a.db)
			tx := infrarepo.NewTxManagerGorm(a.db)

			clock := usecase.SystemClock{}
			deps := server.Deps{
				Config:       a.cfg,
				Log:          a.log,
				Users:        users,
				Auth:         usecase.NewAuthUsecase(users, validator.NewAuthValidator(users), a.cfg.JWTSecret, a.cfg.AccessTokenTTL, clock, a.log),
				Products:     usecase.NewProductUsecase(tx, products, movements, clock, a.log),
				Reservations: usecase.NewReservationUsecase(tx, usecase.UUIDGenerator{}, clock, a.log),
				Instances:    usecase.NewInstanceUsecase(tx, clock, a.log),
				AuditLogs:    usecase.NewAuditLogUsecase(infrarepo.NewAuditLogGormRepository(a.db), a.log),
			}

			if !noCron {
				sched := job.NewScheduler(a.log)
				scanner := job.NewCriticalStockScanner(products, a.log.Named("critical_stock"))
				if _, err := job.Schedule(sched, a.cfg.CriticalStockCron, scanner); err != nil {
					return err
				}
				sched.Start()
				defer func() { <-sched.Stop().Done() }()
				a.log.Info("critical stock scanner scheduled", zap.String("spec", a.cfg.CriticalStockCron))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Start(ctx, server.New(deps), a.cfg.Addr(), a.log)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations before serving")
	cmd.Flags().BoolVar(&noCron, "no-cron", false, "do not schedule the critical stock scanner")
	return cmd
}
