package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/grand-thief-cash/focusboard/internal/api"
	"github.com/grand-thief-cash/focusboard/internal/auth"
	"github.com/grand-thief-cash/focusboard/internal/components/httpserver"
	"github.com/grand-thief-cash/focusboard/internal/components/metrics"
	"github.com/grand-thief-cash/focusboard/internal/components/postgres"
	"github.com/grand-thief-cash/focusboard/internal/components/redisc"
	"github.com/grand-thief-cash/focusboard/internal/components/telemetry"
	"github.com/grand-thief-cash/focusboard/internal/config"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/dao"
	"github.com/grand-thief-cash/focusboard/internal/logging"
	"github.com/grand-thief-cash/focusboard/internal/service"
)

var configPath string

func main() {
	// .env is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "focusboard",
		Short: "Task-focus backend service",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "path to config file")
	root.AddCommand(serveCmd(), migrateCmd(), sweepCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	return cfg, nil
}

// registerBase wires the infrastructure components every subcommand
// needs: logging, then postgres on top of it.
func registerBase(container *core.Container, cfg *config.Config) (*postgres.Component, error) {
	logComp := logging.NewZapLoggerComponent(&cfg.Logging)
	if err := container.Register(consts.COMP_LOGGING, logComp); err != nil {
		return nil, err
	}
	pg := postgres.NewComponent(&cfg.Postgres)
	if err := container.Register(consts.COMP_POSTGRES, pg); err != nil {
		return nil, err
	}
	return pg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("jwt secret is not configured")
			}

			container := core.NewContainer()
			pg, err := registerBase(container, cfg)
			if err != nil {
				return err
			}

			tel := telemetry.NewComponent(&cfg.Telemetry)
			if err := container.Register(consts.COMP_TELEMETRY, tel); err != nil {
				return err
			}

			var metricsComp *metrics.Component
			if cfg.Metrics.Enabled {
				metricsComp = metrics.NewComponent(&cfg.Metrics)
				if err := container.Register(consts.COMP_METRICS, metricsComp); err != nil {
					return err
				}
			}

			var marker service.DailyMarker
			if cfg.Redis.Enabled {
				redisComp := redisc.NewComponent(&cfg.Redis)
				if err := container.Register(consts.COMP_REDIS, redisComp); err != nil {
					return err
				}
				marker = redisComp
			}

			taskDao := dao.NewTaskDao(pg)
			categoryDao := dao.NewCategoryDao(pg)
			taskSvc := service.NewTaskService(taskDao, metricsComp)
			categorySvc := service.NewCategoryService(categoryDao, taskDao)
			sweepSvc := service.NewSweepService(&cfg.Sweep, taskDao, marker, metricsComp)

			taskCtrl := api.NewTaskController(taskSvc)
			categoryCtrl := api.NewCategoryController(categorySvc)
			sweepCtrl := api.NewSweepController(sweepSvc)

			server := httpserver.NewComponent(&cfg.Server, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled, metricsComp)
			verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
			if err := server.AddRouteRegistrar(api.Routes(verifier, cfg.Auth.CronSecret, taskCtrl, categoryCtrl, sweepCtrl)); err != nil {
				return err
			}

			for name, comp := range map[string]core.Component{
				consts.COMP_DAO_TASK:      taskDao,
				consts.COMP_DAO_CATEGORY:  categoryDao,
				consts.COMP_SVC_TASK:      taskSvc,
				consts.COMP_SVC_CATEGORY:  categorySvc,
				consts.COMP_SVC_SWEEP:     sweepSvc,
				consts.COMP_CTRL_TASK:     taskCtrl,
				consts.COMP_CTRL_CATEGORY: categoryCtrl,
				consts.COMP_CTRL_SWEEP:    sweepCtrl,
				consts.COMP_HTTP_SERVER:   server,
			} {
				if err := container.Register(name, comp); err != nil {
					return err
				}
			}

			ctx := context.Background()
			lm := core.NewLifecycleManager(container)
			if err := lm.StartAll(ctx); err != nil {
				return err
			}
			lm.WaitForShutdown(ctx)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Postgres.MigrateEnabled = true

			container := core.NewContainer()
			if _, err := registerBase(container, cfg); err != nil {
				return err
			}
			ctx := context.Background()
			lm := core.NewLifecycleManager(container)
			if err := lm.StartAll(ctx); err != nil {
				return err
			}
			lm.StopAll(ctx)
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the global daily focus reset once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Sweep.Enabled = false // one-shot run, no background loop

			container := core.NewContainer()
			pg, err := registerBase(container, cfg)
			if err != nil {
				return err
			}
			taskDao := dao.NewTaskDao(pg)
			sweepSvc := service.NewSweepService(&cfg.Sweep, taskDao, nil, nil)
			if err := container.Register(consts.COMP_DAO_TASK, taskDao); err != nil {
				return err
			}
			if err := container.Register(consts.COMP_SVC_SWEEP, sweepSvc); err != nil {
				return err
			}

			ctx := context.Background()
			lm := core.NewLifecycleManager(container)
			if err := lm.StartAll(ctx); err != nil {
				return err
			}
			defer lm.StopAll(ctx)

			rows, err := sweepSvc.RunGlobal(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("reset %d focused tasks\n", rows)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default categories for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			container := core.NewContainer()
			pg, err := registerBase(container, cfg)
			if err != nil {
				return err
			}
			taskDao := dao.NewTaskDao(pg)
			categoryDao := dao.NewCategoryDao(pg)
			categorySvc := service.NewCategoryService(categoryDao, taskDao)
			for name, comp := range map[string]core.Component{
				consts.COMP_DAO_TASK:     taskDao,
				consts.COMP_DAO_CATEGORY: categoryDao,
				consts.COMP_SVC_CATEGORY: categorySvc,
			} {
				if err := container.Register(name, comp); err != nil {
					return err
				}
			}

			ctx := context.Background()
			lm := core.NewLifecycleManager(container)
			if err := lm.StartAll(ctx); err != nil {
				return err
			}
			defer lm.StopAll(ctx)

			cats, err := categorySvc.SeedDefaults(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Printf("user %s has %d categories\n", userID, len(cats))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner id to seed")
	return cmd
}
