package postgres

import (
	"context"
	"fmt"
	"time"

	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/grand-thief-cash/focusboard/internal/config"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/logging"
)

// Component owns the gorm Postgres connection pool and runs SQL
// migrations on start when enabled.
type Component struct {
	*core.BaseComponent
	cfg *config.PostgresConfig
	db  *gorm.DB
}

func NewComponent(cfg *config.PostgresConfig) *Component {
	return &Component{
		BaseComponent: core.NewBaseComponent(consts.COMP_POSTGRES, consts.COMP_LOGGING),
		cfg:           cfg,
	}
}

func (c *Component) Start(ctx context.Context) error {
	if err := c.BaseComponent.Start(ctx); err != nil {
		return err
	}

	gormDB, err := gorm.Open(gormpg.Open(c.cfg.DSN), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open gorm postgres db failed: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB failed: %w", err)
	}

	if c.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.cfg.MaxOpenConns)
	}
	if c.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.cfg.MaxIdleConns)
	}
	if c.cfg.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(c.cfg.ConnMaxLife)
	}

	if c.cfg.PingOnStart {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := sqlDB.PingContext(pingCtx)
		cancel()
		if err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("ping postgres failed: %w", err)
		}
	}

	if c.cfg.MigrateEnabled {
		start := time.Now()
		if err := runMigrations(ctx, sqlDB, c.cfg.MigrateDir); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("migrations failed: %w", err)
		}
		logging.Infof(ctx, "postgres migrations applied from %s in %s", c.cfg.MigrateDir, time.Since(start))
	}

	c.db = gormDB
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return c.BaseComponent.Stop(ctx)
}

func (c *Component) HealthCheck() error {
	if err := c.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetDB returns the gorm handle (nil before Start).
func (c *Component) GetDB() *gorm.DB { return c.db }
