// Package redisc wraps the redis client used as the daily-sweep marker
// store. The marker is a throttle hint only; the scheduled sweep is the
// source of truth for daily resets.
package redisc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grand-thief-cash/focusboard/internal/config"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
)

type Component struct {
	*core.BaseComponent
	cfg    *config.RedisConfig
	client *redis.Client
}

func NewComponent(cfg *config.RedisConfig) *Component {
	return &Component{
		BaseComponent: core.NewBaseComponent(consts.COMP_REDIS, consts.COMP_LOGGING),
		cfg:           cfg,
	}
}

func (c *Component) Start(ctx context.Context) error {
	if err := c.BaseComponent.Start(ctx); err != nil {
		return err
	}
	c.client = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Addr,
		Password: c.cfg.Password,
		DB:       c.cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis failed: %w", err)
	}
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if c.client != nil {
		_ = c.client.Close()
	}
	return c.BaseComponent.Stop(ctx)
}

func (c *Component) HealthCheck() error {
	if err := c.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	return c.client.Ping(context.Background()).Err()
}

// ClaimDaily sets the date-scoped marker if absent and reports whether
// this call claimed it. Markers expire after 48h so stale dates never
// accumulate.
func (c *Component) ClaimDaily(ctx context.Context, key string) (bool, error) {
	return c.client.SetNX(ctx, key, "1", 48*time.Hour).Result()
}

// Client exposes the raw client for components needing more than the
// marker API.
func (c *Component) Client() *redis.Client { return c.client }
