package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/components/metrics"
	"github.com/grand-thief-cash/focusboard/internal/config"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/dao"
	"github.com/grand-thief-cash/focusboard/internal/logging"
)

// DailyMarker records that a sweep ran for a key today. ClaimDaily
// returns true when this call planted the marker, false when it was
// already there.
type DailyMarker interface {
	ClaimDaily(ctx context.Context, key string) (bool, error)
}

// SweepResult reports one per-user sweep.
type SweepResult struct {
	Rows       int64 `json:"resetCount"`
	AlreadyRan bool  `json:"alreadyRan"`
}

// SweepService clears the focus flag on incomplete focused tasks. The
// scheduled global run is authoritative; the per-user endpoint exists
// so clients that missed the window can catch up, throttled by a
// date-scoped marker. The sweep itself is idempotent, so a lost or
// raced marker only costs a redundant no-op UPDATE.
type SweepService struct {
	*core.BaseComponent
	cfg     *config.SweepConfig
	TaskDao dao.TaskDao
	Marker  DailyMarker
	Metrics *metrics.Component

	loc    *time.Location
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSweepService(cfg *config.SweepConfig, taskDao dao.TaskDao, marker DailyMarker, m *metrics.Component) *SweepService {
	deps := []string{consts.COMP_DAO_TASK}
	if marker != nil {
		deps = append(deps, consts.COMP_REDIS)
	}
	return &SweepService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_SWEEP, deps...),
		cfg:           cfg,
		TaskDao:       taskDao,
		Marker:        marker,
		Metrics:       m,
	}
}

func (s *SweepService) Start(ctx context.Context) error {
	if err := s.BaseComponent.Start(ctx); err != nil {
		return err
	}
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid sweep timezone %q: %w", s.cfg.Timezone, err)
	}
	s.loc = loc
	if !s.cfg.Enabled {
		logging.Info(ctx, "scheduled sweep disabled")
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(runCtx)
	return nil
}

func (s *SweepService) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
		s.wg.Wait()
	}
	return s.BaseComponent.Stop(ctx)
}

func (s *SweepService) loop(ctx context.Context) {
	defer s.wg.Done()
	for {
		wait := time.Until(s.nextRun(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if _, err := s.RunGlobal(ctx); err != nil {
			logging.Errorf(ctx, "scheduled sweep failed: %v", err)
		}
	}
}

// nextRun returns the next reset instant strictly after now.
func (s *SweepService) nextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.cfg.ResetHour, 0, 0, 0, s.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunGlobal un-focuses every incomplete focused task across all owners.
func (s *SweepService) RunGlobal(ctx context.Context) (int64, error) {
	rows, err := s.TaskDao.ResetFocus(ctx, nil)
	if err != nil {
		s.observe("global", "error", 0)
		return 0, apperr.Internal("daily sweep failed", err)
	}
	s.observe("global", "swept", rows)
	logging.Infof(ctx, "daily sweep reset %d tasks", rows)
	return rows, nil
}

// RunForUser sweeps one owner. The marker makes repeated client calls
// on the same local date cheap; a marker failure degrades to running
// the sweep anyway.
func (s *SweepService) RunForUser(ctx context.Context, userID string) (*SweepResult, error) {
	if s.Marker != nil {
		key := fmt.Sprintf("sweep:%s:%s", time.Now().In(s.location()).Format("2006-01-02"), userID)
		claimed, err := s.Marker.ClaimDaily(ctx, key)
		if err != nil {
			logging.Warnf(ctx, "sweep marker unavailable, sweeping anyway: %v", err)
		} else if !claimed {
			s.observe("user", "skipped", 0)
			return &SweepResult{AlreadyRan: true}, nil
		}
	}
	rows, err := s.TaskDao.ResetFocus(ctx, &userID)
	if err != nil {
		s.observe("user", "error", 0)
		return nil, apperr.Internal("daily sweep failed", err)
	}
	s.observe("user", "swept", rows)
	return &SweepResult{Rows: rows}, nil
}

func (s *SweepService) location() *time.Location {
	if s.loc != nil {
		return s.loc
	}
	return time.UTC
}

func (s *SweepService) observe(scope, outcome string, rows int64) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.SweepRuns.WithLabelValues(scope, outcome).Inc()
	if rows > 0 {
		s.Metrics.SweepRows.WithLabelValues(scope).Add(float64(rows))
	}
}
