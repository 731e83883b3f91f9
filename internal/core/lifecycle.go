package core

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// LifecycleManager starts registered components in dependency order and
// stops them in reverse on shutdown.
type LifecycleManager struct {
	container      *Container
	shutdownChan   chan os.Signal
	stopEvent      chan struct{}
	mutex          sync.RWMutex
	shutdownCalled bool
	timeout        time.Duration
}

func NewLifecycleManager(container *Container) *LifecycleManager {
	return &LifecycleManager{
		container:    container,
		shutdownChan: make(chan os.Signal, 1),
		stopEvent:    make(chan struct{}),
		timeout:      30 * time.Second,
	}
}

// SetTimeout bounds each component's start/stop call.
func (lm *LifecycleManager) SetTimeout(timeout time.Duration) {
	lm.timeout = timeout
}

func (lm *LifecycleManager) StartAll(ctx context.Context) error {
	components, err := lm.container.ValidateDependencies()
	if err != nil {
		return fmt.Errorf("component graph invalid: %w", err)
	}

	for _, comp := range components {
		startCtx, cancel := context.WithTimeout(ctx, lm.timeout)
		err := comp.Start(startCtx)
		cancel()
		if err != nil {
			log.Printf("failed to start component %s: %v", comp.Name(), err)
			lm.stopStartedComponents(context.Background(), components, comp.Name())
			return fmt.Errorf("failed to start component %s: %w", comp.Name(), err)
		}
		log.Printf("component %s started", comp.Name())
	}
	return nil
}

func (lm *LifecycleManager) StopAll(ctx context.Context) {
	lm.mutex.Lock()
	if lm.shutdownCalled {
		lm.mutex.Unlock()
		return
	}
	lm.shutdownCalled = true
	lm.mutex.Unlock()

	components, err := lm.container.SortComponentsByDependencies()
	if err != nil {
		log.Printf("failed to sort components for shutdown: %v", err)
		registered := lm.container.ListRegistered()
		components = make([]Component, 0, len(registered))
		for _, comp := range registered {
			components = append(components, comp)
		}
	}

	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		if !comp.IsActive() {
			continue
		}
		stopCtx, cancel := context.WithTimeout(ctx, lm.timeout)
		if err := comp.Stop(stopCtx); err != nil {
			log.Printf("error stopping component %s: %v", comp.Name(), err)
		}
		cancel()
	}
}

func (lm *LifecycleManager) stopStartedComponents(ctx context.Context, components []Component, failedComponentName string) {
	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		if comp.Name() == failedComponentName {
			break
		}
		if comp.IsActive() {
			stopCtx, cancel := context.WithTimeout(ctx, lm.timeout)
			if err := comp.Stop(stopCtx); err != nil {
				log.Printf("error stopping component %s during cleanup: %v", comp.Name(), err)
			}
			cancel()
		}
	}
}

// WaitForShutdown blocks until SIGINT/SIGTERM or context cancellation,
// then stops all components.
func (lm *LifecycleManager) WaitForShutdown(ctx context.Context) {
	signal.Notify(lm.shutdownChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-lm.shutdownChan
		log.Printf("received signal %v, shutting down", sig)
		close(lm.stopEvent)
	}()

	select {
	case <-lm.stopEvent:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), lm.timeout)
	defer cancel()
	lm.StopAll(shutdownCtx)
}
