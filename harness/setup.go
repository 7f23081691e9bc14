package harness

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Process-wide one-time setup. Multiple tests in one run (including
// parallel ones) share it; the semaphore serializes the first run's
// execution so environment preparation never races.
var (
	setupSem  = semaphore.NewWeighted(1)
	setupMu   sync.Mutex
	setupFn   func(ctx context.Context) error
	setupDone bool
)

// Setup registers a routine that runs exactly once, before the first
// invocation in the process. Registering after setup already ran is
// test-setup misuse.
func Setup(fn func(ctx context.Context) error) {
	setupMu.Lock()
	defer setupMu.Unlock()
	if setupDone {
		panic("harness: Setup called after setup already ran")
	}
	setupFn = fn
}

// runSetup executes the registered setup routine if it has not run
// yet, holding the process-wide semaphore for the duration. A setup
// failure is environment misuse and panics.
func runSetup(h *Host) {
	setupMu.Lock()
	fn, done := setupFn, setupDone
	setupMu.Unlock()
	if fn == nil || done {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.settings.SetupTimeout.Std())
	defer cancel()
	if err := setupSem.Acquire(ctx, 1); err != nil {
		panic(fmt.Sprintf("harness: waiting for setup: %v", err))
	}
	defer setupSem.Release(1)

	setupMu.Lock()
	fn, done = setupFn, setupDone
	setupMu.Unlock()
	if fn == nil || done {
		return
	}
	if err := fn(ctx); err != nil {
		panic(fmt.Sprintf("harness: setup failed: %v", err))
	}
	setupMu.Lock()
	setupDone = true
	setupMu.Unlock()
}

// resetSetup clears the registered routine; the harness's own tests
// use it between cases.
func resetSetup() {
	setupMu.Lock()
	setupFn = nil
	setupDone = false
	setupMu.Unlock()
}
